package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Importing domain models
	"github.com/SofiaUmrish/sneaker-drop/internal/store"  // Repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`        // Display name must be provided
	Email    string `json:"email" binding:"required,email"` // Email must be valid
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	ID            uint    `json:"id"`             // User ID
	Name          string  `json:"name"`           // Display name
	Email         string  `json:"email"`          // Email
	Role          string  `json:"role"`           // Role
	MonthlyBudget float64 `json:"monthly_budget"` // Monthly budget
	Token         string  `json:"token"`          // JWT token
}

// RegisterHandler creates a user; the configured admin email is promoted to admin
func RegisterHandler(st *store.Store, adminEmail string, defaultBudget float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, a valid email and a password are required"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email)) // Normalize email to ensure uniqueness
		role := domain.RoleUser                                // Role is fixed at creation
		if email == strings.ToLower(adminEmail) {
			role = domain.RoleAdmin
		}
		user := domain.User{
			Name:          strings.TrimSpace(req.Name), // Display name
			Email:         email,                       // Normalized email
			Password:      string(hash),                // Hashed password
			Role:          role,                        // Role
			MonthlyBudget: defaultBudget,               // Starting budget
		}
		// Attempt to create the user in the database
		if err := st.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "User registration failed. Email might already exist."})
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": email,       // Requested email
				"error": err.Error(), // Error message
			}).Error("Register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User registration failed"})
			return
		}
		// Return the created user
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(st *store.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Fetch user from database
		user, err := st.UserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logrus.WithField("error", err.Error()).Error("Login lookup failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during login"})
				return
			}
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the profile and token in the response
		c.JSON(http.StatusOK, AuthResponse{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			Role:          user.Role,
			MonthlyBudget: user.MonthlyBudget,
			Token:         token,
		})
	}
}
