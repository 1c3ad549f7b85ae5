package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/SofiaUmrish/sneaker-drop/internal/domain"     // Importing domain models
	"github.com/SofiaUmrish/sneaker-drop/internal/middleware" // Auth context helpers
	"github.com/SofiaUmrish/sneaker-drop/internal/store"      // Repositories

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BudgetRequest represents a monthly budget update
type BudgetRequest struct {
	Limit *float64 `json:"limit" binding:"required"` // New monthly limit; zero is allowed
}

// ProfileRequest represents a profile update
type ProfileRequest struct {
	Name  string `json:"name" binding:"required"`        // Display name
	Email string `json:"email" binding:"required,email"` // Email
}

// UpdateBudgetHandler overwrites the authenticated user's monthly budget
func UpdateBudgetHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req BudgetRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || *req.Limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Budget limit must be a non-negative number"})
			return
		}
		if err := st.UpdateBudget(c.Request.Context(), userID, *req.Limit); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"limit":   *req.Limit,  // Requested limit
				"error":   err.Error(), // Error message
			}).Error("Update budget failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully", "monthly_budget": *req.Limit})
	}
}

// UpdateProfileHandler changes the authenticated user's name and email
func UpdateProfileHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a valid email are required"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email)) // Normalize email
		user, err := st.UpdateProfile(c.Request.Context(), userID, strings.TrimSpace(req.Name), email)
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already in use by another account."})
			return
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Update profile failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile."})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// BudgetTotalHandler sums the wishlist of a user; only the user or an admin may ask
func BudgetTotalHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		targetID, ok := paramID(c, "userId") // Requested user
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		if callerID != targetID && c.GetString(middleware.CtxRole) != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied."})
			return
		}
		total, err := st.WishlistTotal(c.Request.Context(), targetID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": targetID, "error": err.Error()}).Error("Budget calc failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate budget"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total_budget": total})
	}
}
