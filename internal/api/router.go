package api

import (
	"net/http" // HTTP status codes

	"github.com/SofiaUmrish/sneaker-drop/internal/config"     // Configuration
	"github.com/SofiaUmrish/sneaker-drop/internal/middleware" // Custom middleware
	"github.com/SofiaUmrish/sneaker-drop/internal/store"      // Repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
)

// NewRouter wires every route of the API
func NewRouter(cfg *config.Config, st *store.Store, cache *utils.Cache) *gin.Engine {
	r := gin.New()                                                          // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics()) // Global middleware

	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus scrape endpoint

	authLimiter := middleware.NewRateLimiter(cfg.AuthRPS, cfg.AuthBurst) // Brute force protection
	requireAuth := middleware.JWTAuthMiddleware(cfg.JWTSecret)           // JWT guard
	requireAdmin := middleware.AdminOnlyMiddleware(st)                   // Role guard

	apiGroup := r.Group("/api")
	apiGroup.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is connected!"})
	})

	// Auth routes
	apiGroup.POST("/register", authLimiter.Middleware(), RegisterHandler(st, cfg.AdminEmail, cfg.DefaultBudget)) // Registration endpoint
	apiGroup.POST("/login", authLimiter.Middleware(), LoginHandler(st, cfg.JWTSecret))                           // Login endpoint

	// Public catalog routes
	apiGroup.GET("/shoes", ListShoesHandler(st, cache))           // Catalog
	apiGroup.GET("/shoes/soonest", SoonestShoeHandler(st))        // Next drop
	apiGroup.GET("/shoes/:id", GetShoeHandler(st))                // Single drop
	apiGroup.GET("/brands", ListBrandsHandler(st, cache))         // Brands
	apiGroup.GET("/categories", ListCategoriesHandler(st, cache)) // Categories

	// User routes (protected by JWT)
	userGroup := apiGroup.Group("", requireAuth)
	userGroup.PUT("/user/budget", UpdateBudgetHandler(st))        // Monthly budget
	userGroup.PUT("/user/profile", UpdateProfileHandler(st))      // Profile
	userGroup.GET("/user/reminders", ListRemindersHandler(st))    // Reminder list
	userGroup.POST("/reminders", SetReminderHandler(st))          // Reminder insert
	userGroup.DELETE("/reminders/:id", RemoveReminderHandler(st)) // Reminder delete
	userGroup.GET("/wishlist", GetWishlistHandler(st))            // Liked shoe ids
	userGroup.POST("/wishlist", ToggleWishlistHandler(st, cache)) // Like toggle
	userGroup.GET("/budget/:userId", BudgetTotalHandler(st))      // Wishlist total

	// Admin routes (protected, admin only)
	adminGroup := apiGroup.Group("", requireAuth, requireAdmin)
	adminGroup.POST("/shoes", CreateShoeHandler(st, cache))       // Add drop
	adminGroup.PUT("/shoes/:id", UpdateShoeHandler(st, cache))    // Edit drop
	adminGroup.DELETE("/shoes/:id", DeleteShoeHandler(st, cache)) // Remove drop
	adminGroup.GET("/analytics/hype", HypeHandler(st, cache))     // Hype ranking

	return r
}
