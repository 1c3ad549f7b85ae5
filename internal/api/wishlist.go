package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"github.com/SofiaUmrish/sneaker-drop/internal/middleware" // Auth context helpers
	"github.com/SofiaUmrish/sneaker-drop/internal/store"      // Repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto registration
	"github.com/sirupsen/logrus"                              // Logging library
)

var wishlistTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sneaker_wishlist_toggles_total",
	Help: "Wishlist toggles by outcome",
}, []string{"result"})

// ShoeRefRequest carries a shoe id as a number or numeric string
type ShoeRefRequest struct {
	ShoeID FlexID `json:"shoe_id" binding:"required"` // Target shoe
}

// WishlistItem is one row of GET /wishlist
type WishlistItem struct {
	ShoeID uint `json:"shoe_id"` // Liked shoe
}

// ToggleWishlistHandler flips the (user, shoe) pair: 201 when added, 200 when removed
func ToggleWishlistHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ShoeRefRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shoe_id is required"})
			return
		}
		shoeID := uint(req.ShoeID)
		added, err := st.ToggleWishlist(c.Request.Context(), userID, shoeID)
		if errors.Is(err, store.ErrNotFound) {
			wishlistTogglesTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "Shoe not found"})
			return
		}
		if err != nil {
			wishlistTogglesTotal.WithLabelValues("error").Inc()
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"shoe_id": shoeID,      // Shoe ID
				"error":   err.Error(), // Error message
			}).Error("Wishlist update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Wishlist update failed"})
			return
		}
		// Hype ranking depends on wishlist counts
		if err := cache.DeleteCache(c.Request.Context(), utils.KeyHype); err != nil {
			logrus.WithField("error", err.Error()).Warn("Cache invalidation failed")
		}
		action := "removed"
		if added {
			action = "added"
		}
		wishlistTogglesTotal.WithLabelValues(action).Inc()
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"shoe_id":   shoeID,                          // Shoe ID
			"action":    action,                          // Outcome
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Wishlist toggled")
		if added {
			c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}

// GetWishlistHandler lists the shoe ids liked by the authenticated user
func GetWishlistHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ids, err := st.WishlistShoeIDs(c.Request.Context(), userID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Fetch wishlist failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		items := make([]WishlistItem, len(ids))
		for i, id := range ids {
			items[i] = WishlistItem{ShoeID: id}
		}
		c.JSON(http.StatusOK, items)
	}
}
