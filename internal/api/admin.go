package api

import (
	"context"  // Context for cache invalidation
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Release dates

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Importing domain models
	"github.com/SofiaUmrish/sneaker-drop/internal/store"  // Repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// hypeLimit is the number of shoes in the hype ranking
const hypeLimit = 5

// ShoeRequest represents a create or update of a drop
type ShoeRequest struct {
	ModelName   string    `json:"model_name" binding:"required"`   // Model name
	Description string    `json:"description"`                     // Free text
	Price       float64   `json:"price" binding:"gte=0"`           // Retail price
	ReleaseDate time.Time `json:"release_date" binding:"required"` // Release date (RFC 3339)
	ImageURL    string    `json:"image_url"`                       // Product image
	ShopLink    string    `json:"shop_link"`                       // Purchase link
	BrandID     FlexID    `json:"brand_id" binding:"required"`     // Brand
	CategoryID  FlexID    `json:"category_id" binding:"required"`  // Category
	SKU         string    `json:"sku"`                             // Stock keeping unit
}

// toShoe maps the request onto a domain shoe
func (r ShoeRequest) toShoe() domain.Shoe {
	return domain.Shoe{
		ModelName:   r.ModelName,
		Description: r.Description,
		Price:       r.Price,
		ReleaseDate: r.ReleaseDate.UTC(),
		ImageURL:    r.ImageURL,
		ShopLink:    r.ShopLink,
		BrandID:     uint(r.BrandID),
		CategoryID:  uint(r.CategoryID),
		SKU:         r.SKU,
	}
}

// invalidateCatalog drops cached responses affected by catalog writes
func invalidateCatalog(ctx context.Context, cache *utils.Cache) {
	if err := cache.DeleteCache(ctx, utils.KeyShoes, utils.KeyHype); err != nil {
		logrus.WithField("error", err.Error()).Warn("Cache invalidation failed")
	}
}

// CreateShoeHandler adds a drop to the catalog
func CreateShoeHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShoeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.ReleaseDate.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shoe payload"})
			return
		}
		shoe := req.toShoe()
		if err := st.CreateShoe(c.Request.Context(), &shoe); err != nil {
			logrus.WithFields(logrus.Fields{
				"model_name": req.ModelName, // Requested model
				"error":      err.Error(),   // Error message
			}).Error("Add shoe failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add shoe"})
			return
		}
		invalidateCatalog(c.Request.Context(), cache)
		logrus.WithFields(logrus.Fields{
			"shoe_id":   shoe.ID,                         // New shoe ID
			"type":      "create_shoe",                   // Operation type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Shoe created")
		c.JSON(http.StatusCreated, domain.NewShoeView(shoe, time.Now()))
	}
}

// UpdateShoeHandler overwrites a drop
func UpdateShoeHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shoe id"})
			return
		}
		var req ShoeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.ReleaseDate.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shoe payload"})
			return
		}
		shoe, err := st.UpdateShoe(c.Request.Context(), id, req.toShoe())
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shoe not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"shoe_id": id, "error": err.Error()}).Error("Update shoe failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shoe"})
			return
		}
		invalidateCatalog(c.Request.Context(), cache)
		c.JSON(http.StatusOK, gin.H{"message": "Shoe updated successfully", "updatedShoe": domain.NewShoeView(*shoe, time.Now())})
	}
}

// DeleteShoeHandler removes a drop and everything referencing it
func DeleteShoeHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shoe id"})
			return
		}
		shoe, err := st.DeleteShoe(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shoe not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"shoe_id": id, "error": err.Error()}).Error("Delete shoe failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shoe"})
			return
		}
		invalidateCatalog(c.Request.Context(), cache)
		c.JSON(http.StatusOK, gin.H{"message": "Shoe deleted successfully", "deletedShoe": shoe})
	}
}

// HypeHandler returns the most wishlisted shoes
func HypeHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, cached, err := utils.Remember(c.Request.Context(), cache, utils.KeyHype, func(ctx context.Context) ([]domain.HypeEntry, error) {
			return st.Hype(ctx, hypeLimit)
		})
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Hype analytics failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hype analytics"})
			return
		}
		c.Header("X-Cache-Hit", boolString(cached))
		c.JSON(http.StatusOK, entries)
	}
}
