package api

import (
	"context"  // Cache loader context
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"slices"   // Per-request copy of shared results
	"time"     // Status derivation

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Importing domain models
	"github.com/SofiaUmrish/sneaker-drop/internal/store"  // Repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// toViews converts shoes to their API representation at now
func toViews(shoes []domain.Shoe, now time.Time) []domain.ShoeView {
	views := make([]domain.ShoeView, len(shoes))
	for i, s := range shoes {
		views[i] = domain.NewShoeView(s, now)
	}
	return views
}

// ListShoesHandler returns the catalog; status is derived per request even on cache hits
func ListShoesHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		views, cached, err := utils.Remember(ctx, cache, utils.KeyShoes, func(ctx context.Context) ([]domain.ShoeView, error) {
			shoes, err := st.ListShoes(ctx) // Load the catalog from the database
			if err != nil {
				return nil, err
			}
			return toViews(shoes, time.Now()), nil
		})
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Fetch shoes failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shoes"})
			return
		}
		views = slices.Clone(views) // Concurrent misses share one loaded slice
		now := time.Now()           // Cached entries may have crossed their release date
		for i := range views {
			views[i].Status = views[i].StatusAt(now)
		}
		c.Header("X-Cache-Hit", boolString(cached))
		c.JSON(http.StatusOK, views)
	}
}

// SoonestShoeHandler returns the next drop releasing today or later, or null
func SoonestShoeHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC) // Start of the current day
		shoe, err := st.SoonestShoe(c.Request.Context(), today)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, nil) // Nothing scheduled
			return
		}
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Fetch soonest drop failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch soonest drop"})
			return
		}
		c.JSON(http.StatusOK, domain.NewShoeView(*shoe, now))
	}
}

// GetShoeHandler returns one shoe by numeric id or slug
func GetShoeHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			shoe *domain.Shoe
			err  error
		)
		if id, ok := paramID(c, "id"); ok {
			shoe, err = st.ShoeByID(c.Request.Context(), id) // Numeric lookup
		} else {
			shoe, err = st.ShoeBySlug(c.Request.Context(), c.Param("id")) // Slug lookup
		}
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shoe not found"})
			return
		}
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Fetch shoe failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shoe"})
			return
		}
		c.JSON(http.StatusOK, domain.NewShoeView(*shoe, time.Now()))
	}
}

// ListBrandsHandler returns every brand ordered by name
func ListBrandsHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, _, err := utils.Remember(c.Request.Context(), cache, utils.KeyBrands, st.ListBrands)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Fetch brands failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brands"})
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

// ListCategoriesHandler returns every category ordered by name
func ListCategoriesHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, _, err := utils.Remember(c.Request.Context(), cache, utils.KeyCategories, st.ListCategories)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Fetch categories failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
