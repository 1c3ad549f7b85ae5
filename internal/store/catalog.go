package store

import (
	"context" // Request scoped context
	"time"    // Release date filtering

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Domain models

	"github.com/gosimple/slug" // Slug generation
	"gorm.io/gorm"             // GORM ORM library
)

// ListShoes returns the whole catalog with brand and category loaded
func (s *Store) ListShoes(ctx context.Context) ([]domain.Shoe, error) {
	var shoes []domain.Shoe
	err := s.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Order("id asc").
		Find(&shoes).Error
	return shoes, err
}

// ShoeByID returns a single shoe with its relations
func (s *Store) ShoeByID(ctx context.Context, id uint) (*domain.Shoe, error) {
	var shoe domain.Shoe
	if err := s.db.WithContext(ctx).Preload("Brand").Preload("Category").First(&shoe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shoe, nil
}

// ShoeBySlug returns the first shoe carrying the slug
func (s *Store) ShoeBySlug(ctx context.Context, value string) (*domain.Shoe, error) {
	var shoe domain.Shoe
	err := s.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Where("slug = ?", value).
		Order("id asc").
		First(&shoe).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &shoe, nil
}

// SoonestShoe returns the earliest drop releasing at or after from
func (s *Store) SoonestShoe(ctx context.Context, from time.Time) (*domain.Shoe, error) {
	var shoe domain.Shoe
	err := s.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Where("release_date >= ?", from).
		Order("release_date asc").
		Order("id asc").
		First(&shoe).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &shoe, nil
}

// shoeExists reports whether a shoe row exists
func shoeExists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := tx.Model(&domain.Shoe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateShoe inserts a new drop and derives its slug
func (s *Store) CreateShoe(ctx context.Context, shoe *domain.Shoe) error {
	shoe.Slug = slug.Make(shoe.ModelName)
	if err := s.db.WithContext(ctx).Create(shoe).Error; err != nil {
		return err
	}
	return s.loadRelations(ctx, shoe)
}

// UpdateShoe overwrites every editable column of an existing drop
func (s *Store) UpdateShoe(ctx context.Context, id uint, in domain.Shoe) (*domain.Shoe, error) {
	var shoe domain.Shoe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&shoe, id).Error; err != nil {
			return notFound(err)
		}
		// Map form so zero values are written too
		return tx.Model(&shoe).Updates(map[string]any{
			"model_name":   in.ModelName,
			"slug":         slug.Make(in.ModelName),
			"brand_id":     in.BrandID,
			"category_id":  in.CategoryID,
			"price":        in.Price,
			"release_date": in.ReleaseDate,
			"image_url":    in.ImageURL,
			"shop_link":    in.ShopLink,
			"sku":          in.SKU,
			"description":  in.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.ShoeByID(ctx, id)
}

// DeleteShoe removes a drop together with the wishlist and reminder rows pointing at it
func (s *Store) DeleteShoe(ctx context.Context, id uint) (*domain.Shoe, error) {
	var shoe domain.Shoe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&shoe, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("shoe_id = ?", id).Delete(&domain.WishlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shoe_id = ?", id).Delete(&domain.Reminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&shoe).Error
	})
	if err != nil {
		return nil, err
	}
	return &shoe, nil
}

// ListBrands returns brands ordered by name
func (s *Store) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	err := s.db.WithContext(ctx).Order("name asc").Find(&brands).Error
	return brands, err
}

// ListCategories returns categories ordered by name
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.db.WithContext(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

// loadRelations fills brand and category after a write
func (s *Store) loadRelations(ctx context.Context, shoe *domain.Shoe) error {
	fresh, err := s.ShoeByID(ctx, shoe.ID)
	if err != nil {
		return err
	}
	*shoe = *fresh
	return nil
}
