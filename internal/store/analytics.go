package store

import (
	"context" // Request scoped context

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Domain models
)

// Hype ranks shoes by how many wishlists reference them
func (s *Store) Hype(ctx context.Context, limit int) ([]domain.HypeEntry, error) {
	entries := []domain.HypeEntry{}
	err := s.db.WithContext(ctx).
		Table("shoes").
		Select("shoes.id, shoes.model_name, shoes.image_url, COUNT(wishlist_entries.shoe_id) AS likes_count").
		Joins("LEFT JOIN wishlist_entries ON wishlist_entries.shoe_id = shoes.id").
		Group("shoes.id, shoes.model_name, shoes.image_url").
		Order("likes_count desc").
		Order("shoes.id asc").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
