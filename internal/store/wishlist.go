package store

import (
	"context" // Request scoped context
	"errors"  // Error inspection

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// ToggleWishlist deletes the (user, shoe) pair when present and inserts it otherwise.
// The request carries no intent: the outcome depends on the row observed inside the transaction.
func (s *Store) ToggleWishlist(ctx context.Context, userID, shoeID uint) (added bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := shoeExists(tx, shoeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		res := tx.Where("user_id = ? AND shoe_id = ?", userID, shoeID).Delete(&domain.WishlistEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false // Pair existed and is now gone
			return nil
		}
		added = true
		return tx.Create(&domain.WishlistEntry{UserID: userID, ShoeID: shoeID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil // A concurrent toggle inserted the same pair first
	}
	return added, err
}

// WishlistShoeIDs returns the ids of every shoe the user liked
func (s *Store) WishlistShoeIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).
		Model(&domain.WishlistEntry{}).
		Where("user_id = ?", userID).
		Order("shoe_id asc").
		Pluck("shoe_id", &ids).Error
	return ids, err
}

// WishlistTotal sums the price of every shoe on the user's wishlist
func (s *Store) WishlistTotal(ctx context.Context, userID uint) (float64, error) {
	var row struct {
		Total float64 // Sum of prices
	}
	err := s.db.WithContext(ctx).
		Table("shoes").
		Select("COALESCE(SUM(shoes.price), 0) AS total").
		Joins("JOIN wishlist_entries ON wishlist_entries.shoe_id = shoes.id").
		Where("wishlist_entries.user_id = ?", userID).
		Scan(&row).Error
	return row.Total, err
}
