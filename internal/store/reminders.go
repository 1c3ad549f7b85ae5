package store

import (
	"context" // Request scoped context
	"sort"    // Ordering by release date

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Domain models

	"gorm.io/gorm/clause" // ON CONFLICT support
)

// AddReminder records a reminder; an existing (user, shoe) pair is left untouched
func (s *Store) AddReminder(ctx context.Context, userID, shoeID uint) error {
	db := s.db.WithContext(ctx)
	ok, err := shoeExists(db, shoeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Reminder{UserID: userID, ShoeID: shoeID}).Error
}

// RemoveReminder deletes a reminder owned by the user; a missing id is not an error
func (s *Store) RemoveReminder(ctx context.Context, userID, reminderID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reminderID, userID).
		Delete(&domain.Reminder{}).Error
}

// ListReminders returns the user's reminders with shoe data, soonest release first
func (s *Store) ListReminders(ctx context.Context, userID uint) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	err := s.db.WithContext(ctx).
		Preload("Shoe.Brand").
		Preload("Shoe.Category").
		Where("user_id = ?", userID).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i].Shoe.ReleaseDate, reminders[j].Shoe.ReleaseDate
		if a.Equal(b) {
			return reminders[i].ID < reminders[j].ID
		}
		return a.Before(b)
	})
	return reminders, nil
}
