package store

import (
	"context" // Request scoped context
	"errors"  // Error inspection

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// CreateUser inserts a new user, rejecting an email that is already registered
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64 // Accounts already using the email
		if err := tx.Model(&domain.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail // Lost a race with a concurrent registration
			}
			return err
		}
		return nil
	})
}

// UserByEmail looks a user up by email
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UserByID looks a user up by primary key
func (s *Store) UserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateBudget overwrites the monthly budget of a user
func (s *Store) UpdateBudget(ctx context.Context, userID uint, limit float64) error {
	return s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Update("monthly_budget", limit).Error
}

// UpdateProfile changes name and email, keeping emails unique across accounts
func (s *Store) UpdateProfile(ctx context.Context, userID uint, name, email string) (*domain.User, error) {
	var u domain.User // Updated user
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64 // Other accounts using the email
		if err := tx.Model(&domain.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.First(&u, userID).Error; err != nil {
			return notFound(err)
		}
		return tx.Model(&u).Updates(map[string]any{"name": name, "email": email}).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
