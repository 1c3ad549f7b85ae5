// Package reminder is the client side of drop reminders.
package reminder

import (
	"context" // Request scoping
	"sort"    // Soonest-first ordering

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Identities and client errors
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"    // Shared models

	"github.com/sirupsen/logrus" // Logging library
)

// Backend is the durable side of reminders
type Backend interface {
	SetReminder(ctx context.Context, token string, shoeID uint) error
	Reminders(ctx context.Context, token string) ([]domain.ReminderView, error)
	RemoveReminder(ctx context.Context, token string, reminderID uint) error
}

// Service sets, lists and removes reminders of the signed-in user
type Service struct {
	backend Backend // Remote reminder API
}

// NewService creates a reminder service
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Set records a reminder for shoeID; setting it twice is not an error
func (s *Service) Set(ctx context.Context, user *apiclient.Identity, shoeID uint) error {
	if user == nil {
		return apiclient.ErrNotAuthenticated
	}
	if shoeID == 0 {
		return apiclient.ErrInvalidInput
	}
	if err := s.backend.SetReminder(ctx, user.Token, shoeID); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "shoe_id": shoeID, "error": err.Error()}).Warn("Set reminder failed")
		return err
	}
	return nil
}

// Remove deletes a reminder by its id; unknown ids succeed
func (s *Service) Remove(ctx context.Context, user *apiclient.Identity, reminderID uint) error {
	if user == nil {
		return apiclient.ErrNotAuthenticated
	}
	if reminderID == 0 {
		return apiclient.ErrInvalidInput
	}
	return s.backend.RemoveReminder(ctx, user.Token, reminderID)
}

// List returns the user's reminders, soonest release first
func (s *Service) List(ctx context.Context, user *apiclient.Identity) ([]domain.ReminderView, error) {
	if user == nil {
		return nil, apiclient.ErrNotAuthenticated
	}
	reminders, err := s.backend.Reminders(ctx, user.Token)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].ReleaseDate.Before(reminders[j].ReleaseDate)
	})
	return reminders, nil
}
