package store

import (
	"errors" // Sentinel errors

	"gorm.io/gorm" // GORM ORM library
)

var (
	ErrNotFound       = errors.New("record not found")     // Requested row does not exist
	ErrDuplicateEmail = errors.New("email already exists") // Email taken by another account
)

// Store wraps the database handle used by every repository method
type Store struct {
	db *gorm.DB // GORM connection
}

// New creates a Store on top of an open GORM connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for migrations and health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}

// notFound maps GORM's missing-record error onto ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
