// Package localstore keeps client-side state in an embedded badger database:
// the guest budget limit, the signed-in identity and the last known wishlist of each user.
package localstore

import (
	"encoding/json" // Value encoding
	"errors"        // Error inspection
	"fmt"           // Error wrapping
	"os"            // Directory creation
	"strconv"       // Key formatting

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Persisted identity

	"github.com/dgraph-io/badger/v4" // Embedded key-value store
	"github.com/sirupsen/logrus"     // Logging library
)

const (
	keyGuestBudget = "budget:guest"
	keySession     = "session:current"
	wishlistPrefix = "wishlist:user:"
)

// Store is a small typed key-value layer over badger. Safe for concurrent use.
type Store struct {
	db *badger.DB // Underlying key-value store
}

// Open opens or creates the store under dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create local store directory %s: %w", dir, err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that lives only as long as the process
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), b)
	})
}

// get decodes key into v and reports whether the key existed
func (s *Store) get(key string, v any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// GuestBudget returns the stored guest limit and whether one was stored
func (s *Store) GuestBudget() (float64, bool) {
	var limit float64
	ok, err := s.get(keyGuestBudget, &limit)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Read guest budget failed")
		return 0, false
	}
	return limit, ok
}

// SetGuestBudget stores the guest limit
func (s *Store) SetGuestBudget(limit float64) error {
	return s.put(keyGuestBudget, limit)
}

// Session returns the persisted identity, or nil when signed out
func (s *Store) Session() (*apiclient.Identity, error) {
	var id apiclient.Identity
	ok, err := s.get(keySession, &id)
	if err != nil || !ok {
		return nil, err
	}
	return &id, nil
}

// SaveSession persists the signed-in identity, token included
func (s *Store) SaveSession(id *apiclient.Identity) error {
	return s.put(keySession, id)
}

// ClearSession forgets the signed-in identity
func (s *Store) ClearSession() error {
	return s.delete(keySession)
}

func wishlistKey(userID uint) string {
	return wishlistPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Wishlist returns the last cached wishlist of a user
func (s *Store) Wishlist(userID uint) ([]uint, error) {
	var ids []uint
	_, err := s.get(wishlistKey(userID), &ids)
	return ids, err
}

// SaveWishlist caches the wishlist of a user
func (s *Store) SaveWishlist(userID uint, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	return s.put(wishlistKey(userID), ids)
}
