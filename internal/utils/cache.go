package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"github.com/redis/go-redis/v9"   // Redis client
	"github.com/sirupsen/logrus"     // Logging library
	"golang.org/x/sync/singleflight" // Deduplicates concurrent cache fills
)

// Cache keys shared by handlers that read and invalidate them
const (
	KeyShoes      = "catalog:shoes"      // Full catalog
	KeyBrands     = "catalog:brands"     // Brand list
	KeyCategories = "catalog:categories" // Category list
	KeyHype       = "analytics:hype"     // Hype ranking
)

// Cache is a JSON cache on top of Redis; a Cache without a client never hits
type Cache struct {
	rdb   redis.UniversalClient // Redis client, nil disables caching
	ttl   time.Duration         // Default TTL
	group singleflight.Group    // Collapses concurrent misses on the same key
}

// NewCache creates a cache; pass a nil client to disable caching
func NewCache(rdb redis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func (c *Cache) GetCache(ctx context.Context, key string, dest any) (bool, error) {
	if c.rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with the default TTL
func (c *Cache) SetCache(ctx context.Context, key string, value any) error {
	if c.rdb == nil {
		return nil // Caching disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func (c *Cache) DeleteCache(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil // Nothing to invalidate
	}
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// Remember returns the cached value of key, loading and caching it on a miss.
// Concurrent misses on the same key share a single load, which outlives the
// cancellation of whichever caller started it. Each sharing caller receives
// its own decoded copy, as it would on a cache hit.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if found, err := c.GetCache(ctx, key, &cached); err == nil && found {
		return cached, true, nil // Cache hit
	} else if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx) // Shared by every waiting caller
		fresh, err := load(loadCtx)          // Load from the source of truth
		if err != nil {
			return nil, err
		}
		if err := c.SetCache(loadCtx, key, fresh); err != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
		}
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	if !shared {
		return v.(T), false, nil
	}
	b, err := json.Marshal(v) // Detach this caller from the shared value
	if err != nil {
		var zero T
		return zero, false, err
	}
	var own T
	return own, false, json.Unmarshal(b, &own)
}
