package main

import (
	"context" // context package is needed for Redis operations

	"github.com/SofiaUmrish/sneaker-drop/internal/api"    // Custom package for API handlers
	"github.com/SofiaUmrish/sneaker-drop/internal/config" // Custom package for configuration
	"github.com/SofiaUmrish/sneaker-drop/internal/store"  // Custom package for repositories
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"  // Custom package for the Redis cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if !cfg.IsProd {
		logrus.SetLevel(logrus.DebugLevel) // Per-request lines in development
	}

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection; the API still works uncached without it
	var cache *utils.Cache
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.WithField("error", err.Error()).Warn("Redis unavailable, serving without cache")
		cache = utils.NewCache(nil, cfg.CacheTTL)
	} else {
		cache = utils.NewCache(redisClient, cfg.CacheTTL)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(cfg, store.New(db), cache) // Gin router with every route

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
