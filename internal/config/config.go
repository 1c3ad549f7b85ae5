package config

import (
	"os"            // For environment variables
	"path/filepath" // For the client data directory
	"strconv"       // For string to number conversion
	"time"          // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the server configuration
type Config struct {
	AppPort       string        // Application port
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	JWTSecret     string        // JWT secret key
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	IsProd        bool          // Is production environment
	AdminEmail    string        // Email promoted to admin at registration
	DefaultBudget float64       // Monthly budget given to new users
	CacheTTL      time.Duration // TTL for cached catalog and analytics responses
	AuthRPS       float64       // Allowed login/register requests per second per IP
	AuthBurst     int           // Burst size for login/register requests
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       getEnv("APP_PORT", "5000"),                      // Application port
		DBUser:        os.Getenv("DB_USER"),                            // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                        // Database password
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),                  // Database host
		DBPort:        getEnv("DB_PORT", "3306"),                       // Database port
		DBName:        getEnv("DB_NAME", "sneaker_drop"),               // Database name
		JWTSecret:     getEnv("JWT_SECRET", "sneaker_secret_key_2025"), // JWT secret key
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),          // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                         // Redis password
		RedisDB:       redisDB,                                         // Redis database number
		IsProd:        os.Getenv("IS_PROD") == "true",                  // Is production environment
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@sneaker.com"),      // Admin email
		DefaultBudget: getFloat("DEFAULT_BUDGET", 1000),                // Default monthly budget
		CacheTTL:      getDuration("CACHE_TTL", 60*time.Second),        // Cache TTL
		AuthRPS:       getFloat("AUTH_RPS", 1),                         // Auth requests per second
		AuthBurst:     int(getFloat("AUTH_BURST", 5)),                  // Auth burst
	}
}

// ClientConfig holds the command-line client configuration
type ClientConfig struct {
	APIURL      string        // Base URL of the REST API, including the /api prefix
	DataDir     string        // Directory of the local store
	HTTPTimeout time.Duration // Timeout of a single API request
	ClearOnFail bool          // Clear the wishlist when a load fails instead of keeping it
}

// LoadClientConfig loads the client configuration from environment variables
func LoadClientConfig() *ClientConfig {
	_ = godotenv.Load() // Load .env file if present
	dataDir := os.Getenv("SNEAKER_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "." // Fall back to the working directory
		}
		dataDir = filepath.Join(home, ".sneakerctl")
	}
	return &ClientConfig{
		APIURL:      getEnv("SNEAKER_API_URL", "http://localhost:5000/api"), // API base URL
		DataDir:     dataDir,                                                // Local store directory
		HTTPTimeout: getDuration("SNEAKER_HTTP_TIMEOUT", 10*time.Second),    // Request timeout
		ClearOnFail: os.Getenv("SNEAKER_CLEAR_ON_FAIL") == "true",           // Load failure policy
	}
}

// getEnv returns the value of key or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getFloat parses key as a float, returning fallback when unset or malformed
func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

// getDuration parses key as a duration, returning fallback when unset or malformed
func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
