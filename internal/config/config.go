// Package config provides configuration management for the listing sync
// service. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Sync     SyncConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// ServerConfig holds the read API server configuration
type ServerConfig struct {
	Host           string
	Port           string
	FrontendOrigin string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// FeedConfig holds the upstream MLS feed configuration
type FeedConfig struct {
	Name              string
	BaseURL           string
	TokenURL          string
	ClientID          string
	ClientSecret      string
	CountTimeout      time.Duration
	PageTimeout       time.Duration
	RequestsPerSecond float64
}

// SyncConfig holds sync run configuration
type SyncConfig struct {
	JobName     string
	PageSize    int
	Schedule    string // cron expression for scheduled mode
	MaxAttempts int    // scheduler-level retries per scheduled run
}

// CacheConfig holds search-result cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "listing_sync"),
				User:           getEnv("POSTGRES_USER", "listings"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 25),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Feed: FeedConfig{
			Name:              getEnv("FEED_NAME", "trestle"),
			BaseURL:           getEnv("FEED_BASE_URL", "https://api-trestle.corelogic.com/trestle/odata/Property"),
			TokenURL:          getEnv("FEED_TOKEN_URL", ""),
			ClientID:          getEnv("FEED_CLIENT_ID", ""),
			ClientSecret:      getEnv("FEED_CLIENT_SECRET", ""),
			CountTimeout:      getEnvAsDuration("FEED_COUNT_TIMEOUT", 25*time.Second),
			PageTimeout:       getEnvAsDuration("FEED_PAGE_TIMEOUT", 45*time.Second),
			RequestsPerSecond: getEnvAsFloat("FEED_REQUESTS_PER_SECOND", 2.0),
		},
		Sync: SyncConfig{
			JobName:     getEnv("SYNC_JOB_NAME", "insert_property"),
			PageSize:    getEnvAsInt("SYNC_PAGE_SIZE", 200),
			Schedule:    getEnv("SYNC_SCHEDULE", "*/15 * * * *"),
			MaxAttempts: getEnvAsInt("SYNC_MAX_ATTEMPTS", 3),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// ValidateFeed checks that the credentials required to talk to the upstream
// feed are present. Only the sync entry point needs them.
func (c *Config) ValidateFeed() error {
	if c.Feed.TokenURL == "" {
		return fmt.Errorf("FEED_TOKEN_URL is required")
	}
	if c.Feed.ClientID == "" {
		return fmt.Errorf("FEED_CLIENT_ID is required")
	}
	if c.Feed.ClientSecret == "" {
		return fmt.Errorf("FEED_CLIENT_SECRET is required")
	}
	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("SYNC_PAGE_SIZE must be positive, got %d", c.Sync.PageSize)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
