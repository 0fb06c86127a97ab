// Package config provides configuration management for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	RefreshInterval time.Duration
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for booking records (0 means no expiration)
	BookingTTL time.Duration
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds the connection string for lib/pq
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// DirectoryConfig holds the employee directory collaborator configuration
type DirectoryConfig struct {
	BaseURL  string
	APIToken string
}

// Enabled reports whether directory lookups are configured
func (c DirectoryConfig) Enabled() bool {
	return c.BaseURL != ""
}

// StorageConfig groups the persistence backends for the repository factory
type StorageConfig struct {
	Redis    RedisConfig
	Postgres PostgresConfig
}

// GetServerConfig loads HTTP server configuration from environment variables
func GetServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	idleTimeout, _ := strconv.Atoi(getEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))
	refresh, _ := strconv.Atoi(getEnv("REFRESH_INTERVAL_SECONDS", "30"))

	return ServerConfig{
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     time.Duration(readTimeout) * time.Second,
		IdleTimeout:     time.Duration(idleTimeout) * time.Second,
		RefreshInterval: time.Duration(refresh) * time.Second,
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_BOOKING_TTL_HOURS", "720")) // Default 30 days
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:    getEnvBool("REDIS_ENABLED", false),
		URI:        getEnv("REDIS_URI", ""),
		Host:       getEnv("REDIS_HOST", "localhost"),
		Port:       getEnv("REDIS_PORT", "6379"),
		Username:   getEnv("REDIS_USERNAME", ""),
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         db,
		KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "turfbook:"),
		BookingTTL: ttl,
	}
}

// GetPostgresConfig loads PostgreSQL configuration from environment variables
func GetPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Enabled:  getEnvBool("POSTGRES_ENABLED", false),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		User:     getEnv("POSTGRES_USER", "turfbook"),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Database: getEnv("POSTGRES_DB", "turfbook"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// GetDirectoryConfig loads employee directory configuration from environment variables
func GetDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		BaseURL:  getEnv("DIRECTORY_BASE_URL", ""),
		APIToken: getEnv("DIRECTORY_API_TOKEN", ""),
	}
}

// GetStorageConfig loads the combined persistence configuration
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Redis:    GetRedisConfig(),
		Postgres: GetPostgresConfig(),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
