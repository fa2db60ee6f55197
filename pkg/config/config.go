// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, storage and scraping settings

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Storage contains persistence configuration
	Storage StorageConfig

	// Scrape contains scraping pipeline configuration
	Scrape ScrapeConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// TTLSeconds is how long a search aggregate stays fresh
	TTLSeconds int

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	// SQLitePath is the path to the SQLite database file
	SQLitePath string
}

// ScrapeConfig holds scraping pipeline configuration
type ScrapeConfig struct {
	// Sources lists the enabled source adapters
	Sources []string

	// AdapterTimeoutSeconds bounds a single source's fetch+extract
	AdapterTimeoutSeconds int

	// JobTimeoutSeconds bounds a whole scrape job
	JobTimeoutSeconds int

	// MaxJobAgeSeconds is when an orphaned job registration is force-released
	MaxJobAgeSeconds int

	// MaxWorkers is the number of concurrent scrape jobs
	MaxWorkers int

	// QueueSize is the scrape job queue capacity
	QueueSize int

	// HostRequestsPerSecond limits outbound requests per retail host
	HostRequestsPerSecond float64
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the minimum log level (debug/info/warn/error)
	Level string

	// JSONFormat enables JSON line output
	JSONFormat bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Cache: CacheConfig{
			Type:       getEnvOrDefault("CACHE_TYPE", "memory"),
			TTLSeconds: getEnvAsIntOrDefault("CACHE_TTL_SECONDS", 3600),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		Storage: StorageConfig{
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "precios.db"),
		},
		Scrape: ScrapeConfig{
			Sources:               getEnvAsListOrDefault("SCRAPE_SOURCES", []string{"mercadolibre", "falabella"}),
			AdapterTimeoutSeconds: getEnvAsIntOrDefault("SCRAPE_ADAPTER_TIMEOUT_SECONDS", 30),
			JobTimeoutSeconds:     getEnvAsIntOrDefault("SCRAPE_JOB_TIMEOUT_SECONDS", 45),
			MaxJobAgeSeconds:      getEnvAsIntOrDefault("SCRAPE_MAX_JOB_AGE_SECONDS", 300),
			MaxWorkers:            getEnvAsIntOrDefault("SCRAPE_MAX_WORKERS", 4),
			QueueSize:             getEnvAsIntOrDefault("SCRAPE_QUEUE_SIZE", 32),
			HostRequestsPerSecond: getEnvAsFloatOrDefault("SCRAPE_HOST_RPS", 2.0),
		},
		Log: LogConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			JSONFormat: getEnvAsBoolOrDefault("LOG_JSON", false),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault returns a comma-separated environment variable as a
// slice, or a default
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.TTLSeconds < 1 {
		return errors.New("cache TTL must be at least 1 second")
	}

	if len(c.Scrape.Sources) == 0 {
		return errors.New("at least one scrape source must be enabled")
	}

	if c.Scrape.AdapterTimeoutSeconds < 1 {
		return errors.New("adapter timeout must be at least 1 second")
	}

	if c.Scrape.JobTimeoutSeconds < c.Scrape.AdapterTimeoutSeconds {
		return errors.New("job timeout must be at least the adapter timeout")
	}

	if c.Scrape.MaxWorkers < 1 {
		return errors.New("max workers must be at least 1")
	}

	if c.Scrape.QueueSize < 1 {
		return errors.New("queue size must be at least 1")
	}

	return nil
}
