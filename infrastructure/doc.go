// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, persistence, scraping, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache implementation backed by go-cache
// - cache/redis: RedisJSON-based cache implementation
// - http/standard: Standard library HTTP client with retries and per-host rate limiting
// - logger/logrus: Structured logger implementation backed by logrus
// - scrapers: Source adapters for the supported retail sites
// - storage/sqlite: SQLite-backed result history and job archive
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include retries, timeouts, and error handling
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte(`{"v":1}`), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cfg := config.RedisConfig{
//	    Address:  "localhost:6379",
//	    Password: "",
//	    DB:       0,
//	}
//	cache, err := redis.NewRedisCache(cfg)
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures and
// a per-host outbound rate limiter so scrapers stay polite:
//
//	client := standard.NewStandardHTTPClientWithOptions(standard.Options{
//	    Timeout:               30 * time.Second,
//	    HostRequestsPerSecond: 2,
//	})
//	resp, err := client.Get(ctx, "https://example.com")
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger(logrus.Options{Level: "info"})
//	logger.Info("Processing request", map[string]interface{}{
//	    "query":  "notebook gamer",
//	    "source": "MercadoLibre",
//	})
package infrastructure
