// ABOUTME: Main entry point for the Precios API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"precios-api/api"
	"precios-api/api/handlers"
	"precios-api/core/interfaces"
	"precios-api/core/jobs"
	"precios-api/core/scrape"
	"precios-api/core/search"
	"precios-api/core/workers"
	"precios-api/infrastructure/cache/memory"
	"precios-api/infrastructure/cache/redis"
	stdhttp "precios-api/infrastructure/http/standard"
	logrusadapter "precios-api/infrastructure/logger/logrus"
	"precios-api/infrastructure/scrapers"
	"precios-api/infrastructure/storage/sqlite"
	"precios-api/pkg/config"
	"precios-api/pkg/featureflags"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logrusadapter.NewLogger(logrusadapter.Options{
		Level:      cfg.Log.Level,
		JSONFormat: cfg.Log.JSONFormat,
	})
	logger.Info("Starting Precios API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"sources":    strings.Join(cfg.Scrape.Sources, ","),
	})

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache()
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	default:
		cache = memory.NewMemoryCache()
		logger.Info("Using memory cache", nil)
	}

	// Create result store
	store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open result store: %v", err)
	}
	defer store.Close()

	// Create HTTP client for scraping
	httpClient := stdhttp.NewStandardHTTPClientWithOptions(stdhttp.Options{
		Timeout:               time.Duration(cfg.Scrape.AdapterTimeoutSeconds) * time.Second,
		HostRequestsPerSecond: cfg.Scrape.HostRequestsPerSecond,
	})

	// Create dependencies container
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// Create source adapters
	adapters := buildAdapters(cfg.Scrape.Sources, httpClient, logger)
	if len(adapters) == 0 {
		log.Fatalf("No known scrape sources in %v", cfg.Scrape.Sources)
	}

	// Create the scraping pipeline
	resultCache := scrape.NewResultCache(cache, cfg.Cache.TTLSeconds)
	tracker := jobs.NewTracker(time.Duration(cfg.Scrape.MaxJobAgeSeconds)*time.Second, logger)
	coordinator := scrape.NewCoordinator(adapters, store, store, resultCache, tracker, logger, scrape.Config{
		AdapterTimeout: time.Duration(cfg.Scrape.AdapterTimeoutSeconds) * time.Second,
		JobTimeout:     time.Duration(cfg.Scrape.JobTimeoutSeconds) * time.Second,
	})

	worker := workers.NewScrapeWorker(coordinator, workers.WorkerConfig{
		MaxWorkers: cfg.Scrape.MaxWorkers,
		QueueSize:  cfg.Scrape.QueueSize,
	})
	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start scrape workers: %v", err)
	}

	searchService := search.NewSearchService(deps, resultCache, store, tracker, worker, coordinator.SourceNames())

	// Feature flags from environment
	flags := featureflags.NewEnvManager("")

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:     logger,
		RateLimit:  100, // 100 requests per minute
		RateWindow: time.Minute,
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	searchHandler := handlers.NewSearchHandler(searchService, flags)
	searchHandler.RegisterRoutes(humaAPI)

	jobsHandler := handlers.NewJobsHandler(tracker, store)
	jobsHandler.RegisterRoutes(humaAPI)

	sourcesHandler := handlers.NewSourcesHandler(coordinator.SourceNames())
	sourcesHandler.RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Drain in-flight scrape jobs before closing the store.
	if err := worker.Stop(); err != nil {
		logger.Warn("Worker pool did not stop cleanly", map[string]interface{}{
			"error": err.Error(),
		})
	}
	tracker.Stop()

	logger.Info("Server stopped", nil)
}

// buildAdapters instantiates the configured source adapters. Unknown source
// names are logged and skipped.
func buildAdapters(sources []string, httpClient interfaces.HTTPClient, logger interfaces.Logger) []interfaces.SourceAdapter {
	var adapters []interfaces.SourceAdapter
	for _, source := range sources {
		switch strings.ToLower(strings.TrimSpace(source)) {
		case "mercadolibre":
			adapters = append(adapters, scrapers.NewMercadoLibre(httpClient, logger, scrapers.MercadoLibreConfig{}))
		case "falabella":
			adapters = append(adapters, scrapers.NewFalabella(logger, scrapers.FalabellaConfig{}))
		default:
			logger.Warn("Unknown scrape source skipped", map[string]interface{}{
				"source": source,
			})
		}
	}
	return adapters
}

func init() {
	// Print banner
	fmt.Println(`
    ____                 _                  ___    ____  ____
   / __ \________  _____(_)___  _____     /   |  / __ \/  _/
  / /_/ / ___/ _ \/ ___/ / __ \/ ___/    / /| | / /_/ // /
 / ____/ /  /  __/ /__/ / /_/ (__  )    / ___ |/ ____// /
/_/   /_/   \___/\___/_/\____/____/    /_/  |_/_/   /___/
	`)
}
