// Package core contains the business logic for the Precios API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (Query, PriceResult, ScrapeJob, etc.)
// - search: Cache-first search orchestration and job coalescing
// - scrape: Scrape coordination, result merging, and the typed result cache
// - jobs: In-flight job tracking with single-flight ownership per query
// - workers: Background worker pool that executes scrape jobs
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, storage)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "precios-api/core/interfaces"
//	    "precios-api/core/search"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	// Create service
//	searchService := search.NewSearchService(deps, resultCache, store, tracker, worker, sourceNames)
//
//	// Search for prices
//	resp, err := searchService.Search(ctx, "notebook gamer", false)
package core
