// ABOUTME: Aggregate-level result cache keyed by normalized query
// ABOUTME: Layers typed get/put/invalidate over the byte-oriented cache backend

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"precios-api/core/domain"
	"precios-api/core/interfaces"
)

// cacheKeyPrefix namespaces search aggregates in the shared cache backend.
const cacheKeyPrefix = "search"

// ResultCache maps a normalized query to its last-known aggregate with a TTL.
// Entries are written only by the coordinator on job completion and read by
// the search orchestrator's fast path.
type ResultCache struct {
	cache interfaces.Cache
	ttl   time.Duration
}

// NewResultCache creates a result cache over the given backend with the
// configured TTL in seconds.
func NewResultCache(cache interfaces.Cache, ttlSeconds int) *ResultCache {
	return &ResultCache{
		cache: cache,
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

// TTL returns the configured entry lifetime.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached aggregate for a query, or nil on a miss. Backend
// errors and undecodable entries are treated as misses.
func (c *ResultCache) Get(ctx context.Context, query string) *domain.AggregateResult {
	if c.cache == nil {
		return nil
	}

	data, err := c.cache.Get(ctx, cacheKey(query))
	if err != nil || data == nil {
		return nil
	}

	var aggregate domain.AggregateResult
	if err := json.Unmarshal(data, &aggregate); err != nil {
		return nil
	}

	return &aggregate
}

// Put stores an aggregate for a query with a fresh expiry.
func (c *ResultCache) Put(ctx context.Context, query string, aggregate *domain.AggregateResult) error {
	if c.cache == nil {
		return nil
	}

	data, err := json.Marshal(aggregate)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, cacheKey(query), data, c.ttl)
}

// Invalidate removes a query's cached aggregate.
func (c *ResultCache) Invalidate(ctx context.Context, query string) error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Delete(ctx, cacheKey(query))
}

// cacheKey builds the backend key for a normalized query.
func cacheKey(query string) string {
	return fmt.Sprintf("%s:%s", cacheKeyPrefix, query)
}
