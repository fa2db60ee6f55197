// ABOUTME: Merge policy combining per-source result batches into one aggregate
// ABOUTME: Deduplicates by (source, productURL) and orders deterministically

package scrape

import (
	"sort"
	"time"

	"precios-api/core/domain"
)

// dedupeKey identifies a result within an aggregate.
type dedupeKey struct {
	source     string
	productURL string
}

// Merge combines successful adapters' result batches into one aggregate.
// Duplicate (source, productURL) entries keep the most recently scraped one.
// Output is ordered ascending by price, ties broken by source name then
// product URL, so the merge is deterministic regardless of completion order.
func Merge(query string, batches ...[]domain.ScrapedResult) *domain.AggregateResult {
	latest := make(map[dedupeKey]domain.ScrapedResult)

	for _, batch := range batches {
		for _, result := range batch {
			key := dedupeKey{source: result.SourceName, productURL: result.ProductURL}
			if existing, ok := latest[key]; !ok || result.ScrapedAt.After(existing.ScrapedAt) {
				latest[key] = result
			}
		}
	}

	merged := make([]domain.ScrapedResult, 0, len(latest))
	for _, result := range latest {
		merged = append(merged, result)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Price != merged[j].Price {
			return merged[i].Price < merged[j].Price
		}
		if merged[i].SourceName != merged[j].SourceName {
			return merged[i].SourceName < merged[j].SourceName
		}
		return merged[i].ProductURL < merged[j].ProductURL
	})

	return &domain.AggregateResult{
		Query:     query,
		Results:   merged,
		FetchedAt: time.Now(),
	}
}
