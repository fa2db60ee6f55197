// ABOUTME: Source adapter capability contract for retailer scrapers
// ABOUTME: New retailers are added by implementing this interface, nothing else

package interfaces

import (
	"context"

	"precios-api/core/domain"
)

// QueryTarget describes the request an adapter wants issued for a query.
type QueryTarget struct {
	// URL is the fully built search URL for the source
	URL string

	// Headers are extra request headers the source requires, if any
	Headers map[string]string
}

// SourceAdapter encapsulates one retailer's query-URL construction, page
// fetch, and result extraction. Implementations must be stateless across
// invocations: concurrent calls for different queries share no mutable state.
//
// The coordinator composes the three capabilities and owns all error
// handling; adapters report failures, they never abort siblings.
type SourceAdapter interface {
	// Name returns the source's stable identifier (e.g., "mercadolibre")
	Name() string

	// BuildQueryTarget constructs the search request for a normalized query
	BuildQueryTarget(normalizedQuery string) (*QueryTarget, error)

	// Fetch retrieves the raw results page. Failures are reported as
	// *errors.FetchError.
	Fetch(ctx context.Context, target *QueryTarget) ([]byte, error)

	// Extract parses product results out of a fetched page. A structural
	// mismatch is reported as *errors.ParseError; partially extractable
	// pages return the results that were found rather than failing.
	Extract(page []byte, normalizedQuery string) ([]domain.ScrapedResult, error)
}
