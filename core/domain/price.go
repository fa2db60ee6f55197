// ABOUTME: Price domain models for scraped retail data
// ABOUTME: Defines scraped result entries and per-query aggregates

package domain

import (
	"errors"
	"net/url"
	"time"
)

// DefaultCurrency is assumed when a source does not state one.
const DefaultCurrency = "CLP"

// ScrapedResult represents one product price extracted from a retail source.
type ScrapedResult struct {
	// SourceName is the retailer this price came from
	SourceName string `json:"source_name"`

	// SourceProductName is the product name as listed by the source
	SourceProductName string `json:"source_product_name"`

	// Price is the listed price, always non-negative
	Price float64 `json:"price"`

	// Currency is the ISO currency code (e.g., "CLP", "USD")
	Currency string `json:"currency"`

	// ProductURL is the direct product link, unique per source
	ProductURL string `json:"product_url"`

	// ScrapedAt is when this price was observed
	ScrapedAt time.Time `json:"scraped_at"`
}

// Validate checks the result invariants before it enters an aggregate.
func (r *ScrapedResult) Validate() error {
	if r.SourceName == "" {
		return errors.New("source name cannot be empty")
	}

	if r.SourceProductName == "" {
		return errors.New("product name cannot be empty")
	}

	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}

	if r.Currency == "" {
		return errors.New("currency cannot be empty")
	}

	parsedURL, err := url.Parse(r.ProductURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return errors.New("product URL must be absolute")
	}

	return nil
}

// AggregateResult is the ordered set of prices for one normalized query.
type AggregateResult struct {
	// Query is the normalized query these results answer
	Query string `json:"query"`

	// Results is ordered ascending by price
	Results []ScrapedResult `json:"results"`

	// FetchedAt is when the aggregate was assembled
	FetchedAt time.Time `json:"fetched_at"`
}
