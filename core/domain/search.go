// ABOUTME: Search response model returned by the search orchestrator
// ABOUTME: Carries results plus cache/job metadata for the API boundary

package domain

// SearchResponse is the orchestrator's answer to one search request.
type SearchResponse struct {
	// Query is the normalized query that was searched
	Query string `json:"query"`

	// Results is the aggregate, ordered ascending by price
	Results []ScrapedResult `json:"results"`

	// FromCache indicates the results were served from the fast cache path
	FromCache bool `json:"from_cache"`

	// Stale indicates the results are a best-effort preview of old data
	// while a scrape job is pending or running
	Stale bool `json:"stale"`

	// JobID references the scrape job triggered or joined by this request
	JobID string `json:"job_id,omitempty"`

	// Message is an informational note (e.g., "search already in progress")
	Message string `json:"message,omitempty"`
}
