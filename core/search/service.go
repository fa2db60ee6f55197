// ABOUTME: Search orchestrator deciding between cache hits and scrape jobs
// ABOUTME: Coalesces concurrent identical searches and never blocks on network I/O

package search

import (
	"context"

	"precios-api/core/domain"
	"precios-api/core/errors"
	"precios-api/core/interfaces"
	"precios-api/core/jobs"
	"precios-api/core/scrape"
)

// Informational messages surfaced alongside acknowledgements.
const (
	msgScrapeStarted    = "search started in background; poll the job for fresh results"
	msgScrapeInProgress = "search already in progress"
)

// JobSubmitter hands a scrape job to background execution.
type JobSubmitter interface {
	Submit(job *domain.ScrapeJob) error
}

// SearchService is the entry point for price searches. It serves non-expired
// cached aggregates immediately and otherwise acknowledges with a job id,
// coalescing concurrent identical requests into a single scrape.
type SearchService struct {
	deps        interfaces.Dependencies
	cache       *scrape.ResultCache
	store       interfaces.ResultStore
	tracker     *jobs.Tracker
	submitter   JobSubmitter
	sourceNames []string
}

// NewSearchService creates a new search service instance
func NewSearchService(
	deps interfaces.Dependencies,
	cache *scrape.ResultCache,
	store interfaces.ResultStore,
	tracker *jobs.Tracker,
	submitter JobSubmitter,
	sourceNames []string,
) *SearchService {
	return &SearchService{
		deps:        deps,
		cache:       cache,
		store:       store,
		tracker:     tracker,
		submitter:   submitter,
		sourceNames: sourceNames,
	}
}

// Search answers a price query. With forceRefresh false a non-expired cache
// entry is returned directly; on a miss (or forced refresh) at most one
// scrape job is triggered per normalized query and the caller gets an
// acknowledgement with any stale results available as a preview.
func (s *SearchService) Search(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
	normalized, err := domain.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	if !forceRefresh {
		if aggregate := s.cache.Get(ctx, normalized); aggregate != nil {
			return &domain.SearchResponse{
				Query:     normalized,
				Results:   aggregate.Results,
				FromCache: true,
			}, nil
		}
	}

	// Best-effort preview of old data while the scrape runs, always labeled
	// stale so it is never mistaken for fresh results.
	preview := s.stalePreview(ctx, normalized)

	job, created := s.tracker.Acquire(normalized, s.sourceNames)
	if !created {
		return &domain.SearchResponse{
			Query:   normalized,
			Results: preview,
			Stale:   len(preview) > 0,
			JobID:   job.ID(),
			Message: msgScrapeInProgress,
		}, nil
	}

	if err := s.submitter.Submit(job); err != nil {
		s.tracker.Release(job)
		if s.deps.Logger != nil {
			s.deps.Logger.Error("Failed to submit scrape job", map[string]interface{}{
				"query":  normalized,
				"job_id": job.ID(),
				"error":  err.Error(),
			})
		}
		return nil, errors.WrapError(err, "submit scrape job")
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("Scrape job created", map[string]interface{}{
			"query":         normalized,
			"job_id":        job.ID(),
			"force_refresh": forceRefresh,
		})
	}

	return &domain.SearchResponse{
		Query:   normalized,
		Results: preview,
		Stale:   len(preview) > 0,
		JobID:   job.ID(),
		Message: msgScrapeStarted,
	}, nil
}

// stalePreview returns the last-known results for a query: the (possibly
// expired-for-the-fast-path) cache entry if one survives, else the latest
// generation in the result store. Empty when the query has never been scraped.
func (s *SearchService) stalePreview(ctx context.Context, normalized string) []domain.ScrapedResult {
	if aggregate := s.cache.Get(ctx, normalized); aggregate != nil {
		return aggregate.Results
	}

	if s.store == nil {
		return nil
	}

	aggregate, err := s.store.QueryLatest(ctx, normalized)
	if err != nil || aggregate == nil {
		return nil
	}

	return aggregate.Results
}
