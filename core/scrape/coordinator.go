// ABOUTME: Scrape coordinator fanning a job out to all source adapters
// ABOUTME: Merges partial results, persists them, refreshes cache, releases the job slot

package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"precios-api/core/domain"
	coreerrors "precios-api/core/errors"
	"precios-api/core/interfaces"
	"precios-api/core/jobs"
)

const (
	// DefaultAdapterTimeout bounds one adapter's fetch+extract
	DefaultAdapterTimeout = 30 * time.Second

	// DefaultJobTimeout bounds the whole job; adapters still running when it
	// expires are finalized as failed with a timeout reason
	DefaultJobTimeout = 45 * time.Second

	// persistTimeout bounds the store/cache writes after fan-out
	persistTimeout = 10 * time.Second

	// timeoutReason is recorded for sources cancelled by a deadline
	timeoutReason = "timeout"
)

// Config holds coordinator timeouts.
type Config struct {
	AdapterTimeout time.Duration
	JobTimeout     time.Duration
}

// Coordinator runs scrape jobs it exclusively owns: it invokes every
// registered adapter concurrently under independent error boundaries, merges
// what succeeded, writes the result store and cache, and always releases the
// tracker slot.
type Coordinator struct {
	adapters []interfaces.SourceAdapter
	store    interfaces.ResultStore
	archive  interfaces.JobArchive
	cache    *ResultCache
	tracker  *jobs.Tracker
	logger   interfaces.Logger

	adapterTimeout time.Duration
	jobTimeout     time.Duration
}

// NewCoordinator creates a coordinator over the registered adapters. The
// archive may be nil when job history is not persisted.
func NewCoordinator(
	adapters []interfaces.SourceAdapter,
	store interfaces.ResultStore,
	archive interfaces.JobArchive,
	cache *ResultCache,
	tracker *jobs.Tracker,
	logger interfaces.Logger,
	cfg Config,
) *Coordinator {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultAdapterTimeout
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}

	return &Coordinator{
		adapters:       adapters,
		store:          store,
		archive:        archive,
		cache:          cache,
		tracker:        tracker,
		logger:         logger,
		adapterTimeout: cfg.AdapterTimeout,
		jobTimeout:     cfg.JobTimeout,
	}
}

// SourceNames returns the names of all registered adapters.
func (c *Coordinator) SourceNames() []string {
	names := make([]string, 0, len(c.adapters))
	for _, adapter := range c.adapters {
		names = append(names, adapter.Name())
	}
	return names
}

// adapterOutcome is one adapter's contribution to a job.
type adapterOutcome struct {
	sourceName string
	results    []domain.ScrapedResult
	err        error
}

// Run executes a job to completion. The caller must own the job's tracker
// slot; Run releases it on every path, including panics inside adapters.
func (c *Coordinator) Run(job *domain.ScrapeJob) {
	defer c.tracker.Release(job)

	job.MarkRunning()

	ctx, cancel := context.WithTimeout(context.Background(), c.jobTimeout)
	defer cancel()

	batches := c.fanOut(ctx, job)

	status := job.Finalize()

	c.log("info", "Scrape job finished", map[string]interface{}{
		"job_id": job.ID(),
		"query":  job.Query(),
		"status": string(status),
	})

	if status == domain.JobStatusFailed {
		// All sources failed: leave any stale cache entry in place rather
		// than replacing it with an empty set.
		jobErr := &coreerrors.AllSourcesFailedError{Query: job.Query(), Sources: len(c.adapters)}
		c.log("error", "Scrape job produced no results", map[string]interface{}{
			"job_id": job.ID(),
			"error":  jobErr.Error(),
		})
		c.archiveJob(job)
		return
	}

	aggregate := Merge(job.Query(), batches...)

	pctx, pcancel := context.WithTimeout(context.Background(), persistTimeout)
	defer pcancel()

	if c.store != nil {
		if err := c.store.Append(pctx, aggregate); err != nil {
			c.log("error", "Failed to persist aggregate", map[string]interface{}{
				"job_id": job.ID(),
				"query":  job.Query(),
				"error":  err.Error(),
			})
		}
	}

	if c.cache != nil {
		if err := c.cache.Put(pctx, job.Query(), aggregate); err != nil {
			c.log("error", "Failed to refresh cache", map[string]interface{}{
				"query": job.Query(),
				"error": err.Error(),
			})
		}
	}

	c.archiveJob(job)
}

// fanOut invokes every adapter concurrently and collects successful batches.
// When the job deadline expires, sources still running are marked failed with
// a timeout reason and collection stops; their goroutines unwind on their own
// cancelled contexts.
func (c *Coordinator) fanOut(ctx context.Context, job *domain.ScrapeJob) [][]domain.ScrapedResult {
	outcomes := make(chan adapterOutcome, len(c.adapters))

	for _, adapter := range c.adapters {
		go func(a interfaces.SourceAdapter) {
			results, err := c.runAdapter(ctx, a, job.Query())
			outcomes <- adapterOutcome{sourceName: a.Name(), results: results, err: err}
		}(adapter)
	}

	batches := make([][]domain.ScrapedResult, 0, len(c.adapters))
	reported := make(map[string]bool, len(c.adapters))

	for i := 0; i < len(c.adapters); i++ {
		select {
		case outcome := <-outcomes:
			reported[outcome.sourceName] = true
			if outcome.err != nil {
				job.SetSourceStatus(outcome.sourceName, domain.SourceStateFailed, failureReason(outcome.err))
				c.log("warn", "Source adapter failed", map[string]interface{}{
					"job_id": job.ID(),
					"source": outcome.sourceName,
					"error":  outcome.err.Error(),
				})
				continue
			}
			job.SetSourceStatus(outcome.sourceName, domain.SourceStateSuccess, "")
			batches = append(batches, outcome.results)

		case <-ctx.Done():
			// Best-effort partial aggregate: finalize with what completed.
			for _, adapter := range c.adapters {
				if !reported[adapter.Name()] {
					job.SetSourceStatus(adapter.Name(), domain.SourceStateFailed, timeoutReason)
				}
			}
			return batches
		}
	}

	return batches
}

// runAdapter composes one adapter's capabilities under its own timeout and
// panic boundary. Invalid extracted entries are dropped, not fatal.
func (c *Coordinator) runAdapter(ctx context.Context, adapter interfaces.SourceAdapter, query string) (results []domain.ScrapedResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("adapter panic: %v", r)
		}
	}()

	actx, cancel := context.WithTimeout(ctx, c.adapterTimeout)
	defer cancel()

	target, err := adapter.BuildQueryTarget(query)
	if err != nil {
		return nil, coreerrors.WrapError(err, "build query target")
	}

	page, err := adapter.Fetch(actx, target)
	if err != nil {
		return nil, err
	}

	extracted, err := adapter.Extract(page, query)
	if err != nil {
		return nil, err
	}

	valid := make([]domain.ScrapedResult, 0, len(extracted))
	for _, result := range extracted {
		if verr := result.Validate(); verr != nil {
			c.log("warn", "Dropping invalid scraped result", map[string]interface{}{
				"source": adapter.Name(),
				"error":  verr.Error(),
			})
			continue
		}
		valid = append(valid, result)
	}

	return valid, nil
}

// failureReason normalizes an adapter error into a per-source status reason.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutReason
	}
	return err.Error()
}

// archiveJob records a completed job's outcome, if an archive is configured.
func (c *Coordinator) archiveJob(job *domain.ScrapeJob) {
	if c.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := c.archive.ArchiveJob(ctx, job.Snapshot()); err != nil {
		c.log("error", "Failed to archive job", map[string]interface{}{
			"job_id": job.ID(),
			"error":  err.Error(),
		})
	}
}

// log forwards to the configured logger when present.
func (c *Coordinator) log(level, msg string, fields map[string]interface{}) {
	if c.logger == nil {
		return
	}

	switch level {
	case "warn":
		c.logger.Warn(msg, fields)
	case "error":
		c.logger.Error(msg, fields)
	default:
		c.logger.Info(msg, fields)
	}
}
