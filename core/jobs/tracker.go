// ABOUTME: Job tracker guaranteeing at most one active scrape job per query
// ABOUTME: Provides atomic acquire/release plus a stale-job watchdog

package jobs

import (
	"sync"
	"time"

	"precios-api/core/domain"
	"precios-api/core/interfaces"
)

// Tracker coalesces concurrent identical searches: for a given normalized
// query, at most one scrape job is active system-wide. Without this,
// concurrent identical searches would each trigger redundant scrapes against
// the same external sites.
type Tracker struct {
	mu     sync.Mutex
	active map[string]*domain.ScrapeJob

	maxJobAge time.Duration
	logger    interfaces.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// DefaultMaxJobAge bounds how long an entry may stay acquired before the
// watchdog force-releases it.
const DefaultMaxJobAge = 5 * time.Minute

// NewTracker creates a job tracker. A maxJobAge of 0 falls back to
// DefaultMaxJobAge.
func NewTracker(maxJobAge time.Duration, logger interfaces.Logger) *Tracker {
	if maxJobAge <= 0 {
		maxJobAge = DefaultMaxJobAge
	}

	t := &Tracker{
		active:    make(map[string]*domain.ScrapeJob),
		maxJobAge: maxJobAge,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	go t.watchdog()

	return t
}

// Acquire returns the job slot for a normalized query. Exactly one of any
// set of concurrent callers receives created = true and owns the new job;
// the rest receive the existing job as observers.
func (t *Tracker) Acquire(query string, sourceNames []string) (*domain.ScrapeJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if job, ok := t.active[query]; ok {
		return job, false
	}

	job := domain.NewScrapeJob(query, sourceNames)
	t.active[query] = job
	return job, true
}

// Release frees the slot held by job. Only the current owner is evicted: a
// stale owner releasing after the watchdog already freed its slot must not
// remove a successor job for the same query. Idempotent.
func (t *Tracker) Release(job *domain.ScrapeJob) {
	if job == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if current, ok := t.active[job.Query()]; ok && current == job {
		delete(t.active, job.Query())
	}
}

// Get returns the active job for a query, if any.
func (t *Tracker) Get(query string) (*domain.ScrapeJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.active[query]
	return job, ok
}

// Find returns the active job with the given ID, if any.
func (t *Tracker) Find(jobID string) (*domain.ScrapeJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, job := range t.active {
		if job.ID() == jobID {
			return job, true
		}
	}
	return nil, false
}

// ActiveCount returns the number of queries with an active job.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active)
}

// Stop terminates the watchdog goroutine.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// watchdog force-releases entries whose job exceeded the max age, so a crash
// mid-job never locks a query out permanently.
func (t *Tracker) watchdog() {
	ticker := time.NewTicker(t.maxJobAge / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.releaseOrphans()
		case <-t.stopCh:
			return
		}
	}
}

// releaseOrphans removes entries older than the max job age.
func (t *Tracker) releaseOrphans() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for query, job := range t.active {
		if now.Sub(job.CreatedAt()) > t.maxJobAge {
			delete(t.active, query)
			if t.logger != nil {
				t.logger.Warn("Force-released orphaned scrape job", map[string]interface{}{
					"query":  query,
					"job_id": job.ID(),
					"age":    now.Sub(job.CreatedAt()).String(),
				})
			}
		}
	}
}
