// ABOUTME: Scrape job domain model with lifecycle state tracking
// ABOUTME: Tracks per-source outcomes for one coalesced scrape of a query

package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the overall state of a scrape job.
type JobStatus string

const (
	JobStatusPending        JobStatus = "PENDING"
	JobStatusRunning        JobStatus = "RUNNING"
	JobStatusPartialSuccess JobStatus = "PARTIAL_SUCCESS"
	JobStatusSuccess        JobStatus = "SUCCESS"
	JobStatusFailed         JobStatus = "FAILED"
)

// SourceState represents one adapter's outcome within a job.
type SourceState string

const (
	SourceStatePending SourceState = "PENDING"
	SourceStateSuccess SourceState = "SUCCESS"
	SourceStateFailed  SourceState = "FAILED"
)

// SourceStatus is the recorded outcome for one source, with a failure reason
// when the adapter did not succeed.
type SourceStatus struct {
	State  SourceState `json:"state"`
	Reason string      `json:"reason,omitempty"`
}

// ScrapeJob tracks one in-flight scrape for a normalized query. It is mutated
// only by the coordinator that owns it; other goroutines read via Snapshot.
type ScrapeJob struct {
	mu sync.Mutex

	id          string
	query       string
	status      JobStatus
	perSource   map[string]SourceStatus
	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
}

// NewScrapeJob creates a pending job for the given normalized query, with
// every named source initialized to pending.
func NewScrapeJob(query string, sourceNames []string) *ScrapeJob {
	perSource := make(map[string]SourceStatus, len(sourceNames))
	for _, name := range sourceNames {
		perSource[name] = SourceStatus{State: SourceStatePending}
	}

	return &ScrapeJob{
		id:        uuid.New().String(),
		query:     query,
		status:    JobStatusPending,
		perSource: perSource,
		createdAt: time.Now(),
	}
}

// ID returns the job's opaque identifier.
func (j *ScrapeJob) ID() string {
	return j.id
}

// Query returns the normalized query this job scrapes.
func (j *ScrapeJob) Query() string {
	return j.query
}

// CreatedAt returns when the job was created.
func (j *ScrapeJob) CreatedAt() time.Time {
	return j.createdAt
}

// MarkRunning transitions the job from pending to running.
func (j *ScrapeJob) MarkRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status == JobStatusPending {
		j.status = JobStatusRunning
		j.startedAt = time.Now()
	}
}

// SetSourceStatus records one adapter's outcome.
func (j *ScrapeJob) SetSourceStatus(sourceName string, state SourceState, reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.perSource[sourceName] = SourceStatus{State: state, Reason: reason}
}

// Finalize resolves the overall status from per-source outcomes: success when
// every source succeeded, failed when none did, partial success otherwise.
// Sources still pending at finalize time keep their recorded state.
func (j *ScrapeJob) Finalize() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	succeeded := 0
	failed := 0
	for _, st := range j.perSource {
		switch st.State {
		case SourceStateSuccess:
			succeeded++
		case SourceStateFailed:
			failed++
		}
	}

	switch {
	case succeeded > 0 && failed == 0:
		j.status = JobStatusSuccess
	case succeeded > 0:
		j.status = JobStatusPartialSuccess
	default:
		j.status = JobStatusFailed
	}

	j.completedAt = time.Now()
	return j.status
}

// JobSnapshot is a read-only copy of a job's state.
type JobSnapshot struct {
	ID          string                  `json:"job_id"`
	Query       string                  `json:"query"`
	Status      JobStatus               `json:"status"`
	PerSource   map[string]SourceStatus `json:"per_source_status"`
	CreatedAt   time.Time               `json:"created_at"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
}

// Snapshot returns a consistent copy of the job state for readers outside the
// coordinator.
func (j *ScrapeJob) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	perSource := make(map[string]SourceStatus, len(j.perSource))
	for name, st := range j.perSource {
		perSource[name] = st
	}

	snap := JobSnapshot{
		ID:        j.id,
		Query:     j.query,
		Status:    j.status,
		PerSource: perSource,
		CreatedAt: j.createdAt,
	}

	if !j.startedAt.IsZero() {
		t := j.startedAt
		snap.StartedAt = &t
	}
	if !j.completedAt.IsZero() {
		t := j.completedAt
		snap.CompletedAt = &t
	}

	return snap
}
