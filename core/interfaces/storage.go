// ABOUTME: Storage interfaces for persisting scrape results and job history
// ABOUTME: Defines contracts for the durable result store collaborator

package interfaces

import (
	"context"

	"precios-api/core/domain"
)

// ResultStore defines the interface for durable scrape result persistence.
// Appends never destructively overwrite history; QueryLatest serves as a
// fallback when the cache is cold.
type ResultStore interface {
	// Append persists one aggregate's results as a new history generation
	Append(ctx context.Context, aggregate *domain.AggregateResult) error

	// QueryLatest returns the most recent result set for a normalized query,
	// ordered ascending by price. Returns nil without error when no history
	// exists.
	QueryLatest(ctx context.Context, query string) (*domain.AggregateResult, error)
}

// JobArchive defines the interface for recording completed scrape jobs.
type JobArchive interface {
	// ArchiveJob records a finished job's outcome
	ArchiveJob(ctx context.Context, snapshot domain.JobSnapshot) error

	// GetJob returns an archived job by ID, or nil without error when the
	// job was never archived
	GetJob(ctx context.Context, jobID string) (*domain.JobSnapshot, error)
}
