// ABOUTME: Job status handler for the Huma API
// ABOUTME: Exposes live and archived scrape job state for polling clients

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"precios-api/core/domain"
	"precios-api/core/errors"
	"precios-api/core/interfaces"
)

// JobFinder looks up a scrape job that is still in flight.
type JobFinder interface {
	Find(jobID string) (*domain.ScrapeJob, bool)
}

// JobsHandler handles job status HTTP requests
type JobsHandler struct {
	finder  JobFinder
	archive interfaces.JobArchive
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(finder JobFinder, archive interfaces.JobArchive) *JobsHandler {
	return &JobsHandler{
		finder:  finder,
		archive: archive,
	}
}

// RegisterRoutes registers all job-related routes
func (h *JobsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getJob",
		Method:      http.MethodGet,
		Path:        "/jobs/{id}",
		Summary:     "Get a scrape job's status",
		Description: "Returns the overall and per-source state of a running or completed scrape job",
		Tags:        []string{"Jobs"},
	}, h.GetJob)
}

// GetJobInput defines the input for the GetJob operation
type GetJobInput struct {
	ID string `path:"id" doc:"Job identifier returned by a search"`
}

// GetJobOutput defines the output for the GetJob operation
type GetJobOutput struct {
	Body domain.JobSnapshot
}

// GetJob handles the GET /jobs/{id} endpoint. Jobs still in flight are read
// from the tracker; finished ones come from the archive.
func (h *JobsHandler) GetJob(ctx context.Context, input *GetJobInput) (*GetJobOutput, error) {
	if job, ok := h.finder.Find(input.ID); ok {
		return &GetJobOutput{Body: job.Snapshot()}, nil
	}

	if h.archive != nil {
		snapshot, err := h.archive.GetJob(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		if snapshot != nil {
			return &GetJobOutput{Body: *snapshot}, nil
		}
	}

	return nil, toHumaError(&errors.NotFoundError{Resource: "job", ID: input.ID})
}
