// ABOUTME: Sources handler for the Huma API
// ABOUTME: Lists the retail sites the scraping pipeline is configured to query

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// SourcesHandler handles source listing HTTP requests
type SourcesHandler struct {
	sourceNames []string
}

// NewSourcesHandler creates a new sources handler
func NewSourcesHandler(sourceNames []string) *SourcesHandler {
	return &SourcesHandler{sourceNames: sourceNames}
}

// RegisterRoutes registers all source-related routes
func (h *SourcesHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSources",
		Method:      http.MethodGet,
		Path:        "/sources",
		Summary:     "List configured price sources",
		Tags:        []string{"Sources"},
	}, h.ListSources)
}

// ListSourcesOutput defines the output for the ListSources operation
type ListSourcesOutput struct {
	Body struct {
		Sources []string `json:"sources" doc:"Names of the enabled source adapters"`
	}
}

// ListSources handles the GET /sources endpoint
func (h *SourcesHandler) ListSources(ctx context.Context, input *struct{}) (*ListSourcesOutput, error) {
	output := &ListSourcesOutput{}
	output.Body.Sources = append([]string{}, h.sourceNames...)
	return output, nil
}
