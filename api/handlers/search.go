// ABOUTME: Search handler for the Huma API
// ABOUTME: Serves cached price comparisons and triggers background scrape jobs

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"precios-api/core/domain"
	"precios-api/pkg/featureflags"
)

// SearchService interface defines the methods needed from the search service
type SearchService interface {
	Search(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error)
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	service SearchService
	flags   featureflags.Manager
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService, flags featureflags.Manager) *SearchHandler {
	return &SearchHandler{
		service: service,
		flags:   flags,
	}
}

// RegisterRoutes registers all search-related routes
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchPrices",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search product prices across retail sites",
		Description: "Returns cached price comparisons immediately, or starts a background scrape and acknowledges with a job id",
		Tags:        []string{"Search"},
	}, h.Search)
}

// SearchInput defines the input for the Search operation
type SearchInput struct {
	Query   string `query:"q" required:"true" example:"notebook gamer" doc:"Product search term"`
	Refresh bool   `query:"refresh" doc:"Bypass the cache and force a fresh scrape"`
}

// SearchOutput defines the output for the Search operation
type SearchOutput struct {
	Body domain.SearchResponse
}

// Search handles the GET /search endpoint
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	forceRefresh := input.Refresh
	if forceRefresh && h.flags != nil && !h.flags.IsEnabled(ctx, featureflags.ForceRefreshEnabled) {
		forceRefresh = false
	}

	response, err := h.service.Search(ctx, input.Query, forceRefresh)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: *response}, nil
}
