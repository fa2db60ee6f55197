// ABOUTME: Tests for the search handler
// ABOUTME: Covers cache hits, job acknowledgements, flag gating and error mapping

package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"

	"precios-api/core/domain"
	"precios-api/core/errors"
	"precios-api/pkg/featureflags"
)

// mockSearchService is a mock implementation of the search service
type mockSearchService struct {
	searchFunc func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error)
}

func (m *mockSearchService) Search(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, forceRefresh)
	}
	return &domain.SearchResponse{Query: query}, nil
}

func TestSearchHandler_RegisterRoutes(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{}, nil)

	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	openapi := api.OpenAPI()
	if openapi.Paths == nil || openapi.Paths["/search"] == nil {
		t.Fatal("GET /search endpoint not registered")
	}
	if openapi.Paths["/search"].Get == nil {
		t.Error("GET method not registered for /search")
	}
}

func TestSearchHandler_CacheHit(t *testing.T) {
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
			if query != "notebook gamer" {
				t.Errorf("query = %q", query)
			}
			return &domain.SearchResponse{
				Query:     "notebook gamer",
				FromCache: true,
				Results: []domain.ScrapedResult{
					{SourceName: "MercadoLibre", SourceProductName: "Notebook", Price: 549990, Currency: "CLP"},
				},
			}, nil
		},
	}

	handler := NewSearchHandler(mockService, nil)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	resp := api.Get("/search?q=notebook+gamer")
	if resp.Code != 200 {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	var body domain.SearchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.FromCache {
		t.Error("from_cache not set in response")
	}
	if len(body.Results) != 1 {
		t.Errorf("results = %d, want 1", len(body.Results))
	}
}

func TestSearchHandler_Acknowledgement(t *testing.T) {
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
			return &domain.SearchResponse{
				Query:   query,
				JobID:   "job-123",
				Message: "search started in background; poll the job for fresh results",
			}, nil
		},
	}

	handler := NewSearchHandler(mockService, nil)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	resp := api.Get("/search?q=notebook")
	if resp.Code != 200 {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	var body domain.SearchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.JobID != "job-123" {
		t.Errorf("job_id = %q", body.JobID)
	}
}

func TestSearchHandler_InvalidQueryReturns400(t *testing.T) {
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
			return nil, &errors.InvalidQueryError{Query: query, Message: "query must be at least 3 characters"}
		},
	}

	handler := NewSearchHandler(mockService, nil)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	resp := api.Get("/search?q=ab")
	if resp.Code != 400 {
		t.Errorf("status = %d, want 400", resp.Code)
	}
}

func TestSearchHandler_MissingQueryRejected(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{}, nil)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	resp := api.Get("/search")
	if resp.Code != 422 {
		t.Errorf("status = %d, want 422 for a missing required parameter", resp.Code)
	}
}

func TestSearchHandler_RefreshRequiresFlag(t *testing.T) {
	var gotForceRefresh bool
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
			gotForceRefresh = forceRefresh
			return &domain.SearchResponse{Query: query}, nil
		},
	}

	flags := featureflags.NewStaticManager(nil)
	handler := NewSearchHandler(mockService, flags)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	api.Get("/search?q=notebook&refresh=true")
	if gotForceRefresh {
		t.Error("refresh honored with the flag disabled")
	}

	flags.SetEnabled(featureflags.ForceRefreshEnabled, true)
	api.Get("/search?q=notebook&refresh=true")
	if !gotForceRefresh {
		t.Error("refresh ignored with the flag enabled")
	}
}

func TestSearchHandler_NilFlagsHonorsRefresh(t *testing.T) {
	var gotForceRefresh bool
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, forceRefresh bool) (*domain.SearchResponse, error) {
			gotForceRefresh = forceRefresh
			return &domain.SearchResponse{Query: query}, nil
		},
	}

	handler := NewSearchHandler(mockService, nil)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	api.Get("/search?q=notebook&refresh=true")
	if !gotForceRefresh {
		t.Error("refresh must pass through when no flag manager is configured")
	}
}
