package scrape

import (
	"context"
	"time"

	"precios-api/core/domain"
	"precios-api/core/interfaces"
)

// mockAdapter is a mock implementation of the SourceAdapter interface
type mockAdapter struct {
	name            string
	buildTargetFunc func(query string) (*interfaces.QueryTarget, error)
	fetchFunc       func(ctx context.Context, target *interfaces.QueryTarget) ([]byte, error)
	extractFunc     func(page []byte, query string) ([]domain.ScrapedResult, error)
}

func (m *mockAdapter) Name() string {
	return m.name
}

func (m *mockAdapter) BuildQueryTarget(query string) (*interfaces.QueryTarget, error) {
	if m.buildTargetFunc != nil {
		return m.buildTargetFunc(query)
	}
	return &interfaces.QueryTarget{URL: "https://example.com/search?q=" + query}, nil
}

func (m *mockAdapter) Fetch(ctx context.Context, target *interfaces.QueryTarget) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, target)
	}
	return []byte("<html></html>"), nil
}

func (m *mockAdapter) Extract(page []byte, query string) ([]domain.ScrapedResult, error) {
	if m.extractFunc != nil {
		return m.extractFunc(page, query)
	}
	return nil, nil
}

// mockCache is a mock implementation of the Cache interface
type mockCache struct {
	getFunc    func(ctx context.Context, key string) ([]byte, error)
	setFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFunc func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return nil
}

// mockResultStore is a mock implementation of the ResultStore interface
type mockResultStore struct {
	appendFunc      func(ctx context.Context, aggregate *domain.AggregateResult) error
	queryLatestFunc func(ctx context.Context, query string) (*domain.AggregateResult, error)
}

func (m *mockResultStore) Append(ctx context.Context, aggregate *domain.AggregateResult) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, aggregate)
	}
	return nil
}

func (m *mockResultStore) QueryLatest(ctx context.Context, query string) (*domain.AggregateResult, error) {
	if m.queryLatestFunc != nil {
		return m.queryLatestFunc(ctx, query)
	}
	return nil, nil
}

// mockJobArchive is a mock implementation of the JobArchive interface
type mockJobArchive struct {
	archiveFunc func(ctx context.Context, snapshot domain.JobSnapshot) error
}

func (m *mockJobArchive) ArchiveJob(ctx context.Context, snapshot domain.JobSnapshot) error {
	if m.archiveFunc != nil {
		return m.archiveFunc(ctx, snapshot)
	}
	return nil
}

func (m *mockJobArchive) GetJob(ctx context.Context, jobID string) (*domain.JobSnapshot, error) {
	return nil, nil
}
