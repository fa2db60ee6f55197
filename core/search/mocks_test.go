// ABOUTME: Test mocks for the search orchestrator
// ABOUTME: Function-field fakes for cache, result store and job submission

package search

import (
	"context"
	"errors"
	"time"

	"precios-api/core/domain"
)

var errCacheMiss = errors.New("cache miss")

// mockCache implements interfaces.Cache backed by a plain map.
type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return value, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// mockResultStore implements interfaces.ResultStore.
type mockResultStore struct {
	appendFunc      func(ctx context.Context, aggregate *domain.AggregateResult) error
	queryLatestFunc func(ctx context.Context, query string) (*domain.AggregateResult, error)
	queryCalls      int
}

func (m *mockResultStore) Append(ctx context.Context, aggregate *domain.AggregateResult) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, aggregate)
	}
	return nil
}

func (m *mockResultStore) QueryLatest(ctx context.Context, query string) (*domain.AggregateResult, error) {
	m.queryCalls++
	if m.queryLatestFunc != nil {
		return m.queryLatestFunc(ctx, query)
	}
	return nil, nil
}

// mockSubmitter implements JobSubmitter.
type mockSubmitter struct {
	submitFunc func(job *domain.ScrapeJob) error
	submitted  []*domain.ScrapeJob
}

func (m *mockSubmitter) Submit(job *domain.ScrapeJob) error {
	m.submitted = append(m.submitted, job)
	if m.submitFunc != nil {
		return m.submitFunc(job)
	}
	return nil
}

// mockLogger implements interfaces.Logger and discards everything.
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
