// ABOUTME: Test mocks for source adapters
// ABOUTME: Function-field fakes for the HTTP client and its responses

package scrapers

import (
	"bytes"
	"context"
	"io"

	"precios-api/core/interfaces"
)

type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
	getURLs []string
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.getURLs = append(m.getURLs, url)
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return &mockResponse{statusCode: 200}, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return &mockResponse{statusCode: 200}, nil
}

type mockResponse struct {
	statusCode int
	body       []byte
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	return ""
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
