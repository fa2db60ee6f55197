// ABOUTME: Standard HTTP client implementation with retry logic and per-host rate limiting
// ABOUTME: Provides polite outbound HTTP for scraping retail sites without hammering them

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"precios-api/core/interfaces"
)

const (
	maxRetries = 3

	// defaultUserAgent mimics a desktop browser; retail listing pages serve
	// degraded or empty markup to obvious bot agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// defaultHostRate caps outbound requests per host per second.
	defaultHostRate = 2.0
)

// Options configures a StandardHTTPClient.
type Options struct {
	// Timeout bounds each individual request attempt.
	Timeout time.Duration

	// UserAgent overrides the default browser user agent.
	UserAgent string

	// Headers are added to every outgoing request.
	Headers map[string]string

	// HostRequestsPerSecond limits requests per target host. Zero means the
	// default rate; a negative value disables limiting.
	HostRequestsPerSecond float64
}

// StandardHTTPClient implements the HTTPClient interface using the standard
// library, with exponential-backoff retries and a per-host rate limiter.
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
	hostRate  rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration) *StandardHTTPClient {
	return NewStandardHTTPClientWithOptions(Options{Timeout: timeout})
}

// NewStandardHTTPClientWithOptions creates a new HTTP client from Options.
func NewStandardHTTPClientWithOptions(opts Options) *StandardHTTPClient {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	hostRate := rate.Limit(opts.HostRequestsPerSecond)
	if opts.HostRequestsPerSecond == 0 {
		hostRate = rate.Limit(defaultHostRate)
	} else if opts.HostRequestsPerSecond < 0 {
		hostRate = rate.Inf
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: userAgent,
		headers:   opts.Headers,
		hostRate:  hostRate,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, rawURL string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	// Perform request with retry logic
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		// Each attempt counts against the host budget, retries included.
		if err := c.waitForHost(ctx, req.URL); err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		// Close body for retry
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp.Body.Close()
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// Post performs an HTTP POST request
func (c *StandardHTTPClient) Post(ctx context.Context, rawURL string, body io.Reader) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", rawURL, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	if err := c.waitForHost(ctx, req.URL); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

func (c *StandardHTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

// waitForHost blocks until the per-host limiter admits a request.
func (c *StandardHTTPClient) waitForHost(ctx context.Context, u *url.URL) error {
	if c.hostRate == rate.Inf {
		return nil
	}
	return c.limiterFor(u.Hostname()).Wait(ctx)
}

func (c *StandardHTTPClient) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.hostRate, 1)
		c.limiters[host] = limiter
	}
	return limiter
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
