// ABOUTME: Rate limiting middleware for API endpoints
// ABOUTME: Implements fixed-window per-IP rate limiting with configurable limits

package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter counts requests per client IP over a fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	count     int
	startedAt time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per period
// for each distinct key. Expired windows are swept in the background.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*window),
		limit:   limit,
		period:  period,
	}

	go rl.sweep()

	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, w := range rl.buckets {
			if now.Sub(w.startedAt) > rl.period {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from key fits within the current window,
// counting it if so.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.buckets[key]
	if !exists || now.Sub(w.startedAt) > rl.period {
		rl.buckets[key] = &window{count: 1, startedAt: now}
		return true
	}

	if w.count < rl.limit {
		w.count++
		return true
	}

	return false
}

// extractIP derives the client key for rate limiting. Proxied requests use
// the last hop of X-Forwarded-For; direct requests fall back to RemoteAddr.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}

// RateLimitMiddleware rejects requests over the limit with 429 and exposes
// the limit and window through response headers.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
			w.Header().Set("X-RateLimit-Window", limiter.period.String())

			if !limiter.Allow(extractIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(limiter.period.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests","message":"Rate limit exceeded. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
