package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// rateLimiter counts requests per client over a fixed window. One
// instance per RateLimit call, so different routes can carry different
// limits without sharing counters.
type rateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	counts  map[string]int
	resetAt time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		max:     max,
		window:  window,
		counts:  make(map[string]int),
		resetAt: time.Now().Add(window),
	}
	return rl
}

// take records one request for the client and reports whether it is
// still under the limit. The whole counter map is reset when the window
// rolls over, which also keeps memory bounded.
func (rl *rateLimiter) take(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.resetAt) {
		rl.counts = make(map[string]int)
		rl.resetAt = now.Add(rl.window)
	}

	rl.counts[client]++
	return rl.counts[client] <= rl.max
}

// clientKey picks an identifier for the caller, preferring the first
// X-Forwarded-For hop when the app sits behind a proxy.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

// RateLimit caps each client at max requests per window. Applied
// globally and, through the public contact form, the first line of
// defense against spam submissions.
// Example: middleware.RateLimit(120, time.Minute)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newRateLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.take(clientKey(r)) {
				w.Header().Set("Retry-After", window.String())
				http.Error(w, `{"status":429,"message":"Too Many Requests"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
