package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/models"
)

// clientWindow holds the request times of one client inside the last window.
type clientWindow struct {
	mu       sync.Mutex
	requests []time.Time
}

// take records a request at now if the client is under limit. When it is
// not, wait is how long until the oldest request leaves the window.
func (cw *clientWindow) take(now time.Time, limit int, window time.Duration) (remaining int, wait time.Duration, ok bool) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cutoff := now.Add(-window)
	i := 0
	for i < len(cw.requests) && !cw.requests[i].After(cutoff) {
		i++
	}
	cw.requests = cw.requests[i:]

	if len(cw.requests) >= limit {
		return 0, cw.requests[0].Add(window).Sub(now), false
	}
	cw.requests = append(cw.requests, now)
	return limit - len(cw.requests), 0, true
}

func (cw *clientWindow) idleSince(cutoff time.Time) bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return len(cw.requests) == 0 || cw.requests[len(cw.requests)-1].Before(cutoff)
}

// RateLimiter is a per-client sliding window over the chat API. Each chat
// turn can reach the reasoning service twice, so it is the expensive surface.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limitPerMinute,
		window:  time.Minute,
		now:     time.Now,
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.evictIdle()
		}
	}()
	return rl
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.window)
	for key, cw := range rl.clients {
		if cw.idleSince(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) client(key string) *clientWindow {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cw, ok := rl.clients[key]
	if !ok {
		cw = &clientWindow{}
		rl.clients[key] = cw
	}
	return cw
}

// clientKey is the client host; chi's RealIP has already applied any
// forwarding headers to RemoteAddr.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware rejects requests over the limit with 429 and a Retry-After in
// whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(rl.limit)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		remaining, wait, ok := rl.client(key).take(rl.now(), rl.limit, rl.window)

		w.Header().Set("X-RateLimit-Limit", limit)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			log.Warn().
				Str("client", key).
				Str("path", r.URL.Path).
				Str("request_id", GetRequestID(r.Context())).
				Int("retry_after_s", secs).
				Msg("rate limit exceeded")
			models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit builds a limiter allowing limitPerMinute requests per client.
func RateLimit(limitPerMinute int) func(http.Handler) http.Handler {
	return NewRateLimiter(limitPerMinute).Middleware
}
