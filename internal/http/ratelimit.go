package http

import (
	"net/http"
	"sync"
	"time"
)

// limiter is a fixed-window per-client rate limiter.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo

	requestsPerMinute int
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

func newLimiter(requestsPerMinute int) *limiter {
	return &limiter{
		clients:           make(map[string]*clientInfo),
		requestsPerMinute: requestsPerMinute,
	}
}

// allow checks if a request from the given client should be allowed.
func (rl *limiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	info, exists := rl.clients[client]
	if !exists || now.Sub(info.windowStart) > time.Minute {
		rl.clients[client] = &clientInfo{windowStart: now, requests: 1}
		return true
	}

	info.requests++
	return info.requests <= rl.requestsPerMinute
}

// cleanup drops clients whose windows expired. Called periodically by
// the server's housekeeping goroutine.
func (rl *limiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-time.Minute)
	for client, info := range rl.clients {
		if info.windowStart.Before(cutoff) {
			delete(rl.clients, client)
		}
	}
}

func rateLimitMiddleware(rl *limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
