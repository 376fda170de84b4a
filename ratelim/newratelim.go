package ratelim

import (
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// RemoteAddr keys by client address.
func RemoteAddr(r *http.Request) string {
	return r.RemoteAddr
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	forget   time.Duration
}

// NewRateLimiter allows limit events per second with the given burst.
// Buckets are dropped forget after creation.
func NewRateLimiter(limit rate.Limit, burst int, forget time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
		forget:   forget,
	}
}

// Get or create a limiter for key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[key]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[key] = limiter

	if rl.forget > 0 {
		time.AfterFunc(rl.forget, func() {
			rl.mu.Lock()
			delete(rl.visitors, key)
			rl.mu.Unlock()
		})
	}

	return limiter
}

// Allow reports whether one more event for key fits the budget.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Limit rejects requests over budget with 429.
func (rl *RateLimiter) Limit(key KeyFunc, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.Allow(key(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}
