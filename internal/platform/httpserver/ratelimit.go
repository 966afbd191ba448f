package httpserver

import (
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimit configures the per-client request budget for API routes.
// Zero values disable throttling.
type RateLimit struct {
	PerMinute int
	Burst     int
}

func (r RateLimit) enabled() bool {
	return r.PerMinute > 0 && r.Burst > 0
}

// rateLimiters keeps one token bucket per client IP. Entries expire after a
// quiet period so the set does not grow with abandoned clients.
type rateLimiters struct {
	cache *gocache.Cache
	mu    sync.Mutex
	limit RateLimit
}

func newRateLimiters(limit RateLimit) *rateLimiters {
	return &rateLimiters{
		cache: gocache.New(10*time.Minute, 5*time.Minute),
		limit: limit,
	}
}

func (rl *rateLimiters) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.cache.Get(key); ok {
		rl.cache.SetDefault(key, limiter)
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rl.limit.PerMinute)/60.0), rl.limit.Burst)
	rl.cache.SetDefault(key, limiter)
	return limiter
}

// limited wraps an API handler with the per-IP limiter. Health and swagger
// routes stay unthrottled.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	if s.limiters == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiters.get(resolveClientIP(r)).Allow() {
			writeVerificationError(w, http.StatusTooManyRequests, "rate_limited", "request rate limit exceeded")
			return
		}
		next(w, r)
	}
}
