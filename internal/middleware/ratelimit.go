package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/transport"
)

// RateLimiter allows `limit` requests per `window` for each client IP and
// path, refilling continuously.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		every := rl.window / time.Duration(rl.limit)
		c = &client{limiter: rate.NewLimiter(rate.Every(every), rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	rl.prune(now)

	return c.limiter.AllowN(now, 1)
}

// prune forgets clients idle for more than two windows; by then their bucket is full again.
func (rl *RateLimiter) prune(now time.Time) {
	if len(rl.clients) < 1024 {
		return
	}
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) > 2*rl.window {
			delete(rl.clients, k)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := httpx.ClientIP(r) + ":" + r.URL.Path
		if !rl.Allow(key) {
			w.Header().Set("Retry-After", retryAfter(rl.window, rl.limit))
			transport.WriteError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, try again later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(window time.Duration, limit int) string {
	if limit <= 0 {
		return "1"
	}
	secs := int((window / time.Duration(limit)).Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
