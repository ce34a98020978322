package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spesasmart/pricing/internal/domain/dto"
)

// DefaultRequestsPerMinute is used when no positive limit is configured.
const DefaultRequestsPerMinute = 60

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// rateLimiter is a fixed-window, in-memory limiter keyed by client IP.
// It is per process; multi-instance deployments need a shared store.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = DefaultRequestsPerMinute
	}
	return &rateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// allow records a request from key and reports whether it is within the
// limit, plus how long until the window resets.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok || now.Sub(cl.windowStart) >= rl.window {
		rl.clients[key] = &client{windowStart: now, count: 1}
		// Drop idle clients while we hold the lock anyway.
		if len(rl.clients) > 1024 {
			rl.evict(now)
		}
		return true, rl.window
	}
	cl.count++
	return cl.count <= rl.limit, rl.window - now.Sub(cl.windowStart)
}

func (rl *rateLimiter) evict(now time.Time) {
	for k, cl := range rl.clients {
		if now.Sub(cl.windowStart) >= rl.window {
			delete(rl.clients, k)
		}
	}
}

// RateLimiter limits the number of requests per client IP per minute.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 42
//	{"message": "rate limit exceeded", "timestamp": "..."}
func RateLimiter(perMinute int) gin.HandlerFunc {
	return rateLimit(newRateLimiter(perMinute, time.Minute))
}

func rateLimit(rl *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(reset.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
