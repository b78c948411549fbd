package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimit applies a token-bucket limit per client IP. rps is the refill
// rate, burst the bucket capacity; rps <= 0 disables the middleware.
func RateLimit(rps, burst float64) echo.MiddlewareFunc {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rps <= 0 {
			return next
		}
		return func(c echo.Context) error {
			key := c.RealIP()
			now := time.Now()

			mu.Lock()
			b, ok := buckets[key]
			if !ok {
				b = &bucket{tokens: burst, last: now}
				buckets[key] = b
			}
			elapsed := now.Sub(b.last).Seconds()
			if elapsed > 0 {
				b.tokens += elapsed * rps
				if b.tokens > burst {
					b.tokens = burst
				}
				b.last = now
			}
			allowed := b.tokens >= 1
			if allowed {
				b.tokens--
			}
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": http.StatusText(http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
