package api

import (
	"net"
	"net/http"
	"sync"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"
)

// RateLimit returns a middleware that throttles requests per client
// IP. rps is the sustained request rate; burst is the bucket size.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[ip]; ok {
			return l
		}
		// Bound the table; a reset under churn just refills buckets.
		if len(limiters) > 16384 {
			limiters = make(map[string]*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters[ip] = l
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			ip, _, err := net.SplitHostPort(c.Request().RemoteAddr)
			if err != nil {
				ip = c.Request().RemoteAddr
			}
			if !limiterFor(ip).Allow() {
				return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "rate limit exceeded", "", "")
			}
			return next(c)
		}
	}
}
