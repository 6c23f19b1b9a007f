package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Generous enough for local development, still tight enough that a runaway
// retry loop in a client surfaces as 429s instead of hammering the handlers.
const (
	rateLimitPerSecond = rate.Limit(50)
	rateLimitBurst     = 100
	rateLimitExpiresIn = 5 * time.Minute
)

func (s *Server) rateLimit() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rateLimitPerSecond,
		Burst:     rateLimitBurst,
		ExpiresIn: rateLimitExpiresIn,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			ip := strings.TrimSpace(c.RealIP())
			if ip == "" {
				ip = "unknown"
			}
			return ip, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return respondError(c, http.StatusForbidden, "forbidden", "")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return respondError(c, http.StatusTooManyRequests, "rate limit exceeded", "")
		},
	})
}
