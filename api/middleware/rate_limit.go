package middleware

import (
	"net/http"

	"sitepass/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles by client IP against an injected counter store, so the
// same middleware works for a single instance or a shared redis backend.
func RateLimit(store ratelimit.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := store.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
