package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SelectiveTimeoutConfig applies the default timeout to most endpoints and
// a longer one to the search path, whose upstream call legitimately runs
// for up to a minute.
func SelectiveTimeoutConfig(defaultTimeout, searchTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timeout := defaultTimeout
			if strings.HasPrefix(c.Path(), "/api/v1/search") {
				timeout = searchTimeout
			}
			return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
				Timeout: timeout,
			})(next)(c)
		}
	}
}
