package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "Natalis/pkg/logger"
)

// RequestLogging logs one line per request.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			l.Info("http request",
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency_ms", time.Since(start)),
				applogger.String("remote_ip", c.RealIP()),
				applogger.String("request_id", RequestIDFrom(c)),
			)
			return nil
		}
	}
}
