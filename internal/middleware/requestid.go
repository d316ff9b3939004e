package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestID adds a unique request ID to each request and attaches a
// request-scoped child logger under the "logger" context key.
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set("X-Request-ID", requestID)
			}

			// Echo the id back so clients can correlate.
			c.Response().Header().Set("X-Request-ID", requestID)

			c.Set("logger", base.With(zap.String("request_id", requestID)))
			return next(c)
		}
	}
}
