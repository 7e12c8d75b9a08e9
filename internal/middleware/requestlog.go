package middleware

import (
	"time"

	"github.com/ghaniswara/algolove/internal/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const (
	requestIDKey    = "requestID"
	headerRequestID = "X-Request-ID"
)

// RequestLogger tags each request with an X-Request-ID, reusing the caller's
// when present, and logs it once the response is written.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, requestID)
			c.Set(requestIDKey, requestID)

			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			log.Info("http request", map[string]interface{}{
				"request_id": requestID,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			})

			return nil
		}
	}
}

func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
