package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ayfri/ETL-1/internal/logger"
)

// Logger logs each HTTP request with method, path, status and latency
func Logger() gin.HandlerFunc {
	log := logger.ForComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if query != "" {
			fields["query"] = query
		}
		if requestID := c.GetString(RequestIDKey); requestID != "" {
			fields["request_id"] = requestID
		}

		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
