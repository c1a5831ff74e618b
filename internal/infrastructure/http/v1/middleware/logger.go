package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// Probe and scrape endpoints are logged at debug level.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "error", errs)
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Errorw("http request", fields...)
		case strings.HasPrefix(path, "/health") || path == "/metrics":
			l.Debugw("http request", fields...)
		default:
			l.Infow("http request", fields...)
		}
	}
}
