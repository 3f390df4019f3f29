package middleware

import (
	"log/slog"
	"time"

	"devhubtrader.app/forge/common/logger"
	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Health probes are not logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ctx := c.Request.Context()
		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "request error", attrs...)
		default:
			slog.InfoContext(ctx, "request", attrs...)
		}
	}
}

// TraceHeader echoes the request's trace ID so clients can quote it when
// reporting a failed generation.
func TraceHeader(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID := logger.TraceID(c.Request.Context()); traceID != "" && name != "" {
			c.Header(name, traceID)
		}
		c.Next()
	}
}
