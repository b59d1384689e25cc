package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
)

// Metrics updates the injected request/error counters around every request.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		m.RecordRequest(c.Request.Method, endpoint)

		start := time.Now()
		c.Next()

		m.RecordResponse(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start).Seconds())
	}
}

// RequestLoggerWithLogger creates a request logger with a zerolog.Logger.
func RequestLoggerWithLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", GetRequestID(c)).
			Msg("http request")
	}
}
