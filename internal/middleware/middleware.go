package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
)

// RequestLogger logs every request and records its latency
func RequestLogger(lgr zerolog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if m != nil {
			m.ObserveRequest(c.Request.Method, route, status, elapsed)
		}

		event := lgr.Info()
		switch {
		case status >= 500:
			event = lgr.Error()
		case status >= 400:
			event = lgr.Warn()
		}
		if id := StudentID(c); id > 0 {
			event = event.Int64("studentID", id)
		}
		if id := AdminID(c); id > 0 {
			event = event.Int64("adminID", id)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Str("clientIP", c.ClientIP()).
			Msg("Request handled")
	}
}
