package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/metrics"
)

// RequestMetrics records count and latency per route and logs one line per
// request.
func RequestMetrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()

		m.RecordRequest(c.Request.Context(), c.Request.Method, route, status, duration)
		log.Printf("[HTTP] %s %s %s - %d - %dms", c.Request.Method, route, c.ClientIP(), status, duration.Milliseconds())
	}
}
