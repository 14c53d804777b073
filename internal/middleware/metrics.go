package middleware

import (
	"time"

	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request counts and latency per matched route.
// Unmatched paths share one label to keep cardinality bounded.
func HTTPMetrics() gin.HandlerFunc {
	m := metrics.Economy()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
