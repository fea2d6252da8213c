package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/metrics"
)

// Prometheus records request totals and latency. The route template
// (":id" form) is used as the path label to keep cardinality bounded.
func Prometheus(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
