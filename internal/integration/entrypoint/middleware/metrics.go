package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/infra/metrics"
)

// Metrics returns a Gin middleware handler that records request counts and
// latency per route. Unmatched routes are labeled as such to keep the
// cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.RequestsTotal.
			WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.RequestDuration.
			WithLabelValues(method, path).
			Observe(time.Since(start).Seconds())
	}
}
