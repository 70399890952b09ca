package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
)

// Metrics records request duration and count per route. The scrape endpoint
// itself is excluded so Prometheus polling does not inflate the series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched routes collapse into one label to keep cardinality down.
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
