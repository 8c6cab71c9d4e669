package middleware

import (
	"time"

	"merchant-bi-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency by route template. Requests that match no
// route share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
