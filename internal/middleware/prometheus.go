package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmaohq/gmao/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count per route.
// Scrapes of /metrics are not counted. Responses with a 5xx status are also
// counted as server errors.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		code := c.Writer.Status()
		status := strconv.Itoa(code)
		path := c.FullPath() // route pattern keeps label cardinality bounded
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if code >= http.StatusInternalServerError {
			metrics.ErrorsTotal.WithLabelValues("server_error").Inc()
		}
	}
}
