// Package middleware provides Gin middleware shared by the API server,
// currently Prometheus instrumentation.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browserproxy_http_requests_total",
		Help: "HTTP requests processed, by method, path and status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "browserproxy_http_request_duration_seconds",
		Help:    "HTTP request latency. Completion requests include the full browser exchange.",
		Buckets: []float64{.05, .25, 1, 5, 15, 30, 60, 120, 180},
	}, []string{"method", "path"})

	exchangeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "browserproxy_exchange_duration_seconds",
		Help:    "Time one browser exchange (submit to extracted answer) took, by site.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 180},
	}, []string{"site"})
)

// Metrics returns a middleware recording per-request counters and latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveExchange records how long one browser exchange took.
func ObserveExchange(site string, elapsed time.Duration) {
	exchangeDuration.WithLabelValues(site).Observe(elapsed.Seconds())
}
