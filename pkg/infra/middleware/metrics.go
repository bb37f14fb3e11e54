package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/medisearch/pkg/observability/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// arbitrary URLs out of the label set.
const unmatchedRoute = "unmatched"

// MetricsCollector records HTTP request metrics into a registry.
type MetricsCollector struct {
	requestsTotal   metrics.CounterVec
	requestDuration metrics.HistogramVec
	activeRequests  metrics.Gauge
}

// NewMetricsCollector registers the HTTP metric families in registry
// under <namespace>_http_.
func NewMetricsCollector(registry *metrics.Registry, namespace string) *MetricsCollector {
	prefix := "http"
	if namespace != "" {
		prefix = namespace + "_http"
	}

	m := &MetricsCollector{
		requestsTotal:   metrics.NewCounterVec(prefix+"_requests_total", "Total number of HTTP requests."),
		requestDuration: metrics.NewHistogramVec(prefix+"_request_duration_seconds", "HTTP request duration in seconds.", metrics.DefaultBuckets),
		activeRequests:  metrics.NewGauge(prefix+"_requests_active", "Current number of in-flight requests."),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests)
	return m
}

// RecordRequest records one finished request.
func (m *MetricsCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	labels := map[string]string{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestsTotal.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

// RequestCount returns the number of requests recorded for the label set.
func (m *MetricsCollector) RequestCount(method, route string, status int) float64 {
	return m.requestsTotal.With(map[string]string{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}).Get()
}

// Metrics returns a middleware that feeds collector. Requests are labelled
// by route template rather than raw path. skipPaths are not recorded.
func Metrics(collector *MetricsCollector, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		collector.activeRequests.Inc()
		start := time.Now()

		c.Next()

		collector.activeRequests.Dec()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		collector.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
