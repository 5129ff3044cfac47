package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics exposes low-cardinality HTTP server instruments.
type HTTPMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	responses *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "severatee_http_requests_total",
			Help: "Count of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "severatee_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "severatee_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		responses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "severatee_http_errors_total",
			Help: "Count of HTTP responses with status >= 500 by route.",
		}, []string{"route"}),
	}
}

// Observe records a single completed request.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route = normalizeRoute(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status >= 500 {
		m.responses.WithLabelValues(route).Inc()
	}
}

// GinMiddleware instruments inbound requests.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.inFlight.Inc()
		c.Next()
		m.inFlight.Dec()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Route templates keep label cardinality bounded; unmatched paths collapse.
func normalizeRoute(route string) string {
	if strings.TrimSpace(route) == "" {
		return "unknown"
	}
	return route
}
