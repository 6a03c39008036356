package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusConfig configures the scrape-based HTTP metrics.
type PrometheusConfig struct {
	// Namespace prefixes every metric name. Default: "cashdesk".
	Namespace string
	// Buckets are the latency histogram buckets. Default: prometheus.DefBuckets.
	Buckets []float64
	// RuntimeCollectors registers the Go and process collectors.
	RuntimeCollectors bool
}

// PrometheusMetrics exposes HTTP request metrics on its own registry for a
// /metrics scrape endpoint.
type PrometheusMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics creates and registers the collectors.
func NewPrometheusMetrics(cfg PrometheusConfig) *PrometheusMetrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "cashdesk"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()
	m := &PrometheusMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served.",
			},
			[]string{"method", "route", "status", "status_class"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   cfg.Buckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration)
	if cfg.RuntimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry so other collectors can be added.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records every request that passes through it.
func (m *PrometheusMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := getRoutePattern(c)
		status := c.Writer.Status()
		m.requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(status), HTTPMetricsStatusGroup(status),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}
