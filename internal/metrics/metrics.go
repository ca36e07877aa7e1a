package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the forum's Prometheus collectors on a private registry.
type Collector struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	documentOps  *prometheus.CounterVec
	documentTime *prometheus.HistogramVec
}

// New registers request and document collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forum",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forum",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		documentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forum",
			Name:      "document_operations_total",
			Help:      "Collection document loads and saves by outcome.",
		}, []string{"document", "op", "outcome"}),
		documentTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forum",
			Name:      "document_operation_duration_seconds",
			Help:      "Collection document load and save latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"document", "op"}),
	}
	c.registry.MustRegister(c.requests, c.latency, c.documentOps, c.documentTime)
	return c
}

// ObserveDocument records one document load or save.
func (c *Collector) ObserveDocument(name, op string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.documentOps.WithLabelValues(name, op, outcome).Inc()
	c.documentTime.WithLabelValues(name, op).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// WithRequestMetrics counts requests and observes their latency. The route
// label is r.Pattern so ids in paths do not explode cardinality.
func (c *Collector) WithRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
