// Package observability provides internal Prometheus metrics collection.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the compile pipeline and
// the HTTP surface.
type Metrics struct {
	CompilesTotal   *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	FallbacksTotal  prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a metrics set backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CompilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "compiles_total",
			Help:      "Number of document compiles, labelled by outcome.",
		}, []string{"outcome"}),
		CompileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "canopy",
			Name:      "compile_duration_seconds",
			Help:      "Time spent in the document-to-graph pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		FallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "fallbacks_total",
			Help:      "Number of compiles that substituted the fixture graph.",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests, labelled by route and status.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "canopy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry exposes the backing registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCompile records one pipeline run.
func (m *Metrics) ObserveCompile(start time.Time, fallback bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if fallback {
		outcome = "fallback"
		m.FallbacksTotal.Inc()
	}
	m.CompilesTotal.WithLabelValues(outcome).Inc()
	m.CompileDuration.Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
