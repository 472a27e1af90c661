// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rejection reasons for RegistrationsRejected
const (
	ReasonClosed      = "closed"
	ReasonInvalid     = "invalid"
	ReasonDuplicate   = "duplicate"
	ReasonRateLimited = "rate_limited"
)

// Metrics holds all Prometheus collectors for the service
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
	RegistrationsCreated  prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	RegistrationsDeleted  prometheus.Counter
	PhotoUploads          *prometheus.CounterVec
	StatsDuration         *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, so several instances
// (one per test router) never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gala",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gala",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		RegistrationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gala",
			Name:      "registrations_created_total",
			Help:      "Total number of successful registrations.",
		}),
		RegistrationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gala",
			Name:      "registrations_rejected_total",
			Help:      "Registration attempts refused, by reason.",
		}, []string{"reason"}),
		RegistrationsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gala",
			Name:      "registrations_deleted_total",
			Help:      "Total number of registrations deleted by an admin.",
		}),
		PhotoUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gala",
			Name:      "photo_uploads_total",
			Help:      "Photo upload attempts, by result.",
		}, []string{"result"}),
		StatsDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gala",
			Name:      "stats_duration_seconds",
			Help:      "Duration of kit-number statistics computations.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"report"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// IncrementRejected records a refused registration attempt
func (m *Metrics) IncrementRejected(reason string) {
	m.RegistrationsRejected.WithLabelValues(reason).Inc()
}

// ObserveStats records the duration of a statistics computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStats(report string, start time.Time) {
	m.StatsDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
