// Package observability provides the dashboard's Prometheus metrics.
//
// Each Metrics value owns its own registry so tests and multiple servers
// in one process never collide on global registration.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recompute triggers
const (
	TriggerQuery = "query"
	TriggerSort  = "sort"
	TriggerPage  = "page"
	TriggerClear = "clear"
)

// Metrics holds the collectors recorded by the view controller and the API.
type Metrics struct {
	reg *prometheus.Registry

	Recomputes       *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	Exports          *prometheus.CounterVec
	PreferenceErrors *prometheus.CounterVec
	ActiveProfiles   prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()

	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_recompute_total",
		Help: "View recomputations by trigger.",
	}, []string{"trigger"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_pipeline_duration_seconds",
		Help:    "Time spent rendering a frame.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_exports_total",
		Help: "Exports written by format.",
	}, []string{"format"})
	prefErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_preference_errors_total",
		Help: "Preference store failures by operation.",
	}, []string{"op"})
	profiles := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_active_profiles",
		Help: "Profiles with a live view controller.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	r.MustRegister(recomputes, duration, exports, prefErrors, profiles, requests)

	return &Metrics{
		reg:              r,
		Recomputes:       recomputes,
		PipelineDuration: duration,
		Exports:          exports,
		PreferenceErrors: prefErrors,
		ActiveProfiles:   profiles,
		HTTPRequests:     requests,
	}
}

// ObserveRecompute records one frame render for trigger.
func (m *Metrics) ObserveRecompute(trigger string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Recomputes.WithLabelValues(trigger).Inc()
	m.PipelineDuration.WithLabelValues(trigger).Observe(elapsed.Seconds())
}

// PreferenceError counts a failed preference store call.
func (m *Metrics) PreferenceError(op string) {
	if m == nil {
		return
	}
	m.PreferenceErrors.WithLabelValues(op).Inc()
}

// Export counts a written export.
func (m *Metrics) Export(format string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format).Inc()
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
