// Package metrics registers the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for bilancio.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it. A
	// private registry avoids duplicate-collector panics when NewMetrics
	// runs more than once, e.g. in tests.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	forecastsComputed  *prometheus.CounterVec
	scheduleWarnings   prometheus.Counter
	alertsPublished    prometheus.Counter
	forecastCacheHits  prometheus.Counter
	forecastCacheMiss  prometheus.Counter
}

// NewMetrics creates a dedicated registry and registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bilancio_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		forecastsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bilancio_forecasts_total",
				Help: "Total forecast computations by outcome.",
			},
			[]string{"outcome"},
		),
		scheduleWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bilancio_schedule_warnings_total",
				Help: "Total data-integrity warnings emitted while building schedules.",
			},
		),
		alertsPublished: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bilancio_low_balance_alerts_total",
				Help: "Total low-balance alerts published.",
			},
		),
		forecastCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bilancio_forecast_cache_hits_total",
				Help: "Total forecast cache hits.",
			},
		),
		forecastCacheMiss: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bilancio_forecast_cache_misses_total",
				Help: "Total forecast cache misses.",
			},
		),
	}
}

// ObserveRequest records one HTTP request's duration.
func (m *Metrics) ObserveRequest(route string, seconds float64) {
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// ForecastComputed counts one forecast computation. outcome is "ok",
// "not_ready" or "error".
func (m *Metrics) ForecastComputed(outcome string) {
	m.forecastsComputed.WithLabelValues(outcome).Inc()
}

// ScheduleWarnings counts data-integrity warnings from one pass.
func (m *Metrics) ScheduleWarnings(n int) {
	if n > 0 {
		m.scheduleWarnings.Add(float64(n))
	}
}

// AlertPublished counts one published low-balance alert.
func (m *Metrics) AlertPublished() {
	m.alertsPublished.Inc()
}

// ForecastCacheHit counts a forecast served from cache.
func (m *Metrics) ForecastCacheHit() {
	m.forecastCacheHits.Inc()
}

// ForecastCacheMiss counts a forecast that had to be computed.
func (m *Metrics) ForecastCacheMiss() {
	m.forecastCacheMiss.Inc()
}
