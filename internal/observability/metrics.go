package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_insights"

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FeatureRequests *prometheus.CounterVec // labels: feature, outcome={success,invalid_input,upstream_error,error}
	UpstreamErrors  *prometheus.CounterVec // labels: op

	// Provider fan-out.
	ProviderFetches *prometheus.CounterVec   // labels: provider, outcome={success,error}
	ProviderLatency *prometheus.HistogramVec // labels: provider

	NotificationsPublished prometheus.Counter
	TrackedLocations       prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeatureRequests,
		m.UpstreamErrors,
		m.ProviderFetches,
		m.ProviderLatency,
		m.NotificationsPublished,
		m.TrackedLocations,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeatureRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feature_requests_total",
			Help:      "Feature orchestrator invocations by feature and outcome.",
		}, []string{"feature", "outcome"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Weather data source failures by operation.",
		}, []string{"op"}),
		ProviderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fetches_total",
			Help:      "Upstream provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_fetch_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		NotificationsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_published_total",
			Help:      "Smart notifications written to the notification topic.",
		}),
		TrackedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_locations",
			Help:      "Number of locations sampled by the scheduler.",
		}),
	}
}

// ObserveFeature records one orchestrator call.
func (m *Metrics) ObserveFeature(feature, outcome string) {
	if m == nil {
		return
	}
	m.FeatureRequests.WithLabelValues(feature, outcome).Inc()
}

// ObserveUpstreamError records a data source failure.
func (m *Metrics) ObserveUpstreamError(op string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(op).Inc()
}

// ObserveProviderFetch records one provider request.
func (m *Metrics) ObserveProviderFetch(provider string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderFetches.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(took.Seconds())
}

// AddNotificationsPublished counts notifications handed to the broker.
func (m *Metrics) AddNotificationsPublished(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.NotificationsPublished.Add(float64(n))
}

// SetTrackedLocations reports the scheduler's location count.
func (m *Metrics) SetTrackedLocations(n int) {
	if m == nil {
		return
	}
	m.TrackedLocations.Set(float64(n))
}
