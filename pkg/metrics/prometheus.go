package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerCalls    *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	dashboards       prometheus.Counter
	dashboardLatency prometheus.Histogram
	fallbackSections prometheus.Histogram
	feedbackTotal    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
}

var (
	defaultRecorder *Recorder
	defaultOnce     sync.Once
)

// New returns the process-wide Prometheus recorder. Metrics are registered
// on the default registry once.
func New() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewWithRegisterer(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// NewWithRegisterer creates a recorder registered on reg (useful for tests).
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		providerCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_provider_requests_total",
				Help: "Provider adapter calls by outcome (live, fallback, cached, skipped)",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptodash_provider_duration_seconds",
				Help:    "Provider adapter duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
			[]string{"provider"},
		),
		dashboards: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cryptodash_dashboards_total",
				Help: "Dashboards composed",
			},
		),
		dashboardLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptodash_dashboard_duration_seconds",
				Help:    "Dashboard composition duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		fallbackSections: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptodash_dashboard_fallback_sections",
				Help:    "Number of fallback sections per dashboard",
				Buckets: []float64{0, 1, 2, 3, 4},
			},
		),
		feedbackTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_feedback_total",
				Help: "Feedback records by section and vote",
			},
			[]string{"section", "type"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_cache_lookups_total",
				Help: "Provider cache lookups",
			},
			[]string{"cache", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordProviderCall records one adapter call.
func (r *Recorder) RecordProviderCall(provider, outcome string, seconds float64) {
	r.providerCalls.WithLabelValues(provider, outcome).Inc()
	r.providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordDashboard records a composed dashboard.
func (r *Recorder) RecordDashboard(fallbackSections int, seconds float64) {
	r.dashboards.Inc()
	r.dashboardLatency.Observe(seconds)
	r.fallbackSections.Observe(float64(fallbackSections))
}

func (r *Recorder) RecordFeedback(section, kind string) {
	r.feedbackTotal.WithLabelValues(section, kind).Inc()
}

func (r *Recorder) RecordCacheLookup(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(name, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
