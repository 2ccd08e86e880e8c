package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	charts  *prometheus.CounterVec
	notes   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	cache   *prometheus.CounterVec
}

// New registers the chart metrics on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		charts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natalis_charts_total",
				Help: "Charts processed by source and status",
			},
			[]string{"source", "status"},
		),
		notes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natalis_report_notes_total",
				Help: "Degraded-input notes attached to reports",
			},
			[]string{"code"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natalis_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "natalis_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natalis_ephemeris_cache_total",
				Help: "Ephemeris cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (r *Recorder) RecordChart(source, status string) {
	r.charts.WithLabelValues(source, status).Inc()
}

func (r *Recorder) RecordNote(code string) {
	r.notes.WithLabelValues(code).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordCache(result string) {
	r.cache.WithLabelValues(result).Inc()
}
