package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EphemerisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "natalis",
			Subsystem: "ephemeris",
			Name:      "latency_seconds",
			Help:      "Latency of upstream ephemeris calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	EphemerisAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "natalis",
			Subsystem: "ephemeris",
			Name:      "attempts_total",
			Help:      "Upstream ephemeris attempts, including retries",
		},
		[]string{"outcome"},
	)
)

// Register adds the ephemeris collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(EphemerisLatency, EphemerisAttempts)
	})
}
