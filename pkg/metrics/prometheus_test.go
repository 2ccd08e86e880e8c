package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordChart("http", "ok")
	r.RecordChart("http", "ok")
	r.RecordChart("kafka", "failed")
	r.RecordNote("missing_input")
	r.RecordCache("hit")
	r.RecordError("ephemeris")
	r.RecordLatency("chart_build", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.charts.WithLabelValues("http", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.charts.WithLabelValues("kafka", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notes.WithLabelValues("missing_input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("ephemeris")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
