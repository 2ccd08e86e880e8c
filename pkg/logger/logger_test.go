package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	topic    string
	payloads []interface{}
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) batches() [][]AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]AggregatedLogEntry, 0, len(p.payloads))
	for _, v := range p.payloads {
		out = append(out, v.([]AggregatedLogEntry))
	}
	return out
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel).With(String("component", "engine"))

	l.Info("chart computed", Int("bodies", 21), Float64("orb", 1.5), Duration("took", 1500*time.Millisecond), Bool("cached", true))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "chart computed", entry["message"])
	assert.Equal(t, "engine", entry["component"])
	assert.EqualValues(t, 21, entry["bodies"])
	assert.EqualValues(t, 1.5, entry["orb"])
	assert.EqualValues(t, 1500, entry["took"])
	assert.Equal(t, true, entry["cached"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)
	l.Info("dropped")
	assert.Zero(t, buf.Len())
	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestCollectorAggregatesErrors(t *testing.T) {
	pub := &recordingPublisher{}
	l := NewWithWriter(&bytes.Buffer{}, zerolog.InfoLevel)
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Topic: "natalis.logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		l.Error("ephemeris unavailable", Error(errors.New("timeout")))
	}
	l.Error("bad chart job", String("key", "abc"))
	l.RemoveCollector()

	batches := pub.batches()
	require.Len(t, batches, 1)
	assert.Equal(t, "natalis.logs", pub.topic)
	require.Len(t, batches[0], 2)

	counts := map[string]int{}
	for _, e := range batches[0] {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, 3, counts["ephemeris unavailable"])
	assert.Equal(t, 1, counts["bad chart job"])
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Publisher: pub})

	c.AddLog("error", "a", nil, "x.go:1")
	assert.Equal(t, 1, c.Pending())
	c.AddLog("error", "b", nil, "x.go:2")
	assert.Equal(t, 0, c.Pending())
	c.Close()

	require.Len(t, pub.batches(), 1)
}
