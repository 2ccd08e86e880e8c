package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst exhausted")
	assert.True(t, l.Allow("b"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"), "one token refilled")
}

func TestLimiterEvictsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Clients())

	now = now.Add(2 * time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Clients())
}

func TestLimiterSweepsOncePerIdlePeriod(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := New(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("x") // first call sweeps the empty map

	now = start.Add(30 * time.Second)
	l.Allow("a")

	now = start.Add(70 * time.Second)
	l.Allow("b") // sweep due: x is idle, a is not
	assert.Equal(t, 2, l.Clients())

	now = start.Add(100 * time.Second)
	l.Allow("c") // a is idle but the next sweep is not due yet
	assert.Equal(t, 3, l.Clients())

	now = start.Add(131 * time.Second)
	l.Allow("d") // sweep due: a and b are idle
	assert.Equal(t, 2, l.Clients())
}
