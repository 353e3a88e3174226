package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedThrottlesPerKey(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	k := NewKeyed(time.Minute).WithClock(func() time.Time { return now })

	total, ok := k.Inc("weather")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), total)

	total, ok = k.Inc("weather")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), total)

	_, ok = k.Inc("transit")
	assert.True(t, ok, "other keys have their own window")

	now = now.Add(61 * time.Second)
	total, ok = k.Inc("weather")
	assert.True(t, ok)
	assert.Equal(t, uint64(3), total)
}

func TestCounterZeroIntervalAlwaysLogs(t *testing.T) {
	c := NewCounter(0)
	for i := 0; i < 3; i++ {
		_, ok := c.Inc()
		assert.True(t, ok)
	}
}

func TestNilCounter(t *testing.T) {
	var c *Counter
	total, ok := c.Inc()
	assert.Zero(t, total)
	assert.False(t, ok)
}
