package clock_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-rl/clock"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

func TestClock(t *testing.T) {
	c := clock.New(config.ControlStep{Total: 3, TicksPerSecond: 60})
	assert.Equal(t, int32(0), c.InternalStep)
	assert.False(t, c.Done())
	for range 3 {
		c.Tick()
	}
	assert.True(t, c.Done())
	assert.InDelta(t, 0.05, c.T, 1e-12)
}

func TestClockUnbounded(t *testing.T) {
	c := clock.New(config.ControlStep{TicksPerSecond: 60})
	assert.Equal(t, int32(math.MaxInt32), c.END_STEP)
	for range 180 {
		c.Tick()
	}
	assert.True(t, c.Every(180))
	assert.False(t, c.Every(100))
	assert.False(t, c.Every(0))
	assert.Equal(t, "00:00:03.00", c.String())
}
