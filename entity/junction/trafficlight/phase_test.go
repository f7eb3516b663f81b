package trafficlight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction/trafficlight"
)

func TestInitialState(t *testing.T) {
	l := trafficlight.NewPhaseTrafficLight(50)
	assert.Equal(t, int32(0), l.Phase())
	assert.False(t, l.Yellow())
	assert.Equal(t, entity.PhaseOutput{NS: entity.LightGreen, EW: entity.LightRed}, l.Output())
	assert.Equal(t, "Steady(0)", l.String())
}

func TestYellowTiming(t *testing.T) {
	for _, p := range []int32{0, 1} {
		l := trafficlight.NewPhaseTrafficLight(50)
		if p == 1 {
			require.True(t, l.RequestSwitch())
			for range 51 {
				l.Update()
			}
			require.Equal(t, int32(1), l.Phase())
			require.False(t, l.Yellow())
		}
		// 第T步请求
		require.True(t, l.RequestSwitch())
		l.Update()
		// T+1 .. T+50 黄灯
		for tick := 1; tick <= 50; tick++ {
			assert.True(t, l.Yellow(), "tick T+%d", tick)
			assert.Equal(t, p, l.Phase(), "tick T+%d", tick)
			if tick < 50 {
				l.Update()
			}
		}
		// T+51 稳定相位1-p
		l.Update()
		assert.False(t, l.Yellow())
		assert.Equal(t, 1-p, l.Phase())
	}
}

func TestYellowOutput(t *testing.T) {
	l := trafficlight.NewPhaseTrafficLight(3)
	l.RequestSwitch()
	l.Update()
	assert.Equal(t, entity.PhaseOutput{NS: entity.LightYellow, EW: entity.LightRed}, l.Output())
	assert.Equal(t, "Yellow(0)", l.String())
	for range 3 {
		l.Update()
	}
	assert.Equal(t, entity.PhaseOutput{NS: entity.LightRed, EW: entity.LightGreen}, l.Output())
	l.RequestSwitch()
	l.Update()
	assert.Equal(t, entity.PhaseOutput{NS: entity.LightRed, EW: entity.LightYellow}, l.Output())
}

func TestRequestIgnoredDuringYellow(t *testing.T) {
	l := trafficlight.NewPhaseTrafficLight(5)
	assert.True(t, l.RequestSwitch())
	assert.False(t, l.RequestSwitch(), "pending request")
	l.Update()
	for range 4 {
		assert.False(t, l.RequestSwitch())
		l.Update()
	}
	l.Update()
	assert.Equal(t, int32(1), l.Phase())
	assert.False(t, l.Yellow())
	// 黄灯期间的请求不会在黄灯结束后生效
	l.Update()
	assert.False(t, l.Yellow())
}

func TestOutputAlwaysValid(t *testing.T) {
	l := trafficlight.NewPhaseTrafficLight(50)
	for tick := range 10000 {
		if tick%37 == 0 {
			l.RequestSwitch()
		}
		l.Update()
		out := l.Output()
		assert.True(t, out.Valid(), "tick %d: %+v", tick, out)
		greens := 0
		if out.NS == entity.LightGreen {
			greens++
		}
		if out.EW == entity.LightGreen {
			greens++
		}
		if l.Yellow() {
			assert.Equal(t, 0, greens)
		} else {
			assert.Equal(t, 1, greens)
		}
	}
}

func TestMaxPressure(t *testing.T) {
	m := trafficlight.NewMaxPressure()
	nsGreen := entity.PhaseOutput{NS: entity.LightGreen, EW: entity.LightRed}
	assert.False(t, m.Decide(nsGreen, map[entity.Direction]int{entity.North: 3, entity.East: 1}))
	assert.True(t, m.Decide(nsGreen, map[entity.Direction]int{entity.North: 1, entity.East: 1, entity.West: 2}))
	yellow := entity.PhaseOutput{NS: entity.LightYellow, EW: entity.LightRed}
	assert.False(t, m.Decide(yellow, map[entity.Direction]int{entity.East: 10}))
}

func TestMaxPressureRepeatLimit(t *testing.T) {
	m := trafficlight.NewMaxPressure()
	ewGreen := entity.PhaseOutput{NS: entity.LightRed, EW: entity.LightGreen}
	counts := map[entity.Direction]int{entity.East: 5, entity.North: 1}
	for range 6 {
		assert.False(t, m.Decide(ewGreen, counts))
	}
	assert.True(t, m.Decide(ewGreen, counts))
	// 红灯轴无车时不强制切换
	assert.False(t, m.Decide(ewGreen, map[entity.Direction]int{entity.East: 5}))
}
