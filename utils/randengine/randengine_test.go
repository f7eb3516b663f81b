package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/randengine"
)

func TestDeterministic(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for range 100 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestPTrue(t *testing.T) {
	e := randengine.New(1)
	for range 1000 {
		assert.False(t, e.PTrue(0))
		assert.True(t, e.PTrue(1))
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(7)
	counts := make([]int, 4)
	for range 4000 {
		counts[e.DiscreteDistribution([]float64{1, 0, 3, 0})]++
	}
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[3])
	assert.Greater(t, counts[2], counts[0])
}

func TestChoice(t *testing.T) {
	e := randengine.New(3)
	seen := map[string]bool{}
	for range 200 {
		seen[randengine.Choice(e, []string{"a", "b"})] = true
	}
	assert.Len(t, seen, 2)
}
