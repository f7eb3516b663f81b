package agent_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/randengine"
)

var greedy = agent.Options{LearningRate: 0.1, Discount: 0.9, Exploration: 0}

func TestDiscretize(t *testing.T) {
	assert.Equal(t, agent.LevelLow, agent.Discretize(0))
	assert.Equal(t, agent.LevelLow, agent.Discretize(2))
	assert.Equal(t, agent.LevelMedium, agent.Discretize(3))
	assert.Equal(t, agent.LevelMedium, agent.Discretize(5))
	assert.Equal(t, agent.LevelHigh, agent.Discretize(6))
	assert.Equal(t, agent.LevelHigh, agent.Discretize(100))
}

func TestStateFromCounts(t *testing.T) {
	assert.Equal(t, agent.State{}, agent.StateFromCounts(map[entity.Direction]int{}))
	assert.Equal(t, agent.State{NS: agent.LevelLow, EW: agent.LevelLow},
		agent.StateFromCounts(map[entity.Direction]int{entity.North: 0, entity.South: 0, entity.East: 0, entity.West: 0}))
	// 南北轴计数分别为2、3、5、6
	for count, want := range map[int]agent.Level{2: 0, 3: 1, 5: 1, 6: 2} {
		s := agent.StateFromCounts(map[entity.Direction]int{entity.North: count - count/2, entity.South: count / 2})
		assert.Equal(t, want, s.NS, "count %d", count)
		assert.Equal(t, agent.LevelLow, s.EW)
	}
	// 缺失方向按0处理
	s := agent.StateFromCounts(map[entity.Direction]int{entity.West: 6})
	assert.Equal(t, agent.State{NS: agent.LevelLow, EW: agent.LevelHigh}, s)
}

func TestStateKey(t *testing.T) {
	s := agent.State{NS: agent.LevelMedium, EW: agent.LevelHigh}
	assert.Equal(t, "(1, 2)", s.Key())
	parsed, err := agent.ParseState("(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
	for _, bad := range []string{"", "(1,2)", "(1, 3)", "(1, 2)x", "1, 2", "(-1, 0)"} {
		_, err := agent.ParseState(bad)
		assert.Error(t, err, bad)
	}
	a, err := agent.ParseAction("1")
	require.NoError(t, err)
	assert.Equal(t, agent.Switch, a)
	_, err = agent.ParseAction("2")
	assert.Error(t, err)
}

func TestFirstObserveAndUpdate(t *testing.T) {
	a := agent.New(nil, greedy, randengine.New(0))
	s := agent.StateFromCounts(map[entity.Direction]int{})
	require.Equal(t, agent.State{}, s)
	action := a.Observe(s)
	assert.Contains(t, agent.Actions[:], action)
	// 同一种子下回退动作确定
	assert.Equal(t, action, agent.New(nil, greedy, randengine.New(0)).Observe(s))

	v := a.Update(s, action, -10, s)
	assert.InDelta(t, -1.0, v, 1e-12)
	assert.InDelta(t, -1.0, a.Table().Value(s, action), 1e-12)
	assert.Equal(t, 1, a.Table().Len())
}

func TestFallbackUniform(t *testing.T) {
	a := agent.New(nil, greedy, randengine.New(1))
	counts := map[agent.Action]int{}
	for range 2000 {
		counts[a.Observe(agent.State{NS: 2, EW: 2})]++
	}
	assert.InDelta(t, 1000, counts[agent.Hold], 150)
	assert.InDelta(t, 1000, counts[agent.Switch], 150)
}

func TestObserveGreedy(t *testing.T) {
	table := agent.NewTable()
	s := agent.State{NS: 1, EW: 0}
	table.Set(s, agent.Hold, -5)
	table.Set(s, agent.Switch, -2)
	a := agent.New(table, greedy, randengine.New(0))
	for range 100 {
		assert.Equal(t, agent.Switch, a.Observe(s))
	}
	// 并列时取先出现的动作
	table.Set(s, agent.Hold, -2)
	assert.Equal(t, agent.Hold, a.Observe(s))
	// 只记录了一个动作时返回该动作
	only := agent.State{NS: 0, EW: 1}
	table.Set(only, agent.Switch, -7)
	assert.Equal(t, agent.Switch, a.Observe(only))
}

func TestObserveExplores(t *testing.T) {
	table := agent.NewTable()
	s := agent.State{}
	table.Set(s, agent.Hold, 10)
	a := agent.New(table, agent.Options{LearningRate: 0.1, Discount: 0.9, Exploration: 1}, randengine.New(2))
	seen := map[agent.Action]bool{}
	for range 200 {
		seen[a.Observe(s)] = true
	}
	assert.Len(t, seen, 2)
}

func TestUpdateUsesNextMax(t *testing.T) {
	table := agent.NewTable()
	next := agent.State{NS: 2, EW: 0}
	table.Set(next, agent.Hold, 4)
	table.Set(next, agent.Switch, 8)
	a := agent.New(table, greedy, randengine.New(0))
	prev := agent.State{NS: 0, EW: 2}
	// 0 + 0.1 * (-2 + 0.9*8 - 0) = 0.52
	assert.InDelta(t, 0.52, a.Update(prev, agent.Switch, -2, next), 1e-12)
	// 0.52 + 0.1 * (-2 + 7.2 - 0.52) = 0.988
	assert.InDelta(t, 0.988, a.Update(prev, agent.Switch, -2, next), 1e-12)
}

func TestUpdateIdempotentAtFixedPoint(t *testing.T) {
	table := agent.NewTable()
	s := agent.State{NS: 1, EW: 1}
	// 终止状态价值为0时，Q = r 为不动点
	next := agent.State{NS: 0, EW: 1}
	table.Set(s, agent.Hold, -3)
	a := agent.New(table, agent.Options{LearningRate: 0.1, Discount: 0, Exploration: 0}, randengine.New(0))
	for range 10 {
		assert.Equal(t, -3., a.Update(s, agent.Hold, -3, next))
	}
}

func TestUpdateConvergesToFixedPoint(t *testing.T) {
	a := agent.New(nil, greedy, randengine.New(0))
	s := agent.State{NS: 2, EW: 2}
	const reward = -10.
	// 单一吸收状态：Q* = r / (1 - γ)
	target := reward / (1 - greedy.Discount)
	prevErr := math.Inf(1)
	for range 3000 {
		v := a.Update(s, agent.Switch, reward, s)
		e := math.Abs(v - target)
		assert.LessOrEqual(t, e, prevErr+1e-12)
		prevErr = e
	}
	assert.InDelta(t, target, a.Table().Value(s, agent.Switch), 1e-6)
}

func TestUpdateRejectsNonFinite(t *testing.T) {
	a := agent.New(nil, greedy, randengine.New(0))
	s := agent.State{}
	assert.Equal(t, 0., a.Update(s, agent.Hold, math.Inf(-1), s))
	_, ok := a.Table().Lookup(s, agent.Hold)
	assert.False(t, ok)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := agent.OptionsFromConfig(config.Default().Agent)
	assert.Equal(t, agent.Options{LearningRate: 0.1, Discount: 0.9, Exploration: 0.1}, opts)
}

func TestReward(t *testing.T) {
	assert.Equal(t, 0., agent.Reward(nil))
	assert.Equal(t, -12., agent.Reward([]entity.VehicleView{{WaitTime: 5}, {WaitTime: 0}, {WaitTime: 7}}))
}

func TestTableEntriesSorted(t *testing.T) {
	table := agent.NewTable()
	table.Set(agent.State{NS: 2, EW: 0}, agent.Switch, 1)
	table.Set(agent.State{NS: 0, EW: 1}, agent.Hold, 2)
	table.Set(agent.State{NS: 0, EW: 1}, agent.Switch, 3)
	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, agent.Entry{State: agent.State{NS: 0, EW: 1}, Action: agent.Hold, Value: 2}, entries[0])
	assert.Equal(t, agent.Entry{State: agent.State{NS: 0, EW: 1}, Action: agent.Switch, Value: 3}, entries[1])
	assert.Equal(t, agent.Entry{State: agent.State{NS: 2, EW: 0}, Action: agent.Switch, Value: 1}, entries[2])

	nested := table.ToNested()
	assert.Equal(t, map[string]map[string]float64{
		"(0, 1)": {"0": 2, "1": 3},
		"(2, 0)": {"1": 1},
	}, nested)
	back, err := agent.FromNested(nested)
	require.NoError(t, err)
	assert.Equal(t, table.Entries(), back.Entries())

	clone := table.Clone()
	clone.Set(agent.State{}, agent.Hold, 9)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 4, clone.Len())
}
