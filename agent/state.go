package agent

import (
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

// Level 单个轴的离散交通量等级
type Level int8

const (
	LevelLow    Level = iota // 少于3辆
	LevelMedium              // 3到5辆
	LevelHigh                // 6辆及以上
)

// 等级阈值
const (
	mediumThreshold = 3
	highThreshold   = 6
)

// Discretize 将车辆数转换为等级
func Discretize(count int) Level {
	switch {
	case count < mediumThreshold:
		return LevelLow
	case count < highThreshold:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// State 离散交通状态，(南北等级, 东西等级)
type State struct {
	NS Level
	EW Level
}

// StateFromCounts 由各方向车辆数计算离散状态
// 说明：缺失的方向按0处理
func StateFromCounts(counts map[entity.Direction]int) State {
	ns := counts[entity.North] + counts[entity.South]
	ew := counts[entity.East] + counts[entity.West]
	return State{NS: Discretize(ns), EW: Discretize(ew)}
}

// Key 持久化使用的文本形式，例如"(0, 2)"
func (s State) Key() string {
	return fmt.Sprintf("(%d, %d)", s.NS, s.EW)
}

func (s State) String() string {
	return s.Key()
}

// ParseState 解析文本形式的状态
func ParseState(key string) (State, error) {
	var ns, ew int
	n, _ := fmt.Sscanf(key, "(%d, %d)", &ns, &ew)
	if n != 2 || key != fmt.Sprintf("(%d, %d)", ns, ew) {
		return State{}, fmt.Errorf("invalid state key %q", key)
	}
	if ns < int(LevelLow) || ns > int(LevelHigh) || ew < int(LevelLow) || ew > int(LevelHigh) {
		return State{}, fmt.Errorf("state key %q out of range", key)
	}
	return State{NS: Level(ns), EW: Level(ew)}, nil
}

// Action 动作
type Action int8

const (
	Hold   Action = iota // 保持当前相位
	Switch               // 请求切换相位
)

// Actions 全部动作，遍历顺序固定
var Actions = [...]Action{Hold, Switch}

// Key 持久化使用的文本形式
func (a Action) Key() string {
	return fmt.Sprintf("%d", a)
}

func (a Action) String() string {
	if a == Switch {
		return "switch"
	}
	return "hold"
}

// ParseAction 解析文本形式的动作
func ParseAction(key string) (Action, error) {
	switch key {
	case "0":
		return Hold, nil
	case "1":
		return Switch, nil
	}
	return Hold, fmt.Errorf("invalid action key %q", key)
}
