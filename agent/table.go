package agent

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// key Q表键
type key struct {
	state  State
	action Action
}

// Table Q表
// 功能：保存(状态, 动作)到价值估计的映射
// 说明：未出现过的(状态, 动作)价值为0，且无需写入映射；所有读取都经过Value
type Table struct {
	values map[key]float64
}

// NewTable 创建空Q表
func NewTable() *Table {
	return &Table{values: make(map[key]float64)}
}

// Value 读取价值，不存在时为0
func (t *Table) Value(s State, a Action) float64 {
	return t.values[key{s, a}]
}

// Lookup 读取价值以及是否已记录
func (t *Table) Lookup(s State, a Action) (float64, bool) {
	v, ok := t.values[key{s, a}]
	return v, ok
}

// Set 写入价值
func (t *Table) Set(s State, a Action, v float64) {
	t.values[key{s, a}] = v
}

// Best 状态下已记录动作中价值最大者
// 返回：最优动作、其价值、是否存在已记录动作
// 说明：按Actions顺序遍历，并列时取先出现者
func (t *Table) Best(s State) (Action, float64, bool) {
	best, bestValue, found := Hold, 0., false
	for _, a := range Actions {
		v, ok := t.values[key{s, a}]
		if !ok {
			continue
		}
		if !found || v > bestValue {
			best, bestValue, found = a, v, true
		}
	}
	return best, bestValue, found
}

// Len 已记录的(状态, 动作)数
func (t *Table) Len() int {
	return len(t.values)
}

// Entry Q表中的一项
type Entry struct {
	State  State
	Action Action
	Value  float64
}

// Entries 按(状态, 动作)排序的全部项
func (t *Table) Entries() []Entry {
	entries := lo.MapToSlice(t.values, func(k key, v float64) Entry {
		return Entry{State: k.state, Action: k.action, Value: v}
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.State.NS, b.State.NS),
			cmp.Compare(a.State.EW, b.State.EW),
			cmp.Compare(a.Action, b.Action),
		)
	})
	return entries
}

// Clone 深拷贝
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

// ToNested 转换为持久化使用的嵌套文本映射 {状态: {动作: 价值}}
func (t *Table) ToNested() map[string]map[string]float64 {
	nested := make(map[string]map[string]float64)
	for k, v := range t.values {
		sk := k.state.Key()
		if _, ok := nested[sk]; !ok {
			nested[sk] = make(map[string]float64)
		}
		nested[sk][k.action.Key()] = v
	}
	return nested
}

// FromNested 由嵌套文本映射构造Q表
func FromNested(nested map[string]map[string]float64) (*Table, error) {
	t := NewTable()
	for sk, actions := range nested {
		s, err := ParseState(sk)
		if err != nil {
			return nil, err
		}
		for ak, v := range actions {
			a, err := ParseAction(ak)
			if err != nil {
				return nil, fmt.Errorf("state %s: %w", sk, err)
			}
			t.Set(s, a, v)
		}
	}
	return t, nil
}
