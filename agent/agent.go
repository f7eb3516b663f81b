// 表格型Q-learning智能体
// 每个决策时刻观察离散交通状态并选择保持或切换相位，同时用上一次决策的转移更新Q表
package agent

import (
	"math"

	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/randengine"
)

// Options 超参数
type Options struct {
	LearningRate float64 // 学习率α
	Discount     float64 // 折扣因子γ
	Exploration  float64 // 探索率ε
}

// OptionsFromConfig 从配置读取超参数（配置需已补全默认值）
func OptionsFromConfig(c config.Agent) Options {
	return Options{
		LearningRate: c.LearningRate,
		Discount:     *c.Discount,
		Exploration:  *c.Exploration,
	}
}

// Agent Q-learning智能体
type Agent struct {
	table     *Table
	opts      Options
	generator *randengine.Engine
}

// New 创建智能体
// 参数：table-初始Q表（nil则为空表），opts-超参数，generator-随机数引擎
func New(table *Table, opts Options, generator *randengine.Engine) *Agent {
	if table == nil {
		table = NewTable()
	}
	return &Agent{table: table, opts: opts, generator: generator}
}

// Table 当前Q表
func (a *Agent) Table() *Table {
	return a.table
}

// Options 当前超参数
func (a *Agent) Options() Options {
	return a.opts
}

// Observe 按ε-贪心策略选择动作
// 功能：以概率ε随机探索，否则选择已记录动作中价值最大者
// 参数：s-当前离散状态
// 返回：选择的动作
// 算法说明：
// 1. 以概率ε均匀随机选择动作
// 2. 否则取状态下已记录动作的最大价值动作，并列取先出现者
// 3. 状态尚无任何记录时均匀随机选择
func (a *Agent) Observe(s State) Action {
	if a.generator.PTrue(a.opts.Exploration) {
		return a.randomAction()
	}
	if best, _, ok := a.table.Best(s); ok {
		return best
	}
	return a.randomAction()
}

// Update 贝尔曼更新
// 功能：Q(prev, action) ← old + α(reward + γ·max Q(next, ·) − old)
// 参数：prev-上一决策状态，action-上一决策动作，reward-奖励，next-当前状态
// 返回：更新后的价值
// 说明：old不存在时为0；next没有任何记录时max为0
func (a *Agent) Update(prev State, action Action, reward float64, next State) float64 {
	old := a.table.Value(prev, action)
	_, nextMax, ok := a.table.Best(next)
	if !ok {
		nextMax = 0
	}
	value := old + a.opts.LearningRate*(reward+a.opts.Discount*nextMax-old)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		log.Warnf("drop non-finite q value %v for %v/%v (reward %v)", value, prev, action, reward)
		return old
	}
	a.table.Set(prev, action, value)
	return value
}

func (a *Agent) randomAction() Action {
	return randengine.Choice(a.generator, Actions[:])
}
