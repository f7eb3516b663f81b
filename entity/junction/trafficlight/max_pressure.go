// 提供Max Pressure决策规则，作为学习型控制的基线与示范策略
// 每个决策时刻比较两个轴的压力（检测到的车辆数），红灯轴压力更大时请求切换
package trafficlight

import (
	"flag"

	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

var (
	maxRepeatCount = flag.Int("tl.mp_max_repeat_count", 6, "最大压力法每个相位最多连续保持的决策次数")
)

// MaxPressure 最大压力决策器
// 功能：根据两个轴的压力决定是否切换相位
// 说明：绿灯轴连续保持超过最大次数后强制切换，避免红灯轴饥饿
type MaxPressure struct {
	maxRepeat   int // 最大连续保持次数
	repeatCount int // 当前相位已连续保持的次数
}

// NewMaxPressure 创建最大压力决策器
func NewMaxPressure() *MaxPressure {
	return &MaxPressure{maxRepeat: *maxRepeatCount}
}

// Decide 根据当前灯色与各方向车辆数给出是否切换
// 参数：output-当前信号灯输出，counts-各方向车辆数
// 返回：true表示请求切换
// 算法说明：
// 1. 黄灯期间不做决策
// 2. 计算绿灯轴与红灯轴的压力
// 3. 红灯轴压力更大，或绿灯轴已达到最大保持次数且红灯轴有车，则切换
func (m *MaxPressure) Decide(output entity.PhaseOutput, counts map[entity.Direction]int) bool {
	green := entity.AxisNS
	switch {
	case output.NS == entity.LightGreen:
	case output.EW == entity.LightGreen:
		green = entity.AxisEW
	default:
		return false
	}
	pressure := [2]int{}
	for d, n := range counts {
		pressure[d.Axis()] += n
	}
	red := green.Other()
	if pressure[red] > pressure[green] || (m.repeatCount >= m.maxRepeat && pressure[red] > 0) {
		m.repeatCount = 0
		return true
	}
	m.repeatCount++
	return false
}
