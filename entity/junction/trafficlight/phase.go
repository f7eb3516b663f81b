// 提供两相位信号灯状态机
// 两个稳定相位：相位0南北绿灯东西红灯，相位1相反；切换时先进入当前相位的黄灯过渡
package trafficlight

import (
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

// 稳定相位的灯色
var steadyOutputs = [2]entity.PhaseOutput{
	{NS: entity.LightGreen, EW: entity.LightRed}, // 相位0
	{NS: entity.LightRed, EW: entity.LightGreen}, // 相位1
}

// phaseRuntime 信号灯运行时数据
type phaseRuntime struct {
	phase      int32 // 当前稳定相位（黄灯期间为即将结束的相位）
	yellow     bool  // 是否处于黄灯过渡
	remainingT int32 // 黄灯剩余步数
}

// PhaseTrafficLight 两相位信号灯控制器
// 功能：维护稳定相位与黄灯过渡，作为每一步各轴通行权的唯一来源
// 说明：切换请求写入buffer，在下一次Update时生效；黄灯期间或已有待处理请求时忽略新请求
type PhaseTrafficLight struct {
	yellowTicks int32        // 黄灯持续步数
	runtime     phaseRuntime // 运行时数据
	pending     bool         // 切换请求buffer
}

// NewPhaseTrafficLight 创建两相位信号灯控制器
// 功能：初始化为稳定相位0
// 参数：yellowTicks-黄灯持续步数
// 返回：初始化完成的信号灯控制器实例
func NewPhaseTrafficLight(yellowTicks int32) *PhaseTrafficLight {
	if yellowTicks <= 0 {
		log.Panicf("yellow ticks must be positive, got %d", yellowTicks)
	}
	return &PhaseTrafficLight{yellowTicks: yellowTicks}
}

// RequestSwitch 请求切换相位
// 功能：在稳定相位下登记一次切换请求，下一次Update时进入黄灯
// 返回：请求是否被接受，黄灯期间或已有待处理请求时返回false
func (l *PhaseTrafficLight) RequestSwitch() bool {
	if l.runtime.yellow || l.pending {
		return false
	}
	l.pending = true
	return true
}

// Update 更新阶段，推进一步
// 功能：处理切换请求与黄灯计时
// 算法说明：
// 1. 稳定相位且有切换请求：进入黄灯，剩余时间为黄灯时长
// 2. 黄灯中：剩余时间减一，减到0时切换到另一稳定相位
func (l *PhaseTrafficLight) Update() {
	r := &l.runtime
	if r.yellow {
		r.remainingT--
		if r.remainingT <= 0 {
			r.yellow = false
			r.remainingT = 0
			r.phase = 1 - r.phase
			log.Debugf("switch to steady phase %d", r.phase)
		}
		return
	}
	if l.pending {
		l.pending = false
		r.yellow = true
		r.remainingT = l.yellowTicks
		log.Debugf("phase %d enters yellow for %d ticks", r.phase, l.yellowTicks)
	}
}

// Phase 当前稳定相位（黄灯期间为即将结束的相位）
func (l *PhaseTrafficLight) Phase() int32 {
	return l.runtime.phase
}

// Yellow 是否处于黄灯过渡
func (l *PhaseTrafficLight) Yellow() bool {
	return l.runtime.yellow
}

// RemainingTime 黄灯剩余步数，稳定相位时为0
func (l *PhaseTrafficLight) RemainingTime() int32 {
	return l.runtime.remainingT
}

// Output 当前各轴灯色
// 说明：黄灯期间，当前为绿灯的轴显示黄灯，另一轴保持红灯
func (l *PhaseTrafficLight) Output() entity.PhaseOutput {
	out := steadyOutputs[l.runtime.phase]
	if l.runtime.yellow {
		if out.NS == entity.LightGreen {
			out.NS = entity.LightYellow
		} else {
			out.EW = entity.LightYellow
		}
	}
	return out
}

func (l *PhaseTrafficLight) String() string {
	if l.runtime.yellow {
		return fmt.Sprintf("Yellow(%d)", l.runtime.phase)
	}
	return fmt.Sprintf("Steady(%d)", l.runtime.phase)
}
