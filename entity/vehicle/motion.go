package vehicle

import (
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

// lookAhead 沿行驶方向平移一步后的矩形
func (v *Vehicle) lookAhead() entity.Rect {
	dx, dy := v.heading.Unit()
	return v.rect.Translate(dx*v.speed, dy*v.speed)
}

// resolve 计算本步是否停车
// 功能：依据停车线、信号灯与同向前车决定停车状态，不修改任何车辆
// 参数：j-路口，light-本步信号灯输出，others-本步开始时所有车辆的快照
// 返回：本步是否停车
// 算法说明：
// 1. 位于停车线处：本轴不是绿灯则停车，否则通行
// 2. 前瞻矩形与任一同向其他车辆相交（含边界接触）则停车，与信号灯无关
// 3. 未被强制停车且不在停车线处则通行
// 说明：不检测不同朝向车辆之间的冲突，路口内的冲突由相位约束保证
func (v *Vehicle) resolve(j entity.IJunction, light entity.PhaseOutput, others []entity.VehicleView) bool {
	stopped := v.stopped
	atStopLine := j.AtStopLine(v.heading, v.rect)
	if atStopLine {
		stopped = light.Of(v.heading.Axis()) != entity.LightGreen
	}
	future := v.lookAhead()
	for _, o := range others {
		if o.ID != v.id && o.Heading == v.heading && future.Intersects(o.Rect) {
			return true
		}
	}
	if !atStopLine {
		stopped = false
	}
	return stopped
}

// apply 应用停车决定
// 功能：停车则累加等待步数，否则沿行驶方向移动并清零等待步数
func (v *Vehicle) apply(stopped bool) {
	v.stopped = stopped
	if stopped {
		v.waitTime++
		return
	}
	v.waitTime = 0
	v.rect = v.lookAhead()
}
