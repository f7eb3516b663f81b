package junction

import "github.com/tsinghua-fib-lab/intersection-rl/entity"

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给交通参与者与决策模块提供的信控读取接口
type ITrafficLightGetter interface {
	Phase() int32               // 当前稳定相位
	Yellow() bool               // 是否处于黄灯过渡
	RemainingTime() int32       // 黄灯剩余步数
	Output() entity.PhaseOutput // 当前各轴灯色
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter
	Update()             // 更新阶段，推进一步
	RequestSwitch() bool // 请求切换相位，返回请求是否被接受
}
