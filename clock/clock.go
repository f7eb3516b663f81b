package clock

import (
	"fmt"
	"math"

	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的步数推进与仿真时间换算
// 说明：一步即一帧，默认每秒60步
type Clock struct {
	DT         float64 // 每步的仿真时间（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)，math.MaxInt32表示不限

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 功能：根据控制配置计算步长与起止步数
// 参数：stepConfig-控制步配置
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	endStep := int32(math.MaxInt32)
	if stepConfig.Total > 0 {
		endStep = stepConfig.Start + stepConfig.Total
	}
	c := &Clock{
		DT:         1 / stepConfig.TicksPerSecond,
		START_STEP: stepConfig.Start,
		END_STEP:   endStep,
	}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 推进一步
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Every 当前步是否为interval的整数倍
// 说明：用于车辆生成、智能体决策等周期性事件，interval<=0时总是返回false
func (c *Clock) Every(interval int32) bool {
	return interval > 0 && c.InternalStep%interval == 0
}

// Done 是否已到达结束步
func (c *Clock) Done() bool {
	return c.InternalStep >= c.END_STEP
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串（HH:MM:SS.ss）
func (c *Clock) String() string {
	hour, minute, second := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%05.2f", hour, minute, second)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
