package agent

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

// Reward 计算奖励：全部活动车辆等待步数之和的相反数
// 说明：没有车辆时为0，值越大越好
func Reward(vehicles []entity.VehicleView) float64 {
	total := lo.SumBy(vehicles, func(v entity.VehicleView) int64 {
		return int64(v.WaitTime)
	})
	if total == 0 {
		return 0
	}
	return -float64(total)
}
