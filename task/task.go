package task

import (
	"context"
	"flag"
	"time"

	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/trace"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 600, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟
// 2. 心跳日志：定期输出系统状态信息
// 3. 车辆生成：到达生成间隔时在随机方向生成车辆
// 4. 车辆管理器准备：应用延迟的增删
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		light := ctx.junction.TrafficLight()
		log.Infof(
			"[%s] STEP: %d(%v) vehicles=%d phase=%d yellow=%v reward=%.0f q=%d",
			ctx.RunID(), ctx.clock.InternalStep, ctx.clock,
			ctx.vehicleManager.Len(), light.Phase(), light.Yellow(),
			ctx.lastReward, ctx.agent.Table().Len(),
		)
	}

	if ctx.clock.Every(ctx.config.Spawn.Interval) {
		ctx.vehicleManager.Spawn()
	}
	ctx.vehicleManager.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：在每个仿真步骤中执行主要的仿真逻辑
// 算法说明：
// 1. 车辆按当前灯色推进一步
// 2. 检测各方向车辆数并离散化
// 3. 决策时刻：用上一次决策的转移更新Q表，再选择新动作
// 4. 信号灯推进一步
// 5. 计算本步奖励
// 6. 清理离开仿真区域的车辆并发布快照
func (ctx *Context) update() {
	ctx.vehicleManager.Update()

	ctx.sense()
	ctx.state = agent.StateFromCounts(ctx.counts)

	if ctx.clock.Every(ctx.config.Agent.DecisionInterval) {
		ctx.decide()
	}

	ctx.junction.Update()

	ctx.lastReward = agent.Reward(ctx.vehicleManager.Views())

	if n := ctx.vehicleManager.Cull(); n > 0 {
		log.Debugf("step %d: %d vehicles left", ctx.clock.InternalStep, n)
	}
	ctx.publish()
}

// sense 运行检测器并整理结果
// 说明：缺失的方向视为0，负数视为0，首次出现时记录警告
func (ctx *Context) sense() {
	raw := ctx.sensor.Sense(entity.WorldSnapshot{
		Step:     ctx.clock.InternalStep,
		Vehicles: ctx.vehicleManager.Views(),
		Light:    ctx.junction.Light(),
	})
	for _, d := range entity.Directions {
		n, ok := raw[d]
		switch {
		case !ok:
			if !ctx.warned[d] {
				log.Warnf("sensor reports no count for %v, treat as 0", d)
				ctx.warned[d] = true
			}
			n = 0
		case n < 0:
			if !ctx.warned[d] {
				log.Warnf("sensor reports negative count %d for %v, treat as 0", n, d)
				ctx.warned[d] = true
			}
			n = 0
		}
		ctx.counts[d] = n
	}
}

// decide 决策时刻的学习与动作选择
// 算法说明：
// 1. 若存在上一次决策，以最近一步奖励更新Q(上一状态, 上一动作)
// 2. 选择动作：默认由智能体按ε-贪心选择；配置示范控制器时由控制器决定
// 3. 动作为切换且信号灯不处于黄灯时请求切换，否则仅记录动作
// 4. 记录本次状态与动作，写入决策轨迹
func (ctx *Context) decide() {
	var updated float64
	if ctx.hasLast {
		updated = ctx.agent.Update(ctx.lastState, ctx.lastAction, ctx.lastReward, ctx.state)
	}

	light := ctx.junction.TrafficLight()
	var action agent.Action
	if ctx.controller != nil {
		action = agent.Hold
		if ctx.controller.Decide(light.Output(), ctx.counts) {
			action = agent.Switch
		}
	} else {
		action = ctx.agent.Observe(ctx.state)
	}
	applied := false
	if action == agent.Switch && !light.Yellow() {
		applied = light.RequestSwitch()
	}
	log.Debugf("step %d: state %v action %v applied %v reward %.0f",
		ctx.clock.InternalStep, ctx.state, action, applied, ctx.lastReward)

	if ctx.recorder != nil {
		table := ctx.agent.Table()
		rec := trace.Record{
			Step:    ctx.clock.InternalStep,
			State:   ctx.state.Key(),
			Action:  int32(action),
			Reward:  ctx.lastReward,
			Applied: applied,
			Updated: updated,
			Hold:    table.Value(ctx.state, agent.Hold),
			Switch:  table.Value(ctx.state, agent.Switch),
		}
		if err := ctx.recorder.Write(rec); err != nil {
			log.Errorf("write trace at step %d: %v", ctx.clock.InternalStep, err)
		}
	}

	ctx.lastState, ctx.lastAction, ctx.hasLast = ctx.state, action, true
}

// Step 执行一步仿真
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// Run 运行
// 功能：循环执行仿真步，直到到达结束步、收到停止指令或runCtx结束，随后保存策略
// 说明：非无头模式下按配置的帧率等待，无头模式下不等待
func (ctx *Context) Run(runCtx context.Context) {
	var tick <-chan time.Time
	if !ctx.config.Control.Headless {
		ticker := time.NewTicker(time.Duration(float64(time.Second) * ctx.clock.DT))
		defer ticker.Stop()
		tick = ticker.C
	}
	log.Infof("engine start at step %d (headless=%v)", ctx.clock.InternalStep, ctx.config.Control.Headless)
	for !ctx.clock.Done() && !ctx.closed.Load() {
		ctx.Step()
		if tick == nil {
			if runCtx.Err() != nil {
				ctx.Stop()
			}
			continue
		}
		select {
		case <-runCtx.Done():
			ctx.Stop()
		case <-tick:
		}
	}
	log.Infof("engine complete")
	ctx.Close()
}
