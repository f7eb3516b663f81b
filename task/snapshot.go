package task

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshot 每步结束时发布的只读快照，供展示层与RPC读取
type Snapshot struct {
	Step      int32
	Time      float64
	Vehicles  []entity.VehicleView
	Light     entity.PhaseOutput
	Phase     int32
	Yellow    bool
	Remaining int32 // 黄灯剩余步数
	Counts    map[entity.Direction]int
	State     agent.State
	Reward    float64
	// 上一次决策的动作，HasAction为false时无效
	LastAction agent.Action
	HasAction  bool
	QSize      int
}

// publish 发布快照
// 说明：快照中的切片与映射均为拷贝，发布后不再修改
func (ctx *Context) publish() {
	light := ctx.junction.TrafficLight()
	s := &Snapshot{
		Step:       ctx.clock.InternalStep,
		Time:       ctx.clock.T,
		Vehicles:   slices.Clone(ctx.vehicleManager.Views()),
		Light:      light.Output(),
		Phase:      light.Phase(),
		Yellow:     light.Yellow(),
		Remaining:  light.RemainingTime(),
		Counts:     maps.Clone(ctx.counts),
		State:      ctx.state,
		Reward:     ctx.lastReward,
		LastAction: ctx.lastAction,
		HasAction:  ctx.hasLast,
		QSize:      ctx.agent.Table().Len(),
	}
	ctx.snapshotMu.Lock()
	ctx.snapshot = s
	ctx.snapshotMu.Unlock()
}

// Snapshot 获取最近一次发布的快照
func (ctx *Context) Snapshot() *Snapshot {
	ctx.snapshotMu.RLock()
	defer ctx.snapshotMu.RUnlock()
	return ctx.snapshot
}

// ToStruct 转换为protobuf Struct
func (s *Snapshot) ToStruct() (*structpb.Struct, error) {
	vehicles := lo.Map(s.Vehicles, func(v entity.VehicleView, _ int) any {
		return map[string]any{
			"id":        v.ID,
			"x":         v.Rect.X,
			"y":         v.Rect.Y,
			"width":     v.Rect.W,
			"height":    v.Rect.H,
			"heading":   v.Heading.String(),
			"stopped":   v.Stopped,
			"wait_time": v.WaitTime,
			"color":     fmt.Sprintf("#%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B),
		}
	})
	counts := make(map[string]any, len(s.Counts))
	for d, n := range s.Counts {
		counts[d.String()] = n
	}
	fields := map[string]any{
		"step":      s.Step,
		"time":      s.Time,
		"vehicles":  vehicles,
		"light":     map[string]any{"ns": s.Light.NS.String(), "ew": s.Light.EW.String()},
		"phase":     s.Phase,
		"yellow":    s.Yellow,
		"remaining": s.Remaining,
		"counts":    counts,
		"state":     s.State.Key(),
		"reward":    s.Reward,
		"q_size":    s.QSize,
	}
	if s.HasAction {
		fields["last_action"] = int32(s.LastAction)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("snapshot to struct: %w", err)
	}
	return st, nil
}
