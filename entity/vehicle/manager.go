package vehicle

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/container"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/randengine"
)

// Manager 车辆管理器
// 功能：持有全部活动车辆，负责生成、逐步推进与越界清理
// 说明：增删均为延迟操作，Prepare时统一生效，读阶段不修改集合
type Manager struct {
	ctx entity.ITaskContext

	vehicles *container.IncrementalArray[*Vehicle]
	views    []entity.VehicleView // 当前车辆快照，每次集合或状态变化后刷新
	nextID   int32

	speed        float64
	weights      []float64 // 四个方向的生成权重，为空则均匀
	allowBlocked bool
	generator    *randengine.Engine

	spawned, skipped, culled int64 // 统计
}

// NewManager 创建车辆管理器
// 参数：ctx-任务上下文，generator-随机数引擎（方向与颜色选择）
func NewManager(ctx entity.ITaskContext, generator *randengine.Engine) *Manager {
	c := ctx.Config()
	return &Manager{
		ctx:          ctx,
		vehicles:     container.NewIncrementalArray[*Vehicle](),
		views:        make([]entity.VehicleView, 0),
		speed:        c.Vehicle.Speed,
		weights:      c.Spawn.Weights,
		allowBlocked: c.Spawn.AllowBlocked,
		generator:    generator,
	}
}

// Spawn 按配置的方向分布随机生成一辆车
// 返回：新车辆（下一次Prepare时加入）与是否生成成功
func (m *Manager) Spawn() (*Vehicle, bool) {
	var heading entity.Direction
	if len(m.weights) == len(entity.Directions) {
		heading = entity.Directions[m.generator.DiscreteDistribution(m.weights)]
	} else {
		heading = randengine.Choice(m.generator, entity.Directions)
	}
	return m.SpawnAt(heading)
}

// SpawnAt 在指定方向的出生点生成一辆车
// 功能：出生点被同向车辆占据时跳过本次生成（除非配置允许）
// 返回：新车辆（下一次Prepare时加入）与是否生成成功
func (m *Manager) SpawnAt(heading entity.Direction) (*Vehicle, bool) {
	rect := m.ctx.Junction().SpawnRect(heading)
	if !m.allowBlocked {
		blocked := lo.ContainsBy(m.views, func(o entity.VehicleView) bool {
			return o.Heading == heading && o.Rect.Intersects(rect)
		})
		if blocked {
			m.skipped++
			log.Debugf("step %d: spawn point of %v is blocked, skip", m.ctx.Clock().InternalStep, heading)
			return nil, false
		}
	}
	v := New(m.nextID, rect, heading, m.speed, randengine.Choice(m.generator, Palette))
	m.nextID++
	m.Add(v)
	m.spawned++
	return v, true
}

// Add 加入一辆车（下一次Prepare时生效）
func (m *Manager) Add(v *Vehicle) {
	m.vehicles.Add(v)
}

// Prepare 准备阶段，应用延迟的增删并刷新快照
func (m *Manager) Prepare() {
	m.vehicles.Prepare()
	m.refreshViews()
}

// Update 更新阶段，推进所有车辆一步
// 算法说明：
// 1. 决策：每辆车基于本步开始时的快照独立计算是否停车，结果与遍历顺序无关
// 2. 执行：所有车辆同时应用停车或移动
// 3. 刷新快照
func (m *Manager) Update() {
	j := m.ctx.Junction()
	light := j.Light()
	data := m.vehicles.Data()
	decisions := make([]bool, len(data))
	for i, v := range data {
		decisions[i] = v.resolve(j, light, m.views)
	}
	for i, v := range data {
		v.apply(decisions[i])
	}
	m.refreshViews()
}

// Cull 清理完全离开仿真区域的车辆
// 功能：先标记越界车辆，遍历结束后统一删除
// 返回：本次清理的车辆数
func (m *Manager) Cull() int {
	bounds := m.ctx.Junction().Bounds()
	n := 0
	for _, v := range m.vehicles.Data() {
		if !v.rect.Intersects(bounds) {
			m.vehicles.Remove(v)
			n++
		}
	}
	if n > 0 {
		m.culled += int64(n)
		m.Prepare()
	}
	return n
}

// Vehicles 当前活动车辆
// 说明：返回内部切片，调用方不得修改或持有到下一步
func (m *Manager) Vehicles() []*Vehicle {
	return m.vehicles.Data()
}

// Views 当前车辆快照
func (m *Manager) Views() []entity.VehicleView {
	return m.views
}

// Len 当前活动车辆数
func (m *Manager) Len() int {
	return m.vehicles.Len()
}

// Stats 累计生成、跳过生成与清理的车辆数
func (m *Manager) Stats() (spawned, skipped, culled int64) {
	return m.spawned, m.skipped, m.culled
}

func (m *Manager) refreshViews() {
	m.views = m.views[:0]
	for _, v := range m.vehicles.Data() {
		m.views = append(m.views, v.View())
	}
}
