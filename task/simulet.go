package task

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/clock"
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction/sensor"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/vehicle"
	"github.com/tsinghua-fib-lab/intersection-rl/policy"
	"github.com/tsinghua-fib-lab/intersection-rl/trace"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/randengine"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：除快照与关闭标志外，所有状态只由仿真主循环所在的goroutine访问
type Context struct {
	// 运行ID
	runID string
	// 关闭指令
	closed atomic.Bool
	// 保证策略只保存一次
	closeOnce sync.Once

	// 时钟
	clock *clock.Clock
	// 配置
	config config.Config

	// 路口（几何与信号灯）
	junction *junction.Junction
	// 车辆管理器
	vehicleManager *vehicle.Manager
	// 交通检测器
	sensor entity.ISensor
	// Q-learning智能体
	agent *agent.Agent
	// 示范控制器，非空时由其决定是否切换，智能体只做离策略学习
	controller *trafficlight.MaxPressure
	// 策略存储
	store policy.IPolicyStore
	// 决策轨迹，可为空
	recorder *trace.Recorder

	// 上一次决策
	lastState  agent.State
	lastAction agent.Action
	hasLast    bool
	// 最近一步的奖励
	lastReward float64
	// 最近一步的检测结果
	counts map[entity.Direction]int
	state  agent.State
	// 每个方向是否已经报告过检测缺失
	warned [4]bool

	// 已发布的只读快照
	snapshotMu sync.RWMutex
	snapshot   *Snapshot

	// 快照RPC服务
	server *http.Server
}

// Option 创建Context时的可选项
type Option func(*Context)

// WithSensor 使用指定的交通检测器，默认为基于路口几何的区域检测器
func WithSensor(s entity.ISensor) Option {
	return func(ctx *Context) { ctx.sensor = s }
}

// WithStore 使用指定的策略存储，默认按配置创建
func WithStore(s policy.IPolicyStore) Option {
	return func(ctx *Context) { ctx.store = s }
}

// WithRecorder 记录决策轨迹
func WithRecorder(r *trace.Recorder) Option {
	return func(ctx *Context) { ctx.recorder = r }
}

// WithController 由示范控制器决定相位切换
func WithController(c *trafficlight.MaxPressure) Option {
	return func(ctx *Context) { ctx.controller = c }
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件
// 参数：
//   - c: 已补全默认值的配置
//   - runID: 本次运行ID
//   - opts: 可选项
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建时钟、随机数引擎、路口与车辆管理器
// 2. 补全未指定的检测器与策略存储
// 3. 读取已保存的策略，失败时记录警告并从空表开始
// 4. 发布初始快照
func NewContext(c config.Config, runID string, opts ...Option) *Context {
	ctx := &Context{
		runID:  runID,
		config: c,
		clock:  clock.New(c.Control.Step),
		counts: make(map[entity.Direction]int, len(entity.Directions)),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	// 车辆与智能体使用独立的随机数序列，互不影响
	ctx.junction = junction.New(c)
	ctx.vehicleManager = vehicle.NewManager(ctx, randengine.New(c.Control.Seed))
	if ctx.sensor == nil {
		ctx.sensor = sensor.NewRegionSensor(ctx.junction)
	}
	if ctx.store == nil {
		ctx.store = policy.New(c.Policy, runID)
	}
	table, err := ctx.store.Load()
	if err != nil {
		log.Warnf("load policy from %v failed, start with empty table: %v", ctx.store, err)
		table = nil
	}
	ctx.agent = agent.New(table, agent.OptionsFromConfig(c.Agent), randengine.New(c.Control.Seed+1))
	for _, d := range entity.Directions {
		ctx.counts[d] = 0
	}
	ctx.publish()
	log.Infof("run %s: %d q values loaded from %v, agent options %+v",
		ctx.RunID(), ctx.agent.Table().Len(), ctx.store, ctx.agent.Options())
	return ctx
}

// Clock 获取时钟
func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

// Config 获取配置
func (ctx *Context) Config() config.Config {
	return ctx.config
}

// Junction 获取路口
func (ctx *Context) Junction() entity.IJunction {
	return ctx.junction
}

// Agent 获取智能体
func (ctx *Context) Agent() *agent.Agent {
	return ctx.agent
}

// VehicleManager 获取车辆管理器
func (ctx *Context) VehicleManager() *vehicle.Manager {
	return ctx.vehicleManager
}

// RunID 本次运行ID
func (ctx *Context) RunID() string {
	return ctx.runID
}

// Stop 请求停止，当前步完成后退出主循环
// 说明：可在任意goroutine中调用
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

// Close 关闭
// 功能：保存策略并释放资源，多次调用只执行一次
// 说明：保存失败只记录错误，不影响退出
func (ctx *Context) Close() {
	ctx.closeOnce.Do(func() {
		ctx.closed.Store(true)
		if ctx.server != nil {
			if err := ctx.server.Close(); err != nil {
				log.Errorf("close snapshot server: %v", err)
			}
		}
		if err := ctx.store.Save(ctx.agent.Table()); err != nil {
			log.Errorf("save policy to %v failed: %v", ctx.store, err)
		}
		if err := ctx.store.Close(); err != nil {
			log.Errorf("close policy store %v: %v", ctx.store, err)
		}
		if ctx.recorder != nil {
			if err := ctx.recorder.Close(); err != nil {
				log.Errorf("close trace: %v", err)
			}
		}
		spawned, skipped, culled := ctx.vehicleManager.Stats()
		log.Infof("run %s closed at step %d: vehicles spawned=%d skipped=%d culled=%d, q values=%d",
			ctx.RunID(), ctx.clock.InternalStep, spawned, skipped, culled, ctx.agent.Table().Len())
	})
}
