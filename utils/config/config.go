package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

const (
	defaultTicksPerSecond   = 60
	defaultWidth            = 800
	defaultHeight           = 800
	defaultRoadWidth        = 100
	defaultStopLineMargin   = 5
	defaultYellowTicks      = 50
	defaultSensorRange      = 200
	defaultVehicleWidth     = 30
	defaultVehicleLength    = 50
	defaultVehicleSpeed     = 3
	defaultSpawnInterval    = 100
	defaultLearningRate     = 0.1
	defaultDiscount         = 0.9
	defaultExploration      = 0.1
	defaultDecisionInterval = 180
	defaultPolicyFile       = "q_table.json"
	defaultPolicyDB         = "intersection"
	defaultPolicyCol        = "policy"
	defaultPolicyName       = "default"
)

// Parse 解析YAML配置数据
// 功能：严格模式解析YAML，未知字段报错，随后补全默认值并检查合法性
// 参数：data-YAML文本
// 返回：补全默认值后的配置，解析或检查失败时返回错误
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config unmarshal: %w", err)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default 返回全部使用默认值的配置
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults 补全默认值
// 功能：将零值字段替换为默认值，返回新的配置
// 说明：探索率与折扣因子允许为0，因此使用指针区分"未设置"与"设置为0"
func (c Config) WithDefaults() Config {
	if c.Control.Step.TicksPerSecond <= 0 {
		c.Control.Step.TicksPerSecond = defaultTicksPerSecond
	}
	j := &c.Junction
	if j.Width <= 0 {
		j.Width = defaultWidth
	}
	if j.Height <= 0 {
		j.Height = defaultHeight
	}
	if j.RoadWidth <= 0 {
		j.RoadWidth = defaultRoadWidth
	}
	if j.StopLineMargin <= 0 {
		j.StopLineMargin = defaultStopLineMargin
	}
	if j.YellowTicks <= 0 {
		j.YellowTicks = defaultYellowTicks
	}
	if j.SensorRange <= 0 {
		j.SensorRange = defaultSensorRange
	}
	v := &c.Vehicle
	if v.Width <= 0 {
		v.Width = defaultVehicleWidth
	}
	if v.Length <= 0 {
		v.Length = defaultVehicleLength
	}
	if v.Speed <= 0 {
		v.Speed = defaultVehicleSpeed
	}
	if c.Spawn.Interval <= 0 {
		c.Spawn.Interval = defaultSpawnInterval
	}
	a := &c.Agent
	if a.LearningRate <= 0 {
		a.LearningRate = defaultLearningRate
	}
	if a.Discount == nil {
		a.Discount = ptr(defaultDiscount)
	}
	if a.Exploration == nil {
		a.Exploration = ptr(defaultExploration)
	}
	if a.DecisionInterval <= 0 {
		a.DecisionInterval = defaultDecisionInterval
	}
	p := &c.Policy
	if p.File == "" {
		p.File = defaultPolicyFile
	}
	if p.DB == "" {
		p.DB = defaultPolicyDB
	}
	if p.Col == "" {
		p.Col = defaultPolicyCol
	}
	if p.Name == "" {
		p.Name = defaultPolicyName
	}
	return c
}

// Validate 检查配置合法性
func (c Config) Validate() error {
	if c.Agent.LearningRate > 1 {
		return fmt.Errorf("agent.learning_rate %v must be in (0, 1]", c.Agent.LearningRate)
	}
	if d := *c.Agent.Discount; d < 0 || d > 1 {
		return fmt.Errorf("agent.discount %v must be in [0, 1]", d)
	}
	if e := *c.Agent.Exploration; e < 0 || e > 1 {
		return fmt.Errorf("agent.exploration %v must be in [0, 1]", e)
	}
	if n := len(c.Spawn.Weights); n != 0 && n != 4 {
		return fmt.Errorf("spawn.weights must have 4 entries (north, south, east, west), got %d", n)
	}
	for _, w := range c.Spawn.Weights {
		if w < 0 {
			return fmt.Errorf("spawn.weights must be non-negative, got %v", c.Spawn.Weights)
		}
	}
	// 停车线判定窗口必须不小于车速，否则车辆可能一步跨过停车线而不被判定
	if c.Junction.StopLineMargin < c.Vehicle.Speed {
		return fmt.Errorf("junction.stop_line_margin %v must not be less than vehicle.speed %v",
			c.Junction.StopLineMargin, c.Vehicle.Speed)
	}
	if 2*c.Junction.RoadWidth >= c.Junction.Width || 2*c.Junction.RoadWidth >= c.Junction.Height {
		return fmt.Errorf("junction.road_width %v too large for %vx%v area",
			c.Junction.RoadWidth, c.Junction.Width, c.Junction.Height)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
