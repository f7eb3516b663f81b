package config

// ControlStep 指定模拟器模拟步数范围和频率的配置项
// 功能：定义仿真时间控制参数
// 说明：Total为0表示无限运行，直到收到外部停止信号
type ControlStep struct {
	Start          int32   `yaml:"start"`            // 开始步数
	Total          int32   `yaml:"total"`            // 总步数（0为不限）
	TicksPerSecond float64 `yaml:"ticks_per_second"` // 每秒步数（实时模式下的目标帧率）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：包含时间控制、随机种子、是否无头运行等配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Headless bool        `yaml:"headless,omitempty"` // 无头模式，不按帧率等待，用于离线训练
	Seed     uint64      `yaml:"seed,omitempty"`     // 随机数种子
}

// Junction 路口几何与信号灯配置
type Junction struct {
	Width          float64 `yaml:"width"`            // 仿真区域宽度（像素）
	Height         float64 `yaml:"height"`           // 仿真区域高度（像素）
	RoadWidth      float64 `yaml:"road_width"`       // 路口中心到路口边界的距离，即单向道路宽度
	StopLineMargin float64 `yaml:"stop_line_margin"` // 停车线判定余量
	YellowTicks    int32   `yaml:"yellow_ticks"`     // 黄灯持续步数
	SensorRange    float64 `yaml:"sensor_range"`     // 检测器感兴趣区域长度
}

// Vehicle 车辆配置
type Vehicle struct {
	Width  float64 `yaml:"width"`  // 车宽
	Length float64 `yaml:"length"` // 车长
	Speed  float64 `yaml:"speed"`  // 每步移动距离
}

// Spawn 车辆生成配置
type Spawn struct {
	Interval     int32     `yaml:"interval"`                // 生成间隔步数
	Weights      []float64 `yaml:"weights,omitempty"`       // 北、南、东、西四个方向的生成权重，为空则均匀
	AllowBlocked bool      `yaml:"allow_blocked,omitempty"` // 出生点被同向车辆占据时仍然生成
}

// Agent Q-learning智能体配置
type Agent struct {
	LearningRate     float64  `yaml:"learning_rate"`         // 学习率α
	Discount         *float64 `yaml:"discount,omitempty"`    // 折扣因子γ
	Exploration      *float64 `yaml:"exploration,omitempty"` // 探索率ε
	DecisionInterval int32    `yaml:"decision_interval"`     // 决策间隔步数
}

// Policy 策略（Q表）存储配置
// 说明：URI非空时使用MongoDB存储，否则使用本地文件
type Policy struct {
	File string `yaml:"file"`           // 本地文件路径
	URI  string `yaml:"uri,omitempty"`  // MongoDB连接字符串
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	Name string `yaml:"name,omitempty"` // 策略名，作为文档_id
}

// GetDb 获取数据库名
func (p Policy) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p Policy) GetColl() string {
	return p.Col
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含控制、路口、车辆、生成、智能体、策略存储等所有配置项
type Config struct {
	Control  Control  `yaml:"control"`  // 模拟过程控制
	Junction Junction `yaml:"junction"` // 路口
	Vehicle  Vehicle  `yaml:"vehicle"`  // 车辆
	Spawn    Spawn    `yaml:"spawn"`    // 车辆生成
	Agent    Agent    `yaml:"agent"`    // 智能体
	Policy   Policy   `yaml:"policy"`   // 策略存储
}
