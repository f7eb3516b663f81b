package junction

import (
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

// Junction 十字路口
// 功能：描述路口几何（区域边界、停车线、出生点、检测区域）并持有信号灯
// 说明：每个方向只有一条进口车道，车道宽度为道路宽度的一半；
// 北行车辆位于中线左侧车道，南行车辆位于中线右侧车道，东行车辆位于中线上方车道，西行车辆位于中线下方车道
type Junction struct {
	cx, cy         float64 // 路口中心
	roadWidth      float64 // 路口中心到路口边界的距离
	laneWidth      float64 // 车道宽度
	stopLineMargin float64 // 停车线判定余量
	sensorRange    float64 // 检测区域长度
	bounds         entity.Rect
	vehicleWidth   float64
	vehicleLength  float64

	trafficLight ITrafficLight // 信号灯模块
}

// New 创建路口
// 功能：根据配置计算路口几何并创建两相位信号灯
// 参数：c-完整配置（需已补全默认值）
// 返回：初始化完成的路口实例
func New(c config.Config) *Junction {
	return NewWithTrafficLight(c, trafficlight.NewPhaseTrafficLight(c.Junction.YellowTicks))
}

// NewWithTrafficLight 使用指定信号灯创建路口
func NewWithTrafficLight(c config.Config, tl ITrafficLight) *Junction {
	j := &Junction{
		cx:             c.Junction.Width / 2,
		cy:             c.Junction.Height / 2,
		roadWidth:      c.Junction.RoadWidth,
		laneWidth:      c.Junction.RoadWidth / 2,
		stopLineMargin: c.Junction.StopLineMargin,
		sensorRange:    c.Junction.SensorRange,
		bounds:         entity.Rect{X: 0, Y: 0, W: c.Junction.Width, H: c.Junction.Height},
		vehicleWidth:   c.Vehicle.Width,
		vehicleLength:  c.Vehicle.Length,
		trafficLight:   tl,
	}
	log.Infof("junction at (%.0f, %.0f), road width %.0f, bounds %.0fx%.0f",
		j.cx, j.cy, j.roadWidth, j.bounds.W, j.bounds.H)
	return j
}

// Bounds 仿真区域边界
func (j *Junction) Bounds() entity.Rect {
	return j.bounds
}

// Box 路口内部区域
func (j *Junction) Box() entity.Rect {
	return entity.Rect{
		X: j.cx - j.roadWidth, Y: j.cy - j.roadWidth,
		W: 2 * j.roadWidth, H: 2 * j.roadWidth,
	}
}

// StopLine 指定方向进口道停车线的坐标
// 说明：北行/南行返回y坐标，东行/西行返回x坐标，即路口内部区域对应的边
func (j *Junction) StopLine(heading entity.Direction) float64 {
	switch heading {
	case entity.North:
		return j.cy + j.roadWidth
	case entity.South:
		return j.cy - j.roadWidth
	case entity.East:
		return j.cx - j.roadWidth
	default:
		return j.cx + j.roadWidth
	}
}

// AtStopLine 车头是否位于停车线判定窗口内
// 功能：判断车辆前沿是否在停车线外侧余量范围内
// 参数：heading-行驶方向，r-车辆矩形
// 返回：true表示位于停车线处
// 说明：只检查停车线窗口，已经驶入路口的车辆不受信号灯约束
func (j *Junction) AtStopLine(heading entity.Direction, r entity.Rect) bool {
	line := j.StopLine(heading)
	m := j.stopLineMargin
	switch heading {
	case entity.North:
		return line <= r.Top() && r.Top() <= line+m
	case entity.South:
		return line-m <= r.Bottom() && r.Bottom() <= line
	case entity.East:
		return line-m <= r.Right() && r.Right() <= line
	default:
		return line <= r.Left() && r.Left() <= line+m
	}
}

// Size 指定方向车辆矩形的宽高
func (j *Junction) Size(heading entity.Direction) (w, h float64) {
	if heading.Axis() == entity.AxisNS {
		return j.vehicleWidth, j.vehicleLength
	}
	return j.vehicleLength, j.vehicleWidth
}

// SpawnRect 指定方向的出生矩形
// 说明：车辆出生在区域边界外侧紧贴边界处，沿所在车道居中
func (j *Junction) SpawnRect(heading entity.Direction) entity.Rect {
	w, h := j.Size(heading)
	offset := (j.laneWidth - j.vehicleWidth) / 2
	switch heading {
	case entity.North:
		return entity.Rect{X: j.cx - j.laneWidth + offset, Y: j.bounds.Bottom(), W: w, H: h}
	case entity.South:
		return entity.Rect{X: j.cx + offset, Y: j.bounds.Top() - h, W: w, H: h}
	case entity.East:
		return entity.Rect{X: j.bounds.Left() - w, Y: j.cy - j.laneWidth + offset, W: w, H: h}
	default:
		return entity.Rect{X: j.bounds.Right(), Y: j.cy + offset, W: w, H: h}
	}
}

// ApproachRegion 指定方向进口道上停车线之前的检测区域
func (j *Junction) ApproachRegion(heading entity.Direction) entity.Rect {
	r, lw := j.sensorRange, j.laneWidth
	switch heading {
	case entity.North:
		return entity.Rect{X: j.cx - lw, Y: j.cy + j.roadWidth, W: lw, H: r}
	case entity.South:
		return entity.Rect{X: j.cx, Y: j.cy - j.roadWidth - r, W: lw, H: r}
	case entity.East:
		return entity.Rect{X: j.cx - j.roadWidth - r, Y: j.cy - lw, W: r, H: lw}
	default:
		return entity.Rect{X: j.cx + j.roadWidth, Y: j.cy, W: r, H: lw}
	}
}

// TrafficLight 信号灯
func (j *Junction) TrafficLight() ITrafficLight {
	return j.trafficLight
}

// Light 当前信号灯输出
func (j *Junction) Light() entity.PhaseOutput {
	return j.trafficLight.Output()
}

// Update 更新阶段，推进信号灯
func (j *Junction) Update() {
	j.trafficLight.Update()
}
