package entity

import (
	"fmt"
	"image/color"
)

// Direction 车辆行驶方向（车头朝向）
type Direction int32

const (
	North Direction = iota // 向北行驶（屏幕向上）
	South                  // 向南行驶（屏幕向下）
	East                   // 向东行驶（屏幕向右）
	West                   // 向西行驶（屏幕向左）
)

// Directions 全部方向，按固定顺序排列
var Directions = []Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return fmt.Sprintf("Direction(%d)", int32(d))
	}
}

// Axis 方向所属的轴
func (d Direction) Axis() Axis {
	if d == North || d == South {
		return AxisNS
	}
	return AxisEW
}

// Unit 方向对应的单位位移（屏幕坐标系，y轴向下）
func (d Direction) Unit() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	default:
		return -1, 0
	}
}

// Axis 一对相向的进口道，南北或东西
type Axis int32

const (
	AxisNS Axis = iota // 南北轴
	AxisEW             // 东西轴
)

func (a Axis) String() string {
	if a == AxisNS {
		return "ns"
	}
	return "ew"
}

// Other 另一个轴
func (a Axis) Other() Axis {
	return 1 - a
}

// LightState 单个轴的信号灯状态
type LightState int32

const (
	LightRed    LightState = iota // 禁止通行
	LightGreen                    // 允许通行
	LightYellow                   // 即将变为红灯
)

func (s LightState) String() string {
	switch s {
	case LightGreen:
		return "green"
	case LightYellow:
		return "yellow"
	default:
		return "red"
	}
}

// PhaseOutput 信号灯在某一步对两个轴的输出
// 说明：任何时刻至多一个轴为绿灯，黄灯期间另一个轴必为红灯
type PhaseOutput struct {
	NS LightState
	EW LightState
}

// Of 获取指定轴的灯色
func (o PhaseOutput) Of(axis Axis) LightState {
	if axis == AxisNS {
		return o.NS
	}
	return o.EW
}

// Valid 检查输出是否满足互斥约束
func (o PhaseOutput) Valid() bool {
	switch {
	case o.NS == LightGreen && o.EW == LightGreen:
		return false
	case o.NS == LightYellow && o.EW != LightRed:
		return false
	case o.EW == LightYellow && o.NS != LightRed:
		return false
	}
	return true
}

// Rect 轴对齐矩形，(X, Y)为左上角
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Translate 平移
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersects 闭区间相交检测，边界接触也算相交
func (r Rect) Intersects(o Rect) bool {
	return r.Left() <= o.Right() && o.Left() <= r.Right() &&
		r.Top() <= o.Bottom() && o.Top() <= r.Bottom()
}

// Overlaps 开区间相交检测，要求重叠面积为正
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// VehicleView 车辆的只读快照，供传感器与展示层使用
type VehicleView struct {
	ID       int32
	Rect     Rect
	Heading  Direction
	Stopped  bool
	WaitTime int32
	Color    color.RGBA
}

// WorldSnapshot 某一步结束时的世界快照
type WorldSnapshot struct {
	Step     int32
	Vehicles []VehicleView
	Light    PhaseOutput
}
