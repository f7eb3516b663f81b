package vehicle

import (
	"fmt"
	"image/color"

	"github.com/tsinghua-fib-lab/intersection-rl/entity"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/container"
)

// Palette 车辆可选颜色，颜色不影响行为
var Palette = []color.RGBA{
	{R: 0, G: 0, B: 255, A: 255},
	{R: 200, G: 0, B: 200, A: 255},
	{R: 0, G: 200, B: 200, A: 255},
}

// Vehicle 车辆
// 功能：维护单辆车的位置矩形、朝向、速度与停车状态
// 说明：waitTime为连续停车步数，车辆一旦移动立即清零
type Vehicle struct {
	container.IncrementalItemBase

	id       int32
	rect     entity.Rect
	heading  entity.Direction
	speed    float64
	color    color.RGBA
	stopped  bool
	waitTime int32
}

// New 创建车辆
func New(id int32, rect entity.Rect, heading entity.Direction, speed float64, c color.RGBA) *Vehicle {
	return &Vehicle{
		id:      id,
		rect:    rect,
		heading: heading,
		speed:   speed,
		color:   c,
	}
}

func (v *Vehicle) ID() int32                 { return v.id }
func (v *Vehicle) Rect() entity.Rect         { return v.rect }
func (v *Vehicle) Heading() entity.Direction { return v.heading }
func (v *Vehicle) Stopped() bool             { return v.stopped }
func (v *Vehicle) WaitTime() int32           { return v.waitTime }

// View 只读快照
func (v *Vehicle) View() entity.VehicleView {
	return entity.VehicleView{
		ID:       v.id,
		Rect:     v.rect,
		Heading:  v.heading,
		Stopped:  v.stopped,
		WaitTime: v.waitTime,
		Color:    v.color,
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id=%d, %v, rect=%+v, stopped=%v, wait=%d}",
		v.id, v.heading, v.rect, v.stopped, v.waitTime)
}
