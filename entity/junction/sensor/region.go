// 基于感兴趣区域的交通检测器
// 在每个进口道停车线之前划定一块检测区域，统计与区域重叠的车辆数
package sensor

import (
	"github.com/tsinghua-fib-lab/intersection-rl/entity"
)

// IRegionProvider 检测区域提供者
type IRegionProvider interface {
	ApproachRegion(heading entity.Direction) entity.Rect
}

// RegionSensor 区域检测器
// 功能：统计每个方向检测区域内的车辆数，输出包含全部四个方向
// 说明：不区分车辆朝向，与基于画面的检测一样只关心区域内是否有车
type RegionSensor struct {
	regions map[entity.Direction]entity.Rect
}

// NewRegionSensor 根据路口几何创建区域检测器
func NewRegionSensor(p IRegionProvider) *RegionSensor {
	s := &RegionSensor{regions: make(map[entity.Direction]entity.Rect, len(entity.Directions))}
	for _, d := range entity.Directions {
		s.regions[d] = p.ApproachRegion(d)
	}
	return s
}

// Regions 各方向检测区域，供展示层绘制
func (s *RegionSensor) Regions() map[entity.Direction]entity.Rect {
	return s.regions
}

// Sense 统计各方向检测区域内的车辆数
func (s *RegionSensor) Sense(world entity.WorldSnapshot) map[entity.Direction]int {
	counts := make(map[entity.Direction]int, len(s.regions))
	for d, region := range s.regions {
		counts[d] = 0
		for _, v := range world.Vehicles {
			if v.Rect.Overlaps(region) {
				counts[d]++
			}
		}
	}
	return counts
}
