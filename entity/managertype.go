package entity

// 依赖倒置，表达各模块之间的接口需求

// entity/junction/junction.go的依赖倒置，给车辆提供的路口几何与信控读取接口
type IJunction interface {
	Bounds() Rect                              // 仿真区域边界
	AtStopLine(heading Direction, r Rect) bool // 车头是否位于停车线判定窗口内
	SpawnRect(heading Direction) Rect          // 指定方向的出生矩形
	Light() PhaseOutput                        // 当前信号灯输出
}

// 交通检测器接口（外部协作者），将世界快照转换为各方向车辆数
// 返回的映射可能缺少某些方向，调用方按0处理
type ISensor interface {
	Sense(world WorldSnapshot) map[Direction]int
}
