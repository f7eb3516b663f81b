package container

// IIncrementalItem 支持增量更新的元素接口
// 功能：定义支持增量更新的元素必须实现的方法
// 说明：用于增量数组中元素的索引管理，确保元素能够正确跟踪自己在数组中的位置
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 功能：提供增量元素的基础实现，包含索引管理功能
// 说明：可以作为其他结构体的嵌入字段，快速实现IIncrementalItem接口
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IncrementalItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组，支持延迟增删元素的数组
// 功能：读阶段只记录增删请求，Prepare时统一生效，避免遍历过程中修改数组
// 说明：Prepare保持剩余元素的相对顺序，新元素追加在末尾
type IncrementalArray[T IIncrementalItem] struct {
	data   []T          // 主数据数组
	add    []T          // 待添加的元素列表
	remove map[int]bool // 待删除元素的索引集合
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make(map[int]bool),
	}
}

// Len 获取当前数组长度（不含未生效的增删）
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取原始数据
// 说明：返回内部切片，调用方不得修改，也不得跨越Prepare持有
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
// 说明：重复删除同一元素只生效一次
func (a *IncrementalArray[T]) Remove(value T) {
	a.remove[value.Index()] = true
}

// Pending 返回尚未生效的增加数与删除数
func (a *IncrementalArray[T]) Pending() (add int, remove int) {
	return len(a.add), len(a.remove)
}

// Prepare 执行增量操作
// 功能：统一执行所有待处理的删除和添加操作
// 算法说明：
// 1. 原地压缩：跳过待删除索引，保留元素前移并更新索引
// 2. 追加待添加元素并设置索引
// 3. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	if len(a.remove) > 0 {
		kept := a.data[:0]
		for i, x := range a.data {
			if a.remove[i] {
				continue
			}
			x.SetIndex(len(kept))
			kept = append(kept, x)
		}
		// 清理尾部引用，避免内存泄漏
		var zero T
		for i := len(kept); i < len(a.data); i++ {
			a.data[i] = zero
		}
		a.data = kept
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	a.add = a.add[:0]
	clear(a.remove)
}
