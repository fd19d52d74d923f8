package container

import (
	"slices"
	"sync"
)

// IIncrementalItem 可放入增量数组的元素，需要记住自己的下标
type IIncrementalItem interface {
	Index() int
	SetIndex(index int)
}

// IncrementalItemBase 嵌入即可实现IIncrementalItem
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：并行tick时可安全地登记增删，在Prepare时统一生效
// 说明：Data()返回的切片在两次Prepare之间不变，元素顺序不保证稳定
type IncrementalArray[T IIncrementalItem] struct {
	data []T

	mtx    sync.Mutex
	add    []T
	remove []T
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{}
}

// Len 已生效的元素数
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 已生效的元素
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 登记新增，Prepare时生效，生效前下标为-1
func (a *IncrementalArray[T]) Add(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	value.SetIndex(-1)
	a.add = append(a.add, value)
}

// Remove 登记删除，Prepare时生效
func (a *IncrementalArray[T]) Remove(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 使登记的增删生效
// 算法说明：
// 1. 待删除元素按下标从大到小处理，用末尾元素填补空位，重复登记的删除只处理一次
// 2. 新增元素追加到末尾并写入下标
func (a *IncrementalArray[T]) Prepare() {
	a.mtx.Lock()
	add, remove := a.add, a.remove
	a.add, a.remove = nil, nil
	a.mtx.Unlock()

	slices.SortFunc(remove, func(x, y T) int {
		return y.Index() - x.Index()
	})
	last := -1
	for _, x := range remove {
		ind := x.Index()
		if ind == last || ind < 0 || ind >= len(a.data) {
			continue
		}
		last = ind
		end := len(a.data) - 1
		a.data[ind] = a.data[end]
		a.data[ind].SetIndex(ind)
		x.SetIndex(-1)
		a.data = a.data[:end]
	}
	for _, x := range add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
}
