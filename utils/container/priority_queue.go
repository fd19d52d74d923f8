package container

import "container/heap"

// entry 队列项，seq为入队序号
type entry[T any] struct {
	value    T
	priority float64
	seq      uint64
}

type entries[T any] []entry[T]

func (h entries[T]) Len() int { return len(h) }

// 优先级相同时先入队的先出队，使搜索结果与运行环境无关
func (h entries[T]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entries[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entries[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	var zero entry[T]
	old[n-1] = zero
	*h = old[:n-1]
	return e
}

// PriorityQueue 最小优先队列
// 功能：A*的open集合，优先级数值越小越先出队
// 说明：不支持修改优先级，同一元素可以重复入队，由调用方在出队时跳过旧项
type PriorityQueue[T any] struct {
	h   entries[T]
	seq uint64
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Len 队列长度
func (q *PriorityQueue[T]) Len() int {
	return len(q.h)
}

// Peek 查看队首元素，队列为空时返回false
func (q *PriorityQueue[T]) Peek() (value T, priority float64, ok bool) {
	if len(q.h) == 0 {
		return value, 0, false
	}
	return q.h[0].value, q.h[0].priority, true
}

// Push 入队
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	heap.Push(&q.h, entry[T]{value: value, priority: priority, seq: q.seq})
	q.seq++
}

// Pop 弹出优先级数值最小的元素，队列为空时panic
func (q *PriorityQueue[T]) Pop() (value T, priority float64) {
	e := heap.Pop(&q.h).(entry[T])
	return e.value, e.priority
}
