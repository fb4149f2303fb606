// Package container holds a generic priority queue, the min-heap the
// simulator's discrete event loop is built on.
package container

import "container/heap"

// item is one element of the underlying heap: a value plus the
// priority it was pushed with. index is maintained by heap.Interface
// and isn't meaningful to callers.
type item[T any] struct {
	Value    T
	Priority float64
	index    int
}

// priorityQueue implements heap.Interface; Less orders by ascending
// priority so Pop always returns the smallest value (earliest time, in
// the event loop's use of it).
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

func (pq priorityQueue[T]) Less(i, j int) bool {
	return pq[i].Priority < pq[j].Priority
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	n := len(*pq)
	it := x.(*item[T])
	it.index = n
	*pq = append(*pq, it)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[0 : n-1]
	return it
}

// PriorityQueue is a min-heap keyed on a float64 priority. The event
// loop uses it with priority = (simulated seconds, tiebreaker) packed
// into a single float64 so two events at the same timestamp still
// resolve deterministically (§5).
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

func (q *PriorityQueue[T]) Len() int { return len(q.queue) }

// Peek returns the minimum-priority value without removing it.
func (q *PriorityQueue[T]) Peek() T {
	return q.queue[0].Value
}

// PeekPriority returns the minimum priority currently queued.
func (q *PriorityQueue[T]) PeekPriority() float64 {
	return q.queue[0].Priority
}

// Push inserts value maintaining the heap invariant.
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{Value: value, Priority: priority})
}

// Pop removes and returns the minimum-priority value.
func (q *PriorityQueue[T]) Pop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.Value, it.Priority
}
