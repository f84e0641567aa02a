package engine

import (
	"container/heap"

	"github.com/roach88/rotasim/internal/ir"
)

// Timed is anything placed at an instant of simulation time.
type Timed interface {
	At() float64
}

// Queue is a min-priority queue ordered by time, then by push order.
//
// Times are compared at millisecond resolution so that float noise never
// reorders items that the timeline considers simultaneous. Queue is not safe
// for concurrent use.
type Queue[T Timed] struct {
	clock Sequencer
	items queueHeap[T]
}

type queued[T Timed] struct {
	value  T
	millis int64
	seq    int64
}

// NewQueue returns an empty queue stamping items with clock. A nil clock
// gets a private one.
func NewQueue[T Timed](clock Sequencer) *Queue[T] {
	if clock == nil {
		clock = NewClock()
	}
	return &Queue[T]{clock: clock}
}

// Push adds v.
func (q *Queue[T]) Push(v T) {
	heap.Push(&q.items, queued[T]{value: v, millis: ir.Millis(v.At()), seq: q.clock.Next()})
}

// Pop removes and returns the earliest item.
func (q *Queue[T]) Pop() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(&q.items).(queued[T]).value, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns every queued item in pop order without draining the queue.
func (q *Queue[T]) Items() []T {
	cp := make(queueHeap[T], len(q.items))
	copy(cp, q.items)

	out := make([]T, 0, len(cp))
	for len(cp) > 0 {
		out = append(out, heap.Pop(&cp).(queued[T]).value)
	}
	return out
}

type queueHeap[T Timed] []queued[T]

func (h queueHeap[T]) Len() int { return len(h) }

func (h queueHeap[T]) Less(i, j int) bool {
	if h[i].millis != h[j].millis {
		return h[i].millis < h[j].millis
	}
	return h[i].seq < h[j].seq
}

func (h queueHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *queueHeap[T]) Push(x any) { *h = append(*h, x.(queued[T])) }

func (h *queueHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = queued[T]{}
	*h = old[:n-1]
	return it
}
