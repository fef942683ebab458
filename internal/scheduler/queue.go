package scheduler

import (
	"container/heap"
	"sync"
)

// eventHeap orders timedEvents by simulation time ascending, breaking
// ties by FIFO sequence number. See the canonical container/heap
// example at https://pkg.go.dev/container/heap#example-package-IntHeap.
type eventHeap []timedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].event.Time() != h[j].event.Time() {
		return h[i].event.Time() < h[j].event.Time()
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(timedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// EventQueue is a thread-safe min-heap of events keyed by simulation
// time, ascending, with FIFO tie-breaking for equal times. One
// EventQueue exists per registered host.
type EventQueue struct {
	mu      sync.Mutex
	heap    eventHeap
	nextSeq uint64
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{heap: make(eventHeap, 0)}
	heap.Init(&q.heap)
	return q
}

// Push inserts event in O(log n). Never fails, never blocks on
// external I/O; briefly contends the queue's own mutex.
func (q *EventQueue) Push(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(&q.heap, timedEvent{event: event, seq: q.nextSeq})
	q.nextSeq++
}

// PopIfBefore removes and returns the minimum-time event if its time
// is strictly less than barrier. Events exactly at barrier remain for
// the next round (the barrier-exclusion rule). Atomic with respect to
// concurrent Push calls on the same queue.
func (q *EventQueue) PopIfBefore(barrier SimulationTime) (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return nil, false
	}
	if q.heap[0].event.Time() >= barrier {
		return nil, false
	}
	item := heap.Pop(&q.heap).(timedEvent)
	return item.event, true
}

// Len returns the current number of queued events. Used for
// observability only; callers must not rely on it for correctness
// since it may be stale the instant after it is read.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// NextEventTime returns the minimum-time event's time, or
// (SimTimeInvalid, false) if empty. The value is a snapshot: it may be
// stale the instant after it is read, but it is only ever compared
// against a barrier that the calling worker itself controls.
func (q *EventQueue) NextEventTime() (SimulationTime, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return SimTimeInvalid, false
	}
	return q.heap[0].event.Time(), true
}
