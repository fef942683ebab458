package scheduler

import (
	"sync"
	"testing"
)

func TestEventQueue_PopIfBefore_ReturnsMinimumTimeFirst(t *testing.T) {
	q := NewEventQueue()
	q.Push(ev(3))
	q.Push(ev(1))
	q.Push(ev(2))

	for _, want := range []uint64{1, 2, 3} {
		got, ok := q.PopIfBefore(100)
		if !ok {
			t.Fatalf("PopIfBefore: expected an event at time %d, got none", want)
		}
		if got.Time() != SimulationTime(want) {
			t.Errorf("PopIfBefore: got time %d, want %d", got.Time(), want)
		}
	}

	if _, ok := q.PopIfBefore(100); ok {
		t.Errorf("PopIfBefore on drained queue: expected none")
	}
}

func TestEventQueue_PopIfBefore_StrictLessThan(t *testing.T) {
	q := NewEventQueue()
	q.Push(ev(10))

	// event.time == barrier is not returned (barrier-exclusion rule)
	if _, ok := q.PopIfBefore(10); ok {
		t.Errorf("PopIfBefore(10) on event at time 10: expected none, barrier is exclusive")
	}
	got, ok := q.PopIfBefore(11)
	if !ok || got.Time() != 10 {
		t.Errorf("PopIfBefore(11): got (%v, %v), want (10, true)", got, ok)
	}
}

func TestEventQueue_FIFOTieBreak(t *testing.T) {
	q := NewEventQueue()
	first := ev(5)
	second := ev(5)
	third := ev(5)
	q.Push(first)
	q.Push(second)
	q.Push(third)

	for _, want := range []*testEvent{first, second, third} {
		got, ok := q.PopIfBefore(100)
		if !ok || got != Event(want) {
			t.Errorf("FIFO tie-break: got %p, want %p", got, want)
		}
	}
}

func TestEventQueue_NextEventTime_EmptyQueue(t *testing.T) {
	q := NewEventQueue()
	if _, ok := q.NextEventTime(); ok {
		t.Errorf("NextEventTime on empty queue: expected (SimTimeInvalid, false)")
	}
}

func TestEventQueue_NextEventTime_DoesNotMutate(t *testing.T) {
	q := NewEventQueue()
	q.Push(ev(7))

	if _, ok := q.NextEventTime(); !ok {
		t.Fatalf("NextEventTime: expected an event")
	}
	if q.Len() != 1 {
		t.Errorf("NextEventTime mutated queue: Len() = %d, want 1", q.Len())
	}
}

func TestEventQueue_ConcurrentPushPop(t *testing.T) {
	q := NewEventQueue()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(t uint64) {
			defer wg.Done()
			q.Push(ev(t))
		}(uint64(i))
	}
	wg.Wait()

	if q.Len() != n {
		t.Fatalf("after concurrent pushes: Len() = %d, want %d", q.Len(), n)
	}

	seen := 0
	lastTime := SimulationTime(0)
	for {
		got, ok := q.PopIfBefore(SimTimeMax)
		if !ok {
			break
		}
		if got.Time() < lastTime {
			t.Errorf("pop order not non-decreasing: got %d after %d", got.Time(), lastTime)
		}
		lastTime = got.Time()
		seen++
	}
	if seen != n {
		t.Errorf("popped %d events, want %d", seen, n)
	}
}
