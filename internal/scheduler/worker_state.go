package scheduler

// workerState is per-worker bookkeeping: the hosts assigned to this
// worker, split into a two-queue round rotation, plus the highest
// barrier this worker has observed so far. Accessed only by its
// owning worker, except that SchedulerPolicy.NextTime may scan it
// read-only — safe in practice because round boundaries are globally
// synchronized by the outer engine (spec §5).
type workerState[H comparable] struct {
	unprocessed []H
	processed   []H

	// allHostsCache caches the concatenation returned by
	// AssignedHosts when both partitions are non-empty. Rebuilt on
	// every call in that case; spec.md documents this as "invalidated
	// (or simply rebuilt) on any partition change" and rebuilding on
	// every dual-non-empty call is the simplest implementation of
	// that rule.
	allHostsCache []H

	currentBarrier SimulationTime
}

func newWorkerState[H comparable]() *workerState[H] {
	return &workerState[H]{
		unprocessed: make([]H, 0),
		processed:   make([]H, 0),
	}
}

// addHost appends h to the tail of unprocessed, as required for a
// freshly registered host to join the current round's work-list.
func (w *workerState[H]) addHost(h H) {
	w.unprocessed = append(w.unprocessed, h)
}

// rotate begins a new round: every host assigned to this worker ends
// up in unprocessed, and processed is left empty. If unprocessed is
// already empty this is an O(1) slice swap; otherwise processed is
// drained onto the tail of unprocessed in order.
func (w *workerState[H]) rotate(barrier SimulationTime) {
	if len(w.unprocessed) == 0 {
		w.unprocessed, w.processed = w.processed, w.unprocessed
	} else {
		w.unprocessed = append(w.unprocessed, w.processed...)
		w.processed = w.processed[:0]
	}
	w.currentBarrier = barrier
}

// headHost returns the host at the head of unprocessed, or the zero
// value and false if unprocessed is empty.
func (w *workerState[H]) headHost() (H, bool) {
	var zero H
	if len(w.unprocessed) == 0 {
		return zero, false
	}
	return w.unprocessed[0], true
}

// advanceHead moves the head of unprocessed to the tail of processed,
// used when a host has no more events before the current barrier.
func (w *workerState[H]) advanceHead() {
	h := w.unprocessed[0]
	w.unprocessed = w.unprocessed[1:]
	w.processed = append(w.processed, h)
}

// assignedHosts returns processed++unprocessed without duplication.
// If one partition is empty the other is returned directly (read-only
// — callers must not mutate it). If both are non-empty the
// concatenation is built into allHostsCache and returned.
func (w *workerState[H]) assignedHosts() []H {
	if len(w.unprocessed) == 0 {
		return w.processed
	}
	if len(w.processed) == 0 {
		return w.unprocessed
	}
	w.allHostsCache = append(w.allHostsCache[:0], w.processed...)
	w.allHostsCache = append(w.allHostsCache, w.unprocessed...)
	return w.allHostsCache
}
