package scheduler

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// SchedulerPolicy is the top-level registry: host->queue, host->worker,
// worker->workerState. It is generic over H, the host handle type —
// any comparable type works; the scheduler only ever uses it as a map
// key and never inspects it.
//
// host_to_queue and host_to_worker are populated only during
// registration (a single-threaded prologue, or externally serialized
// calls to AddHost) and are immutable thereafter, so reads outside
// AddHost take no lock. worker_to_state entries are likewise created
// only during registration; each is then accessed only by its owning
// worker, except for the read-only scan in NextTime that the outer
// engine schedules at round boundaries (spec §5).
type SchedulerPolicy[H comparable] struct {
	regMu sync.Mutex // serializes AddHost only

	hostToQueue   map[H]*EventQueue
	hostToWorker  map[H]WorkerID
	workerToState map[WorkerID]*workerState[H]

	metrics Recorder
}

// New returns an empty policy. metrics may be nil, in which case
// scheduler events are simply not recorded.
func New[H comparable](metrics Recorder) *SchedulerPolicy[H] {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &SchedulerPolicy[H]{
		hostToQueue:   make(map[H]*EventQueue),
		hostToWorker:  make(map[H]WorkerID),
		workerToState: make(map[WorkerID]*workerState[H]),
		metrics:       metrics,
	}
}

// HostOwner returns the worker host was registered against, and
// whether host is registered at all. This is a read-only view of the
// host_to_worker map (spec §3); it exists for introspection by the
// outer engine and by tests asserting invariant 3, not for use in the
// scheduling hot path.
func (p *SchedulerPolicy[H]) HostOwner(host H) (WorkerID, bool) {
	id, ok := p.hostToWorker[host]
	return id, ok
}

// Worker returns a view of the policy bound to id. Every per-worker
// operation (AddHost, Pop, NextTime, AssignedHosts) is a method on
// this view — see the Open Question (a) resolution in SPEC_FULL.md for
// why there is no free function that guesses the calling goroutine.
func (p *SchedulerPolicy[H]) Worker(id WorkerID) *Worker[H] {
	return &Worker[H]{id: id, policy: p}
}

// stateFor returns (creating if necessary) the workerState for id.
// Only called while holding regMu, from AddHost.
func (p *SchedulerPolicy[H]) stateFor(id WorkerID) *workerState[H] {
	st, ok := p.workerToState[id]
	if !ok {
		st = newWorkerState[H]()
		p.workerToState[id] = st
	}
	return st
}

// Worker is a per-worker-goroutine view onto a SchedulerPolicy. All
// its methods must only ever be called from the single goroutine that
// owns id. Pop, NextTime and AssignedHosts only ever walk the hosts in
// id's own partitions, so they cannot touch another worker's hosts;
// NextHostEventTime and Push accept any registered host and do not
// check which worker owns it.
type Worker[H comparable] struct {
	id     WorkerID
	policy *SchedulerPolicy[H]
}

// ID returns the WorkerID this view is bound to.
func (w *Worker[H]) ID() WorkerID { return w.id }

// AddHost registers host, assigning it to this worker if
// preferredWorker is not supplied, or to preferredWorker otherwise.
// Must be called before any Push/Pop touches host. Must be externally
// serialized with respect to other AddHost calls (or all calls made
// before workers start). Idempotent on the queue map: a duplicate
// AddHost for an already-registered host does not create a new queue,
// but does append host to the target worker's unprocessed list — do
// not register the same host twice.
func (w *Worker[H]) AddHost(host H, preferredWorker ...WorkerID) {
	p := w.policy
	p.regMu.Lock()
	defer p.regMu.Unlock()

	target := w.id
	if len(preferredWorker) > 0 {
		target = preferredWorker[0]
	}

	if _, ok := p.hostToQueue[host]; !ok {
		p.hostToQueue[host] = NewEventQueue()
	}

	st := p.stateFor(target)
	st.addHost(host)
	p.hostToWorker[host] = target
}

// Push enqueues event to dstHost's queue, applying the causality rule:
// if srcHost != dstHost and event.Time() < barrier, event's time is
// rewritten to barrier before insertion. Events to the same host are
// never rewritten. Returns the final (possibly rewritten) event time.
// Fatal if dstHost has no registered queue.
func (w *Worker[H]) Push(event Event, srcHost, dstHost H, barrier SimulationTime) SimulationTime {
	p := w.policy

	rewritten := false
	if !hostsEqual(srcHost, dstHost) && event.Time() < barrier {
		event.SetTime(barrier)
		rewritten = true
		logrus.WithFields(logrus.Fields{
			"barrier": uint64(barrier),
		}).Debug("inter-host event time rewritten to ensure causality")
	}

	q, ok := p.hostToQueue[dstHost]
	if !ok {
		misusef("push to unregistered host %v", logrus.Fields{"host": fmt.Sprint(dstHost)}, dstHost)
	}

	q.Push(event)

	finalTime := event.Time()
	p.metrics.EventPushed(rewritten)
	p.metrics.QueueDepth(fmt.Sprint(dstHost), q.Len())
	return finalTime
}

// hostsEqual compares two host handles for identity. H is comparable
// so == is well-defined and is by construction identity comparison
// for pointer/int/string handles alike.
func hostsEqual[H comparable](a, b H) bool { return a == b }

// Pop returns the next due event for one of this worker's hosts, or
// (nil, false) if none is due before barrier. See spec §4.3.3 for the
// full round-rotation and drain-loop algorithm this implements.
func (w *Worker[H]) Pop(barrier SimulationTime) (Event, bool) {
	p := w.policy
	st, ok := p.workerToState[w.id]
	if !ok {
		return nil, false
	}

	if barrier > st.currentBarrier {
		st.rotate(barrier)
		p.metrics.RoundStarted(w.id, barrier)
	}

	for {
		host, ok := st.headHost()
		if !ok {
			return nil, false
		}

		q, ok := p.hostToQueue[host]
		if !ok {
			misusef("worker %s owns host %v with no registered queue",
				logrus.Fields{"worker": w.id.String()}, w.id, host)
		}

		if event, popped := q.PopIfBefore(barrier); popped {
			p.metrics.EventPopped()
			p.metrics.QueueDepth(fmt.Sprint(host), q.Len())
			return event, true
		}

		st.advanceHead()
	}
}

// NextHostEventTime returns host's next event time translated to
// emulated time, or (EmuTimeInvalid, false) if its queue is empty.
// Fatal if host has no registered queue.
func (w *Worker[H]) NextHostEventTime(host H, startEpoch EmulatedTime) (EmulatedTime, bool) {
	q, ok := w.policy.hostToQueue[host]
	if !ok {
		misusef("next-event-time query for unregistered host %v", logrus.Fields{"host": fmt.Sprint(host)}, host)
	}
	simTime, ok := q.NextEventTime()
	if !ok {
		return EmuTimeInvalid, false
	}
	return AddEpoch(simTime, startEpoch), true
}

// CurrentHost returns the host at the head of this worker's
// unprocessed partition — the host the most recent successful Pop
// drained from, and the one the next Pop call will continue draining
// (spec §4.3.3: "leave h at the head"). Returns false if this worker
// has no unprocessed hosts left in the current round.
func (w *Worker[H]) CurrentHost() (H, bool) {
	st, ok := w.policy.workerToState[w.id]
	if !ok {
		var zero H
		return zero, false
	}
	return st.headHost()
}

// NextTime returns the minimum next-event-time across all hosts owned
// by this worker (scanning both partitions), or SimTimeMax if none has
// events. Does not alter any queue or partition.
func (w *Worker[H]) NextTime() SimulationTime {
	p := w.policy
	st, ok := p.workerToState[w.id]
	if !ok {
		return SimTimeMax
	}

	minTime := SimTimeMax
	scan := func(hosts []H) {
		for _, h := range hosts {
			q, ok := p.hostToQueue[h]
			if !ok {
				continue
			}
			if t, ok := q.NextEventTime(); ok && t < minTime {
				minTime = t
			}
		}
	}
	scan(st.unprocessed)
	scan(st.processed)
	return minTime
}

// AssignedHosts returns this worker's concatenated host list
// (processed then unprocessed), without duplication. The returned
// slice is read-only and valid only until the next call into the
// scheduler from this worker.
func (w *Worker[H]) AssignedHosts() []H {
	st, ok := w.policy.workerToState[w.id]
	if !ok {
		return nil
	}
	return st.assignedHosts()
}
