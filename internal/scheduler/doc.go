// Package scheduler implements the per-host parallel discrete-event
// scheduler policy at the heart of a network simulator.
//
// # Reading Guide
//
// Start with these files to understand the scheduling kernel:
//   - time.go: SimulationTime / EmulatedTime and their sentinels
//   - event.go: the Event interface hosts' payloads must satisfy
//   - queue.go: EventQueue, the per-host thread-safe priority queue
//   - worker_state.go: workerState, the two-partition round rotation
//   - policy.go: SchedulerPolicy, the registry tying the above together
//
// # Architecture
//
// SchedulerPolicy owns one EventQueue per registered host and one
// workerState per worker. A worker goroutine calls Pop to drain its
// assigned hosts in round-robin-by-locality order, executes the event
// outside the scheduler, and may call Push to enqueue new events —
// possibly to a host owned by a different worker. The causality rule
// in Push (§4.3.2) is what keeps cross-host event ordering correct
// despite each worker draining a host to completion before moving on.
//
// The package is generic over the host handle type H (any comparable
// type — callers commonly use a pointer, a string, or an integer id)
// so that embedding simulators are free to choose their own host
// representation; the scheduler never inspects H beyond using it as a
// map key.
package scheduler
