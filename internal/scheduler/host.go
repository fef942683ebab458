package scheduler

import "fmt"

// WorkerID stably identifies a worker goroutine for the lifetime of a
// SchedulerPolicy. Go goroutines have no introspectable identity of
// their own, so callers mint one WorkerID per logical worker at pool
// construction (commonly the worker's index in the pool) and use it
// consistently for every SchedulerPolicy.Worker(id) call made from
// that goroutine.
type WorkerID int64

func (w WorkerID) String() string {
	return fmt.Sprintf("worker-%d", int64(w))
}
