// Package harness drives a synthetic multi-host workload through a
// scheduler.SchedulerPolicy, standing in for the "outer engine"
// spec.md treats as an opaque collaborator: it picks barriers, owns
// the worker pool, and decides what an event "does" when popped.
package harness

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/netsim/hostsched/internal/config"
	"github.com/netsim/hostsched/internal/scheduler"
)

// Summary reports what a Run accomplished, for the CLI to print.
type Summary struct {
	Rounds          int
	EventsProcessed uint64
	CrossHostPushes uint64
	FinalBarrier    scheduler.SimulationTime
	// NextEmulatedTime is the earliest still-pending event across all
	// hosts once the run stops, translated to emulated time via
	// cfg.StartEpoch (scheduler.AddEpoch), or scheduler.EmuTimeInvalid
	// if every queue drained.
	NextEmulatedTime scheduler.EmulatedTime
}

// Run builds a SchedulerPolicy for cfg's synthetic topology, seeds
// each host's queue, and advances it through cfg.Rounds barrier
// rounds using a pool of cfg.Workers goroutines coordinated by an
// errgroup.Group, matching the fan-out/fan-in idiom this codebase
// otherwise implements by hand with sync.WaitGroup.
func Run(ctx context.Context, cfg config.RunConfig, metrics scheduler.Recorder) (Summary, error) {
	policy := scheduler.New[HostID](metrics)
	hosts := assignHosts(policy, cfg)

	rng := rand.New(rand.NewSource(42))
	seedHosts(policy, hosts, cfg, rng)

	var summary Summary
	summary.Rounds = cfg.Rounds

	// workerIDs is fixed for the life of the run, so each position i
	// always belongs to the same worker across rounds: every g.Go
	// goroutine below writes only to its own index of the counts
	// slices, never to a key another goroutine might also touch, which
	// a shared map (even keyed distinctly per worker) cannot guarantee
	// — concurrent writes to a Go map are unsafe regardless of key.
	workerIDs := make([]scheduler.WorkerID, 0, len(hosts))
	for workerID := range hosts {
		workerIDs = append(workerIDs, workerID)
	}
	processedCounts := make([]uint64, len(workerIDs))
	crossCounts := make([]uint64, len(workerIDs))

	for round := 1; round <= cfg.Rounds; round++ {
		barrier := scheduler.SimulationTime(uint64(round) * cfg.RoundDuration)

		g, gctx := errgroup.WithContext(ctx)
		for i, workerID := range workerIDs {
			i, id := i, workerID
			rng := rand.New(rand.NewSource(rng.Int63()))
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				processed, crossHost := drainWorker(policy, id, barrier, rng)
				processedCounts[i] += processed
				crossCounts[i] += crossHost
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return summary, fmt.Errorf("harness: round %d: %w", round, err)
		}
		summary.FinalBarrier = barrier
		logrus.WithFields(logrus.Fields{
			"round":   round,
			"barrier": uint64(barrier),
		}).Debug("round complete")
	}

	for _, n := range processedCounts {
		summary.EventsProcessed += n
	}
	for _, n := range crossCounts {
		summary.CrossHostPushes += n
	}
	summary.NextEmulatedTime = earliestPendingEmulatedTime(policy, hosts, cfg)
	return summary, nil
}

// earliestPendingEmulatedTime scans every host's queue for its next
// event time and returns the minimum, translated to emulated time via
// cfg.StartEpoch. This is the only caller of Worker.NextHostEventTime
// in the demo harness, exercising the epoch-translation path
// (scheduler.AddEpoch) that a full simulation run would otherwise
// leave dead.
func earliestPendingEmulatedTime(policy *scheduler.SchedulerPolicy[HostID], hosts map[scheduler.WorkerID][]HostID, cfg config.RunConfig) scheduler.EmulatedTime {
	epoch := scheduler.EmulatedTime(cfg.StartEpoch)
	min := scheduler.EmuTimeInvalid
	for workerID, workerHosts := range hosts {
		w := policy.Worker(workerID)
		for _, host := range workerHosts {
			t, ok := w.NextHostEventTime(host, epoch)
			if ok && (min == scheduler.EmuTimeInvalid || t < min) {
				min = t
			}
		}
	}
	return min
}

// drainWorker pops every event due before barrier for worker id,
// processing each one. Processing either re-schedules a same-host
// follow-up (advancing that host's local clock) or emits a cross-host
// message to a randomly chosen destination, exercising the causality
// rewrite in SchedulerPolicy.Push.
func drainWorker[H comparable](policy *scheduler.SchedulerPolicy[H], id scheduler.WorkerID, barrier scheduler.SimulationTime, rng *rand.Rand) (processed, crossHost uint64) {
	w := policy.Worker(id)
	for {
		event, ok := w.Pop(barrier)
		if !ok {
			return processed, crossHost
		}
		processed++

		de, ok := event.(*demoEvent)
		if !ok {
			continue
		}

		self, ok := w.CurrentHost()
		if !ok {
			continue
		}
		hosts := w.AssignedHosts()

		if rng.Intn(4) == 0 && len(hosts) > 1 {
			dst := hosts[rng.Intn(len(hosts))]
			w.Push(newDemoEvent(de.Time()+1, "message"), self, dst, barrier)
			if dst != self {
				crossHost++
			}
		} else {
			next := de.Time() + scheduler.SimulationTime(1+rng.Intn(3))
			w.Push(newDemoEvent(next, "tick"), self, self, barrier)
		}
	}
}

// assignHosts registers every host cfg names — either the explicit
// Pins list or Hosts synthetic hosts assigned round-robin — and
// returns, per worker id, the hosts assigned to it (for the demo's own
// bookkeeping; SchedulerPolicy tracks the authoritative assignment).
func assignHosts(policy *scheduler.SchedulerPolicy[HostID], cfg config.RunConfig) map[scheduler.WorkerID][]HostID {
	registrar := policy.Worker(0)
	out := make(map[scheduler.WorkerID][]HostID)

	for w := 0; w < cfg.Workers; w++ {
		out[scheduler.WorkerID(w)] = nil
	}

	if len(cfg.Pins) > 0 {
		for _, pin := range cfg.Pins {
			host := NewHostID(pin.Host)
			target := scheduler.WorkerID(pin.Worker)
			registrar.AddHost(host, target)
			out[target] = append(out[target], host)
		}
		return out
	}

	for i := 0; i < cfg.Hosts; i++ {
		host := NewHostID(fmt.Sprintf("host-%d", i))
		target := scheduler.WorkerID(i % cfg.Workers)
		registrar.AddHost(host, target)
		out[target] = append(out[target], host)
	}
	return out
}

// seedHosts pushes cfg.EventsPerHost self-events onto every host's
// queue before the round loop starts. Self-events are never rewritten
// by the causality rule regardless of barrier, so barrier=0 is safe
// here.
func seedHosts(policy *scheduler.SchedulerPolicy[HostID], hosts map[scheduler.WorkerID][]HostID, cfg config.RunConfig, rng *rand.Rand) {
	registrar := policy.Worker(0)
	for _, workerHosts := range hosts {
		for _, host := range workerHosts {
			for i := 0; i < cfg.EventsPerHost; i++ {
				t := scheduler.SimulationTime(rng.Int63n(int64(cfg.RoundDuration) * int64(cfg.Rounds)))
				registrar.Push(newDemoEvent(t, "seed"), host, host, 0)
			}
		}
	}
}
