// Package metrics wires the scheduler's observability hooks into
// Prometheus, following the register-with-fallback pattern used
// throughout this codebase's collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/netsim/hostsched/internal/scheduler"
)

// SchedulerCollector implements scheduler.Recorder against a
// Prometheus registry.
type SchedulerCollector struct {
	EventsPushedTotal  *prometheus.CounterVec
	EventsPoppedTotal  prometheus.Counter
	RoundsStartedTotal prometheus.Counter
	CurrentRound       *prometheus.GaugeVec
	QueueDepthGauge    *prometheus.GaugeVec
}

// NewSchedulerCollector registers scheduler metrics against reg. A nil
// reg registers against prometheus.DefaultRegisterer.
func NewSchedulerCollector(reg prometheus.Registerer) (*SchedulerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	pushed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostsched_events_pushed_total",
		Help: "Total events pushed into the scheduler, labeled by whether the causality rule rewrote the event's time.",
	}, []string{"rewritten"})
	pushed, err := registerCounterVec(reg, pushed, "hostsched_events_pushed_total")
	if err != nil {
		return nil, err
	}

	popped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostsched_events_popped_total",
		Help: "Total events popped from the scheduler by all workers.",
	})
	popped, err = registerCounter(reg, popped, "hostsched_events_popped_total")
	if err != nil {
		return nil, err
	}

	rounds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostsched_rounds_started_total",
		Help: "Total round rotations observed across all workers.",
	})
	rounds, err = registerCounter(reg, rounds, "hostsched_rounds_started_total")
	if err != nil {
		return nil, err
	}

	round := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hostsched_current_round_barrier",
		Help: "Current barrier this worker has rotated to.",
	}, []string{"worker"})
	round, err = registerGaugeVec(reg, round, "hostsched_current_round_barrier")
	if err != nil {
		return nil, err
	}

	depth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hostsched_queue_depth",
		Help: "Number of events currently queued for a host.",
	}, []string{"host"})
	depth, err = registerGaugeVec(reg, depth, "hostsched_queue_depth")
	if err != nil {
		return nil, err
	}

	return &SchedulerCollector{
		EventsPushedTotal:  pushed,
		EventsPoppedTotal:  popped,
		RoundsStartedTotal: rounds,
		CurrentRound:       round,
		QueueDepthGauge:    depth,
	}, nil
}

// EventPushed implements scheduler.Recorder.
func (c *SchedulerCollector) EventPushed(rewritten bool) {
	if c == nil {
		return
	}
	c.EventsPushedTotal.WithLabelValues(fmt.Sprint(rewritten)).Inc()
}

// EventPopped implements scheduler.Recorder.
func (c *SchedulerCollector) EventPopped() {
	if c == nil {
		return
	}
	c.EventsPoppedTotal.Inc()
}

// RoundStarted implements scheduler.Recorder.
func (c *SchedulerCollector) RoundStarted(worker scheduler.WorkerID, barrier scheduler.SimulationTime) {
	if c == nil {
		return
	}
	c.RoundsStartedTotal.Inc()
	c.CurrentRound.WithLabelValues(worker.String()).Set(float64(barrier))
}

// QueueDepth implements scheduler.Recorder.
func (c *SchedulerCollector) QueueDepth(host string, depth int) {
	if c == nil {
		return
	}
	c.QueueDepthGauge.WithLabelValues(host).Set(float64(depth))
}

var _ scheduler.Recorder = (*SchedulerCollector)(nil)

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
