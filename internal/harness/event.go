package harness

import "github.com/netsim/hostsched/internal/scheduler"

// demoEvent is the synthetic payload the demo harness schedules. kind
// labels how the event was created ("seed", "tick" or "message"); the
// harness does not read it back, and chooses between a same-host
// follow-up and a message at random — the scheduler itself never looks
// past Time()/SetTime().
type demoEvent struct {
	t    scheduler.SimulationTime
	kind string
}

func (e *demoEvent) Time() scheduler.SimulationTime     { return e.t }
func (e *demoEvent) SetTime(t scheduler.SimulationTime) { e.t = t }

func newDemoEvent(t scheduler.SimulationTime, kind string) *demoEvent {
	return &demoEvent{t: t, kind: kind}
}
