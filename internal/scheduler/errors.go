package scheduler

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MisusePanic is the value recovered.(*MisusePanic) sees when a
// scheduler misuse condition (spec §7) aborts the process: a pop by a
// worker that does not own the host, a push to an unregistered host,
// or an internal invariant violation. The scheduler does not retry or
// recover from these itself — they indicate a bug in the caller.
type MisusePanic struct {
	Reason string
	Fields logrus.Fields
}

func (m *MisusePanic) Error() string {
	return m.Reason
}

// misuse logs the fatal condition with structured fields and panics
// with a *MisusePanic, matching the teacher's panic(fmt.Sprintf(...))
// idiom in sim/scheduler.go but with a typed, recoverable payload so a
// worker pool can turn it into a clean process exit instead of a raw
// stack trace.
func misuse(reason string, fields logrus.Fields) {
	logrus.WithFields(fields).Error(reason)
	panic(&MisusePanic{Reason: reason, Fields: fields})
}

func misusef(format string, fields logrus.Fields, args ...any) {
	misuse(fmt.Sprintf(format, args...), fields)
}
