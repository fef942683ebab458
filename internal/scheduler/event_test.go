package scheduler

import "testing"

func TestEvent_SetTime_UpdatesTime(t *testing.T) {
	e := ev(1)
	e.SetTime(42)
	if e.Time() != 42 {
		t.Errorf("SetTime: Time() = %d, want 42", e.Time())
	}
}

func TestAddEpoch_InvalidPropagates(t *testing.T) {
	if got := AddEpoch(SimTimeInvalid, 100); got != EmuTimeInvalid {
		t.Errorf("AddEpoch(SimTimeInvalid, 100) = %d, want EmuTimeInvalid", got)
	}
}

func TestAddEpoch_AddsEpoch(t *testing.T) {
	if got := AddEpoch(5, 100); got != 105 {
		t.Errorf("AddEpoch(5, 100) = %d, want 105", got)
	}
}
