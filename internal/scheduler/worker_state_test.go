package scheduler

import "testing"

func TestWorkerState_Rotate_EmptyUnprocessed_SwapsO1(t *testing.T) {
	w := newWorkerState[string]()
	w.processed = []string{"h1", "h2", "h3"}
	w.unprocessed = []string{}

	w.rotate(10)

	if got := hostsOf(w.unprocessed); !equalStrings(got, []string{"h1", "h2", "h3"}) {
		t.Errorf("rotate: unprocessed = %v, want [h1 h2 h3]", got)
	}
	if len(w.processed) != 0 {
		t.Errorf("rotate: processed = %v, want empty", w.processed)
	}
	if w.currentBarrier != 10 {
		t.Errorf("rotate: currentBarrier = %d, want 10", w.currentBarrier)
	}
}

func TestWorkerState_Rotate_PreservesOrderWhenBothNonEmpty(t *testing.T) {
	w := newWorkerState[string]()
	w.unprocessed = []string{"h1"}
	w.processed = []string{"h2", "h3"}

	w.rotate(5)

	got := hostsOf(w.unprocessed)
	want := []string{"h1", "h2", "h3"}
	if !equalStrings(got, want) {
		t.Errorf("rotate: unprocessed = %v, want %v", got, want)
	}
	if len(w.processed) != 0 {
		t.Errorf("rotate: processed should be empty after rotation, got %v", w.processed)
	}
}

func TestWorkerState_AdvanceHead_MovesToProcessedTail(t *testing.T) {
	w := newWorkerState[string]()
	w.unprocessed = []string{"h1", "h2"}

	w.advanceHead()

	if got := hostsOf(w.unprocessed); !equalStrings(got, []string{"h2"}) {
		t.Errorf("advanceHead: unprocessed = %v, want [h2]", got)
	}
	if got := hostsOf(w.processed); !equalStrings(got, []string{"h1"}) {
		t.Errorf("advanceHead: processed = %v, want [h1]", got)
	}
}

func TestWorkerState_AssignedHosts_OnePartitionEmpty_ReturnsOtherDirectly(t *testing.T) {
	w := newWorkerState[string]()
	w.unprocessed = []string{"h1", "h2"}

	got := w.assignedHosts()
	if !equalStrings(hostsOf(got), []string{"h1", "h2"}) {
		t.Errorf("assignedHosts: got %v, want [h1 h2]", got)
	}
}

func TestWorkerState_AssignedHosts_BothNonEmpty_ConcatenatesProcessedThenUnprocessed(t *testing.T) {
	w := newWorkerState[string]()
	w.processed = []string{"h1"}
	w.unprocessed = []string{"h2", "h3"}

	got := w.assignedHosts()
	want := []string{"h1", "h2", "h3"}
	if !equalStrings(hostsOf(got), want) {
		t.Errorf("assignedHosts: got %v, want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
