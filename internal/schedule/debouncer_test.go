package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_SingleTask(t *testing.T) {
	d := NewDebouncer(50) // 50ms debounce
	defer d.Stop()

	done := make(chan string, 1)
	d.Add("status", func() { done <- "ran" })

	select {
	case got := <-done:
		if got != "ran" {
			t.Errorf("expected 'ran', got %q", got)
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("timed out waiting for task")
	}
}

func TestDebouncer_OnlyLatestRuns(t *testing.T) {
	d := NewDebouncer(100)
	defer d.Stop()

	var runs atomic.Int32
	var last atomic.Int32

	// Rapid reschedules of the same group
	for i := 1; i <= 3; i++ {
		n := int32(i)
		d.Add("autosave", func() {
			runs.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(300 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("expected 1 run, got %d", got)
	}
	if got := last.Load(); got != 3 {
		t.Errorf("expected the latest task to run, got task %d", got)
	}
}

func TestDebouncer_StaleTokenCannotCancel(t *testing.T) {
	d := NewDebouncer(5000)
	defer d.Stop()

	first := d.Add("status", func() {})
	second := d.Add("status", func() {})

	if d.Cancel(first) {
		t.Error("stale token should not cancel the newer task")
	}
	if !d.Cancel(second) {
		t.Error("current token should cancel its task")
	}
	if d.CancelGroup("status") {
		t.Error("nothing should be pending after cancel")
	}
}

func TestDebouncer_CancelSuppresses(t *testing.T) {
	d := NewDebouncer(50)
	defer d.Stop()

	var runs atomic.Int32
	token := d.Add("status", func() { runs.Add(1) })
	d.Cancel(token)

	time.Sleep(150 * time.Millisecond)
	if runs.Load() != 0 {
		t.Error("cancelled task should not run")
	}
}

func TestDebouncer_MultipleGroups(t *testing.T) {
	d := NewDebouncer(50)
	defer d.Stop()

	received := make(chan string, 2)
	d.Add("autosave", func() { received <- "autosave" })
	d.Add("status", func() { received <- "status" })

	got := make(map[string]bool)
	timeout := time.After(300 * time.Millisecond)

loop:
	for {
		select {
		case group := <-received:
			got[group] = true
			if len(got) == 2 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	if !got["autosave"] || !got["status"] {
		t.Errorf("expected both groups, got %v", got)
	}
}

func TestDebouncer_CancelGroup(t *testing.T) {
	d := NewDebouncer(50)
	defer d.Stop()

	var runs atomic.Int32
	d.Add("autosave", func() { runs.Add(1) })
	d.Add("status", func() { runs.Add(10) })

	if !d.CancelGroup("autosave") {
		t.Error("autosave should have been pending")
	}

	time.Sleep(150 * time.Millisecond)
	if got := runs.Load(); got != 10 {
		t.Errorf("only the status task should run, got %d", got)
	}
}

func TestDebouncer_ScheduleAfterStop(t *testing.T) {
	d := NewDebouncer(10)
	d.Stop()

	var runs atomic.Int32
	d.Add("status", func() { runs.Add(1) })

	time.Sleep(50 * time.Millisecond)
	if runs.Load() != 0 {
		t.Error("task scheduled after stop should not run")
	}
}
