package schedule

import (
	"sync"
	"time"
)

// Token identifies one scheduled run of a task group. A token is invalidated
// as soon as the same group is rescheduled.
type Token struct {
	Group string
	gen   uint64
}

// Debouncer runs at most one pending task per group. Scheduling a group again
// before its timer fires replaces the pending task; the earlier one never runs.
type Debouncer struct {
	delay   time.Duration
	tasks   map[string]*pendingTask
	gen     uint64
	mu      sync.Mutex
	stopped bool
}

type pendingTask struct {
	gen   uint64
	fn    func()
	timer *time.Timer
}

// NewDebouncer creates a debouncer whose Add uses delayMs as the default delay
func NewDebouncer(delayMs int) *Debouncer {
	return &Debouncer{
		delay: time.Duration(delayMs) * time.Millisecond,
		tasks: make(map[string]*pendingTask),
	}
}

// Add schedules fn for group using the default delay
func (d *Debouncer) Add(group string, fn func()) Token {
	return d.Schedule(group, d.delay, fn)
}

// Schedule schedules fn to run after delay unless group is rescheduled or
// cancelled first.
func (d *Debouncer) Schedule(group string, delay time.Duration, fn func()) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return Token{Group: group}
	}

	d.gen++
	gen := d.gen

	// Replace the pending task for the same group
	if pending, exists := d.tasks[group]; exists {
		pending.timer.Stop()
	}

	d.tasks[group] = &pendingTask{
		gen: gen,
		fn:  fn,
		timer: time.AfterFunc(delay, func() {
			d.fire(group, gen)
		}),
	}

	return Token{Group: group, gen: gen}
}

// fire runs the task for group if gen is still the latest generation.
// A timer that already fired but lost the race to a reschedule is dropped here.
func (d *Debouncer) fire(group string, gen uint64) {
	d.mu.Lock()
	pending, exists := d.tasks[group]
	if !exists || pending.gen != gen || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.tasks, group)
	d.mu.Unlock()

	pending.fn()
}

// Cancel suppresses the task identified by t. It reports whether the task was
// still pending.
func (d *Debouncer) Cancel(t Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, exists := d.tasks[t.Group]
	if !exists || pending.gen != t.gen {
		return false
	}
	pending.timer.Stop()
	delete(d.tasks, t.Group)
	return true
}

// CancelGroup suppresses whatever task is pending for group
func (d *Debouncer) CancelGroup(group string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending, exists := d.tasks[group]
	if !exists {
		return false
	}
	pending.timer.Stop()
	delete(d.tasks, group)
	return true
}

// Stop cancels every pending task. Later calls to Schedule are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for _, pending := range d.tasks {
		pending.timer.Stop()
	}
	d.tasks = make(map[string]*pendingTask)
}
