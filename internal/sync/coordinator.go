// Package sync sequences user actions into repository writes and keeps the
// derived views consistent with storage. The Coordinator is the only writer
// of the repositories.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vonshlovens/moodlog/internal/backup"
	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/repo"
	"github.com/vonshlovens/moodlog/internal/schedule"
	"github.com/vonshlovens/moodlog/internal/stats"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

// ErrInternal replaces any unexpected failure inside an action
var ErrInternal = errors.New("internal error")

// Debounce groups
const (
	groupAutosave  = "autosave"
	groupIndicator = "save-indicator"
	groupStatus    = "save-status"
)

// Options configures a Coordinator
type Options struct {
	Rules     diary.Rules
	Checklist []string

	AutosaveDelay   time.Duration
	SavingIndicator time.Duration
	StatusReset     time.Duration

	// Now is the clock; time.Now when nil
	Now func() time.Time

	// Progress receives the import progress bar; nil hides it
	Progress io.Writer

	// InitialView is the view painted by Start; diary when empty
	InitialView View

	// InitialFilter is the timeline filter in place at Start
	InitialFilter timeline.Filter
}

// DefaultChecklist is the stock self-care checklist
var DefaultChecklist = []string{
	"Drink enough water",
	"Exercise",
	"Meditate",
	"Read a book",
	"Sleep early",
	"Talk to someone",
}

// DefaultOptions returns the stock limits and timers
func DefaultOptions() Options {
	return Options{
		Rules:           diary.DefaultRules(),
		Checklist:       DefaultChecklist,
		AutosaveDelay:   2 * time.Second,
		SavingIndicator: 500 * time.Millisecond,
		StatusReset:     2 * time.Second,
	}
}

// Coordinator owns the AppState and runs every action to completion under
// one lock, scheduled callbacks included.
type Coordinator struct {
	repos    *repo.Repositories
	views    ViewRenderer
	charts   ChartRenderer
	notifier Notifier
	sched    *schedule.Debouncer
	opts     Options

	mu    sync.Mutex
	state AppState
}

// NewCoordinator wires a coordinator. Nil collaborators are replaced by
// no-op implementations.
func NewCoordinator(repos *repo.Repositories, views ViewRenderer, charts ChartRenderer, notifier Notifier, opts Options) *Coordinator {
	if views == nil {
		views = nopRenderer{}
	}
	if charts == nil {
		charts = nopRenderer{}
	}
	if notifier == nil {
		notifier = nopRenderer{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Checklist == nil {
		opts.Checklist = DefaultChecklist
	}
	if opts.InitialView == "" {
		opts.InitialView = ViewDiary
	}

	return &Coordinator{
		repos:    repos,
		views:    views,
		charts:   charts,
		notifier: notifier,
		sched:    schedule.NewDebouncer(int(opts.AutosaveDelay.Milliseconds())),
		opts:     opts,
		state:    initialState(repos.Settings.Get().Theme),
	}
}

// guard turns a panic in an action into ErrInternal. It must be deferred
// after the lock is taken.
func (c *Coordinator) guard(action string, err *error) {
	if r := recover(); r != nil {
		slog.Error("action failed unexpectedly", "action", action, "panic", r)
		c.notifier.Notify("Something went wrong, please try again", SeverityError)
		*err = ErrInternal
	}
}

// Start seeds first-run defaults, computes the streak and paints the
// initial view.
func (c *Coordinator) Start() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("start", &err)

	if err := c.repos.EnsureDefaults(); err != nil {
		c.notifier.Notify("Could not initialize storage", SeverityError)
		return err
	}

	settings := c.repos.Settings.Get()
	c.state.Theme = settings.Theme
	c.state.SaveStatus = StatusIdle
	if _, err := ParseView(string(c.opts.InitialView)); err == nil {
		c.state.View = c.opts.InitialView
	}
	c.state.Filter = c.opts.InitialFilter
	c.refreshStreak()
	c.renderActive()

	slog.Debug("coordinator started", "view", c.state.View, "theme", c.state.Theme, "streak", c.state.Streak)
	return nil
}

// SaveDailyEntry validates in and upserts today's entry, then its highlight
// moment. Nothing after a failed write runs.
func (c *Coordinator) SaveDailyEntry(in diary.EntryInput) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("save entry", &err)

	now := c.opts.Now()
	entry, err := diary.NewEntry(in, c.opts.Rules, now, c.state.Theme)
	if err != nil {
		c.notifier.Notify(validationMessage(err), SeverityWarning)
		return err
	}

	// Re-saving a day keeps the id of the record it replaces
	if existing, ok := c.repos.Entries.GetByDate(entry.Date); ok {
		entry.ID = existing.ID
	}

	replaced, err := c.repos.Entries.Upsert(entry)
	if err != nil {
		slog.Error("failed to save entry", "date", entry.Date, "error", err)
		c.notifier.Notify("Could not save your entry", SeverityError)
		return fmt.Errorf("failed to save entry: %w", err)
	}

	if m, ok := diary.HighlightMoment(entry); ok {
		if _, err := c.repos.Moments.Upsert(m); err != nil {
			slog.Error("failed to save highlight moment", "date", entry.Date, "error", err)
			c.notifier.Notify("Entry saved, but its highlight could not be added to moments", SeverityError)
			return fmt.Errorf("failed to save highlight moment: %w", err)
		}
	}

	c.sched.CancelGroup(groupAutosave)
	c.sched.CancelGroup(groupIndicator)

	c.refreshStreak()
	switch c.state.View {
	case ViewTimeline, ViewReport:
		c.renderActive()
	case ViewDiary:
		c.views.RenderEntryForm(nil)
	}

	c.setStatus(StatusReady)
	c.sched.Schedule(groupStatus, c.opts.StatusReset, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.setStatus(StatusSaved)
	})

	slog.Info("entry saved", "id", entry.ID, "date", entry.Date, "replaced", replaced)
	if replaced {
		c.notifier.Notify("Today's entry updated", SeveritySuccess)
	} else {
		c.notifier.Notify("Entry saved", SeveritySuccess)
	}
	return nil
}

// SaveMoment validates in and upserts a manual moment by (date, name)
func (c *Coordinator) SaveMoment(in diary.MomentInput) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("save moment", &err)

	m, err := diary.NewMoment(in, c.opts.Now())
	if err != nil {
		c.notifier.Notify(validationMessage(err), SeverityWarning)
		return err
	}

	if existing, ok := c.repos.Moments.GetByKey(m.Date, m.Name); ok {
		m.ID = existing.ID
	}

	replaced, err := c.repos.Moments.Upsert(m)
	if err != nil {
		slog.Error("failed to save moment", "name", m.Name, "error", err)
		c.notifier.Notify("Could not save the moment", SeverityError)
		return fmt.Errorf("failed to save moment: %w", err)
	}

	if c.state.View == ViewTimeline {
		c.renderActive()
	}

	slog.Info("moment saved", "id", m.ID, "date", m.Date, "replaced", replaced)
	c.notifier.Notify("Moment saved", SeveritySuccess)
	return nil
}

// DeleteEntry removes the entry with id. A missing id is reported as not
// found, not as success.
func (c *Coordinator) DeleteEntry(id string) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("delete entry", &err)

	if err := c.repos.Entries.DeleteByID(id); err != nil {
		return c.deleteFailed("entry", id, err)
	}

	c.refreshStreak()
	if c.state.View != ViewReflection {
		c.renderActive()
	}

	slog.Info("entry deleted", "id", id)
	c.notifier.Notify("Entry deleted", SeveritySuccess)
	return nil
}

// DeleteMoment removes the moment with id
func (c *Coordinator) DeleteMoment(id string) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("delete moment", &err)

	if err := c.repos.Moments.DeleteByID(id); err != nil {
		return c.deleteFailed("moment", id, err)
	}

	if c.state.View == ViewTimeline {
		c.renderActive()
	}

	slog.Info("moment deleted", "id", id)
	c.notifier.Notify("Moment deleted", SeveritySuccess)
	return nil
}

func (c *Coordinator) deleteFailed(kind, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		slog.Debug("delete target missing", "kind", kind, "id", id)
		c.notifier.Notify(fmt.Sprintf("That %s was not found", kind), SeverityWarning)
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	slog.Error("failed to delete", "kind", kind, "id", id, "error", err)
	c.notifier.Notify(fmt.Sprintf("Could not delete the %s", kind), SeverityError)
	return fmt.Errorf("failed to delete %s: %w", kind, err)
}

// SaveReflection replaces the reflection of the current month
func (c *Coordinator) SaveReflection(in diary.ReflectionInput) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("save reflection", &err)

	rec := diary.NewReflection(in, c.opts.Now())
	if err := c.repos.Reflections.Save(rec); err != nil {
		slog.Error("failed to save reflection", "id", rec.ID, "error", err)
		c.notifier.Notify("Could not save your reflection", SeverityError)
		return fmt.Errorf("failed to save reflection: %w", err)
	}

	if c.state.View == ViewReflection {
		c.views.RenderReflectionForm(rec)
	}

	slog.Info("reflection saved", "id", rec.ID)
	c.notifier.Notify("Reflection saved", SeveritySuccess)
	return nil
}

// LoadReflection returns the current month's reflection, empty when none
// is stored yet.
func (c *Coordinator) LoadReflection() diary.Reflection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentReflection()
}

func (c *Coordinator) currentReflection() diary.Reflection {
	now := c.opts.Now()
	if rec, ok := c.repos.Reflections.Get(now.Year(), int(now.Month())); ok {
		return rec
	}
	empty := diary.NewReflection(diary.ReflectionInput{}, now)
	empty.Timestamp = 0
	return empty
}

// ListReflections returns every stored month, newest first
func (c *Coordinator) ListReflections() []diary.Reflection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repos.Reflections.List()
}

// SwitchView moves to v and paints it. Switching to the active view does
// nothing.
func (c *Coordinator) SwitchView(v View) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("switch view", &err)

	if _, err := ParseView(string(v)); err != nil {
		return err
	}
	if v == c.state.View {
		return nil
	}

	slog.Debug("switching view", "from", c.state.View, "to", v)
	c.state.View = v
	c.renderActive()
	return nil
}

// SetTheme persists a new theme. The report redraws when it is showing.
func (c *Coordinator) SetTheme(theme string) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("set theme", &err)

	settings, err := c.repos.Settings.Get().WithTheme(theme)
	if err != nil {
		c.notifier.Notify(validationMessage(err), SeverityWarning)
		return err
	}
	if err := c.repos.Settings.Set(settings); err != nil {
		slog.Error("failed to save theme", "theme", theme, "error", err)
		c.notifier.Notify("Could not save the theme", SeverityError)
		return fmt.Errorf("failed to save theme: %w", err)
	}

	c.state.Theme = theme
	if c.state.View == ViewReport {
		c.renderActive()
	}

	slog.Info("theme changed", "theme", theme)
	c.notifier.Notify(fmt.Sprintf("Theme set to %s", theme), SeveritySuccess)
	return nil
}

// SetFilter replaces the timeline filter
func (c *Coordinator) SetFilter(f timeline.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Filter = f
	if c.state.View == ViewTimeline {
		c.renderActive()
	}
}

// ClearFilters resets every timeline predicate
func (c *Coordinator) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Filter = timeline.Filter{}
	if c.state.View == ViewTimeline {
		c.renderActive()
	}
	c.notifier.Notify("Filters cleared", SeverityInfo)
}

// NoteDraftActivity restarts the auto-save indicator. Once the draft has
// been idle for the auto-save delay the status shows saving, then saved.
// Each call supersedes the previous one.
func (c *Coordinator) NoteDraftActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.repos.Settings.Get().AutoSave {
		return
	}

	c.sched.CancelGroup(groupIndicator)
	c.sched.Schedule(groupAutosave, c.opts.AutosaveDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.setStatus(StatusSaving)
		c.sched.Schedule(groupIndicator, c.opts.SavingIndicator, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.setStatus(StatusSaved)
		})
	})
}

func (c *Coordinator) setStatus(s SaveStatus) {
	c.state.SaveStatus = s
	c.views.RenderSaveStatus(s)
}

// Export snapshots every collection into a backup document
func (c *Coordinator) Export() backup.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := backup.Collect(c.repos, c.opts.Now())
	slog.Info("backup exported", "entries", len(doc.DiaryEntries), "moments", len(doc.Moments))
	return doc
}

// Import replaces the stored collections with doc and recomputes
// everything derived from them.
func (c *Coordinator) Import(doc backup.Document) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard("import", &err)

	if err := backup.Restore(c.repos, doc, backup.RestoreOptions{Progress: c.opts.Progress}); err != nil {
		slog.Error("failed to import backup", "error", err)
		c.notifier.Notify("Could not import the backup", SeverityError)
		return err
	}

	c.state.Theme = c.repos.Settings.Get().Theme
	c.refreshStreak()
	c.renderActive()

	c.notifier.Notify(fmt.Sprintf("Imported %d entries and %d moments", len(doc.DiaryEntries), len(doc.Moments)), SeveritySuccess)
	return nil
}

// Refresh re-reads storage after an outside change and repaints
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Theme = c.repos.Settings.Get().Theme
	c.refreshStreak()
	c.renderActive()
}

// Follow refreshes on every change another writer makes to the store until
// ctx is cancelled.
func (c *Coordinator) Follow(ctx context.Context) error {
	changes, err := c.repos.Store.Watch(ctx)
	if err != nil {
		return err
	}

	for change := range changes {
		slog.Info("store changed externally", "key", change.Key, "removed", change.Removed)
		c.Refresh()
	}
	return nil
}

// State returns a copy of the application state
func (c *Coordinator) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Timeline returns the filtered feed for the current filter
func (c *Coordinator) Timeline() []timeline.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timelineItems()
}

// Report returns the current report aggregates
func (c *Coordinator) Report() stats.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stats.BuildReport(c.repos.Entries.Stored(), len(c.opts.Checklist))
}

// TodayEntry returns the entry for the current day, if any
func (c *Coordinator) TodayEntry() (diary.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repos.Entries.GetByDate(diary.DateKey(c.opts.Now()))
}

// Close drops every pending scheduled callback
func (c *Coordinator) Close() {
	c.sched.Stop()
}

func (c *Coordinator) timelineItems() []timeline.Item {
	return timeline.Build(c.repos.Entries.Stored(), c.repos.Moments.Stored(), c.state.Filter)
}

// refreshStreak recomputes the streak and mirrors it into settings
func (c *Coordinator) refreshStreak() {
	streak := stats.Streak(c.repos.Entries.Stored(), c.opts.Now())
	c.state.Streak = streak
	c.views.RenderStreak(streak)

	settings := c.repos.Settings.Get()
	if settings.Streak == streak {
		return
	}
	settings.Streak = streak
	if err := c.repos.Settings.Set(settings); err != nil {
		slog.Warn("failed to store streak", "streak", streak, "error", err)
	}
}

// renderActive recomputes what the active view shows and hands it over
func (c *Coordinator) renderActive() {
	switch c.state.View {
	case ViewDiary:
		if e, ok := c.repos.Entries.GetByDate(diary.DateKey(c.opts.Now())); ok {
			c.views.RenderEntryForm(&e)
		} else {
			c.views.RenderEntryForm(nil)
		}
	case ViewTimeline:
		c.views.RenderTimeline(c.timelineItems())
	case ViewReport:
		entries := c.repos.Entries.Stored()
		report := stats.BuildReport(entries, len(c.opts.Checklist))
		c.charts.RenderReportStats(report)
		c.charts.RenderMoodDistribution(report.Counts)
		c.charts.RenderWeeklySeries(stats.WeeklySeries(entries, c.opts.Now()))
	case ViewReflection:
		c.views.RenderReflectionForm(c.currentReflection())
	}
}

func validationMessage(err error) string {
	var ve *diary.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "Please check your input"
}
