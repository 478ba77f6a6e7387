package sync

import (
	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/stats"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

// Severity grades a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ViewRenderer paints the list and form views. Renderers receive plain data
// and never call back into the coordinator.
type ViewRenderer interface {
	RenderTimeline(items []timeline.Item)
	// RenderEntryForm fills the entry form; nil means an empty form
	RenderEntryForm(entry *diary.Entry)
	RenderReflectionForm(rec diary.Reflection)
	RenderStreak(days int)
	RenderSaveStatus(status SaveStatus)
}

// ChartRenderer paints the report view
type ChartRenderer interface {
	RenderWeeklySeries(points []stats.WeeklyPoint)
	RenderMoodDistribution(counts stats.MoodCounts)
	RenderReportStats(report stats.Report)
}

// Notifier is a fire-and-forget message sink
type Notifier interface {
	Notify(message string, severity Severity)
}

type nopRenderer struct{}

func (nopRenderer) RenderTimeline([]timeline.Item) {}
func (nopRenderer) RenderEntryForm(*diary.Entry) {}
func (nopRenderer) RenderReflectionForm(diary.Reflection) {}
func (nopRenderer) RenderStreak(int) {}
func (nopRenderer) RenderSaveStatus(SaveStatus) {}
func (nopRenderer) RenderWeeklySeries([]stats.WeeklyPoint) {}
func (nopRenderer) RenderMoodDistribution(stats.MoodCounts) {}
func (nopRenderer) RenderReportStats(stats.Report) {}
func (nopRenderer) Notify(string, Severity) {}
