// Package render paints coordinator output on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/sync"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

const maxColWidth = 60

// Terminal implements the view, chart and notification collaborators
type Terminal struct {
	out       io.Writer
	checklist []string

	// Quiet drops streak and status updates, for one-shot commands
	Quiet bool
	// Mute drops views and charts. Notifications still print.
	Mute bool
}

// NewTerminal writes to out. checklist labels the self-care items on the
// entry form.
func NewTerminal(out io.Writer, checklist []string) *Terminal {
	return &Terminal{out: out, checklist: checklist}
}

func (t *Terminal) title(s string) {
	_, _ = color.New(color.Bold, color.Underline).Fprintln(t.out, s)
}

func (t *Terminal) faint(format string, args ...interface{}) {
	_, _ = color.New(color.Faint, color.Italic).Fprintf(t.out, format, args...)
}

// RenderTimeline prints the merged feed as a table
func (t *Terminal) RenderTimeline(items []timeline.Item) {
	if t.Mute {
		return
	}
	t.title(fmt.Sprintf("Timeline - %d items", len(items)))
	if len(items) == 0 {
		t.faint(" nothing here yet\n\n")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.Wrap = true
	tbl.AddRow("DATE", "KIND", "MOOD", "TEXT", "ID")

	for _, it := range items {
		switch it.Kind {
		case timeline.KindEntry:
			tbl.AddRow(it.Entry.Date, it.Kind, it.Entry.Mood, it.Entry.Content, it.Entry.ID)
		case timeline.KindMoment:
			text := it.Moment.Name
			if it.Moment.Description != "" {
				text += ": " + it.Moment.Description
			}
			tbl.AddRow(it.Moment.Date, it.Kind, it.Moment.Mood, text, it.Moment.ID)
		}
	}
	_, _ = fmt.Fprintln(t.out, tbl)
}

// RenderEntryForm prints today's entry, or the empty form prompt
func (t *Terminal) RenderEntryForm(e *diary.Entry) {
	if t.Mute {
		return
	}
	if e == nil {
		t.title("Today")
		t.faint(" no entry yet, write one with `moodlog write`\n\n")
		return
	}

	t.title(fmt.Sprintf("Entry for %s %s", e.Date, e.Mood))

	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.Wrap = true
	tbl.AddRow("Mood:", fmt.Sprintf("%s %s", e.Mood, e.Mood.Label()))
	if e.Achievements != "" {
		tbl.AddRow("Achievements:", e.Achievements)
	}
	if e.Stress != "" {
		tbl.AddRow("Stress:", e.Stress)
	}
	if g := e.Gratitude(); len(g) > 0 {
		tbl.AddRow("Grateful for:", strings.Join(g, ", "))
	}
	if e.Highlight != "" {
		tbl.AddRow("Highlight:", e.Highlight)
	}
	tbl.AddRow("Self-care:", t.checklistLine(e.SelfCare))
	if len(e.Photos) > 0 {
		tbl.AddRow("Photos:", fmt.Sprintf("%d attached", len(e.Photos)))
	}
	tbl.AddRow("", "")
	tbl.AddRow("", e.Content)
	_, _ = fmt.Fprintln(t.out, tbl)
}

func (t *Terminal) checklistLine(done []string) string {
	checked := make(map[string]bool, len(done))
	for _, s := range done {
		checked[s] = true
	}

	parts := make([]string, 0, len(t.checklist))
	for _, label := range t.checklist {
		mark := "[ ]"
		if checked[label] {
			mark = "[x]"
		}
		parts = append(parts, mark+" "+label)
	}
	return strings.Join(parts, "  ")
}

// RenderReflectionForm prints the month's reflection
func (t *Terminal) RenderReflectionForm(rec diary.Reflection) {
	if t.Mute {
		return
	}
	t.title(rec.Title())
	if rec.Empty() {
		t.faint(" nothing written for this month yet\n\n")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.Wrap = true
	tbl.AddRow("Learned:", rec.Learned)
	tbl.AddRow("Proud of:", rec.ProudOf)
	tbl.AddRow("Improve:", rec.Improvement)
	_, _ = fmt.Fprintln(t.out, tbl)
}

// RenderStreak prints the streak counter
func (t *Terminal) RenderStreak(days int) {
	if t.Quiet {
		return
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	_, _ = color.New(color.FgHiYellow).Fprintf(t.out, "🔥 %d %s streak\n", days, unit)
}

// RenderSaveStatus prints the auto-save indicator
func (t *Terminal) RenderSaveStatus(status sync.SaveStatus) {
	if t.Quiet || status == sync.StatusIdle {
		return
	}
	t.faint("%s\n", status)
}

// Notify prints a message coloured by severity
func (t *Terminal) Notify(message string, severity sync.Severity) {
	c := color.New(color.FgCyan)
	prefix := "i"
	switch severity {
	case sync.SeveritySuccess:
		c, prefix = color.New(color.FgGreen), "✓"
	case sync.SeverityWarning:
		c, prefix = color.New(color.FgYellow), "!"
	case sync.SeverityError:
		c, prefix = color.New(color.FgRed, color.Bold), "✗"
	}
	_, _ = c.Fprintf(t.out, "%s %s\n", prefix, message)
}
