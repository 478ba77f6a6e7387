package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/stats"
)

// barWidth is the width of a full bar in the distribution chart
const barWidth = 30

// RenderWeeklySeries prints one bar per day, height by mood value
func (t *Terminal) RenderWeeklySeries(points []stats.WeeklyPoint) {
	if t.Mute {
		return
	}
	t.title("Last 7 days")

	tbl := uitable.New()
	tbl.Separator = " "
	for _, p := range points {
		if !p.HasEntry {
			tbl.AddRow(p.Day, p.Date, color.New(color.Faint).Sprint(strings.Repeat("░", p.Value*2)), "no entry")
			continue
		}
		tbl.AddRow(p.Day, p.Date, strings.Repeat("█", p.Value*2), p.Mood)
	}
	_, _ = fmt.Fprintln(t.out, tbl)
}

// RenderMoodDistribution prints a horizontal bar per mood
func (t *Terminal) RenderMoodDistribution(counts stats.MoodCounts) {
	if t.Mute {
		return
	}
	t.title("Mood distribution")

	total := counts.Total()
	tbl := uitable.New()
	tbl.Separator = " "
	for _, m := range diary.Moods {
		n := counts[m]
		width := 0
		if total > 0 {
			width = n * barWidth / total
		}
		tbl.AddRow(m, m.Label(), strings.Repeat("■", width), n)
	}
	_, _ = fmt.Fprintln(t.out, tbl)
}

// RenderReportStats prints the aggregate numbers
func (t *Terminal) RenderReportStats(r stats.Report) {
	if t.Mute {
		return
	}
	t.title("Report")

	tbl := uitable.New()
	tbl.AddRow("Days written:", r.DaysWritten)
	tbl.AddRow("Positive days:", fmt.Sprintf("%d%%", r.PositiveRate))
	tbl.AddRow("Self-care done:", fmt.Sprintf("%d%%", r.ChecklistCompletion))
	tbl.AddRow("Best day:", fmt.Sprintf("%s %s", r.MostPositive.Date, r.MostPositive.Mood))
	tbl.AddRow("Hardest day:", fmt.Sprintf("%s %s", r.MostStressful.Date, r.MostStressful.Mood))
	tbl.AddRow("Avg writing time:", fmt.Sprintf("%d min", r.AvgWritingMinutes))
	tbl.AddRow("Most frequent:", fmt.Sprintf("%s %d%%", r.MostFrequentMood, r.MostFrequentPercent))
	_, _ = fmt.Fprintln(t.out, tbl)
}
