package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/stats"
	"github.com/vonshlovens/moodlog/internal/sync"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

func newTestTerminal() (*Terminal, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return NewTerminal(&buf, []string{"Exercise", "Meditate"}), &buf
}

func TestRenderTimeline(t *testing.T) {
	term, buf := newTestTerminal()

	entry := diary.Entry{ID: "entry_1", Date: "01/01/2025", Mood: diary.MoodHappy, Content: "New year walk"}
	moment := diary.Moment{ID: "moment_1", Date: "01/01/2025", Name: "Fireworks", Description: "by the river", Mood: diary.MoodStar}
	term.RenderTimeline([]timeline.Item{
		{Kind: timeline.KindEntry, Entry: &entry},
		{Kind: timeline.KindMoment, Moment: &moment},
	})

	out := buf.String()
	for _, want := range []string{"Timeline - 2 items", "New year walk", "Fireworks: by the river", "moment_1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTimeline_Empty(t *testing.T) {
	term, buf := newTestTerminal()
	term.RenderTimeline(nil)

	if !strings.Contains(buf.String(), "nothing here yet") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderEntryForm_Checklist(t *testing.T) {
	term, buf := newTestTerminal()
	term.RenderEntryForm(&diary.Entry{Date: "02/01/2025", Mood: diary.MoodTired, SelfCare: []string{"Meditate"}, Content: "long day"})

	out := buf.String()
	if !strings.Contains(out, "[ ] Exercise") || !strings.Contains(out, "[x] Meditate") {
		t.Errorf("checklist not rendered:\n%s", out)
	}
	if !strings.Contains(out, "😴 Tired") {
		t.Errorf("mood label missing:\n%s", out)
	}
}

func TestNotify(t *testing.T) {
	tests := []struct {
		severity sync.Severity
		prefix   string
	}{
		{sync.SeverityInfo, "i "},
		{sync.SeveritySuccess, "✓ "},
		{sync.SeverityWarning, "! "},
		{sync.SeverityError, "✗ "},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			term, buf := newTestTerminal()
			term.Notify("hello", tt.severity)
			if got := buf.String(); got != tt.prefix+"hello\n" {
				t.Errorf("Notify() wrote %q", got)
			}
		})
	}
}

func TestQuietSuppressesStatus(t *testing.T) {
	term, buf := newTestTerminal()
	term.Quiet = true
	term.RenderStreak(3)
	term.RenderSaveStatus(sync.StatusSaved)

	if buf.Len() != 0 {
		t.Errorf("quiet terminal wrote %q", buf.String())
	}
}

func TestMuteKeepsNotifications(t *testing.T) {
	term, buf := newTestTerminal()
	term.Mute = true
	term.RenderTimeline(nil)
	term.RenderEntryForm(nil)
	term.RenderReportStats(stats.Report{})
	term.Notify("saved", sync.SeveritySuccess)

	if got := buf.String(); got != "✓ saved\n" {
		t.Errorf("muted terminal wrote %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	term, buf := newTestTerminal()

	entries := []diary.Entry{
		{Date: "01/01/2025", Mood: diary.MoodHappy, Content: "fine day"},
		{Date: "02/01/2025", Mood: diary.MoodSad, Content: "rough day"},
	}
	report := stats.BuildReport(entries, 2)
	term.RenderReportStats(report)
	term.RenderMoodDistribution(report.Counts)

	out := buf.String()
	for _, want := range []string{"Days written:", "50%", "02/01/2025 😢", "Mood distribution", "Happy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
