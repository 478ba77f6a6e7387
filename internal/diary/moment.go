package diary

import (
	"fmt"
	"strings"
	"time"
)

// MomentType tells a user-created moment from one derived from an entry
type MomentType string

const (
	MomentManual    MomentType = "manual"
	MomentHighlight MomentType = "highlight"
)

// Moment is a short freeform highlight shown on the timeline
type Moment struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Date        string     `json:"date" yaml:"date"`
	Mood        Mood       `json:"mood" yaml:"mood"`
	Type        MomentType `json:"type" yaml:"type"`
	Timestamp   int64      `json:"timestamp" yaml:"timestamp"`
}

// MomentInput is what the view layer collects from the moment form
type MomentInput struct {
	Name        string `validate:"required"`
	Description string
	Mood        Mood
}

const (
	highlightNameLength    = 50
	highlightExcerptLength = 100
)

// NewMoment validates in and builds a manual moment dated today
func NewMoment(in MomentInput, now time.Time) (Moment, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return Moment{}, err
	}

	mood := in.Mood
	if mood == "" {
		mood = MoodStar
	}

	return Moment{
		ID:          newID("moment", now),
		Name:        in.Name,
		Description: in.Description,
		Date:        DateKey(now),
		Mood:        mood,
		Type:        MomentManual,
		Timestamp:   now.UnixMilli(),
	}, nil
}

// HighlightMoment derives the moment for an entry's highlight. It reports
// false when the entry has no highlight.
func HighlightMoment(e Entry) (Moment, bool) {
	highlight := strings.TrimSpace(e.Highlight)
	if highlight == "" {
		return Moment{}, false
	}

	return Moment{
		ID:          newID("moment", e.Time()),
		Name:        truncate(highlight, highlightNameLength),
		Description: fmt.Sprintf("From diary entry on %s: %s...", e.Date, truncate(e.Content, highlightExcerptLength)),
		Date:        e.Date,
		Mood:        e.Mood,
		Type:        MomentHighlight,
		Timestamp:   e.Timestamp,
	}, true
}

// Time returns the creation instant
func (m Moment) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}
