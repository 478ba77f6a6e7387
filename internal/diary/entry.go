package diary

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Entry is one calendar day's diary record. Date is the natural key: at
// most one Entry exists per Date.
type Entry struct {
	ID           string   `json:"id" yaml:"id"`
	Date         string   `json:"date" yaml:"date"`
	Mood         Mood     `json:"mood" yaml:"mood"`
	Achievements string   `json:"achievements" yaml:"achievements"`
	Stress       string   `json:"stress" yaml:"stress"`
	Gratitude1   string   `json:"gratitude1" yaml:"gratitude1"`
	Gratitude2   string   `json:"gratitude2" yaml:"gratitude2"`
	Gratitude3   string   `json:"gratitude3" yaml:"gratitude3"`
	SelfCare     []string `json:"selfCare" yaml:"selfCare"`
	Highlight    string   `json:"highlight" yaml:"highlight"`
	Photos       []string `json:"photos" yaml:"photos"`
	Content      string   `json:"content" yaml:"content"`
	Timestamp    int64    `json:"timestamp" yaml:"timestamp"`
	Theme        string   `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Gratitude returns the non-empty gratitude slots in order
func (e Entry) Gratitude() []string {
	var out []string
	for _, g := range []string{e.Gratitude1, e.Gratitude2, e.Gratitude3} {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Time returns the creation instant
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// EntryInput is what the view layer collects from the entry form
type EntryInput struct {
	Mood         Mood
	Achievements string
	Stress       string
	Gratitude    [3]string
	SelfCare     []string
	Highlight    string
	Photos       []string
	Content      string
}

// Rules holds the configurable limits applied by NewEntry
type Rules struct {
	MinContentLength int
	MaxPhotos        int
}

// DefaultRules matches the stock entry form
func DefaultRules() Rules {
	return Rules{MinContentLength: 5, MaxPhotos: 3}
}

type entryCheck struct {
	Mood Mood `validate:"mood"`
}

// NewEntry validates in and builds the Entry for the calendar day of now
func NewEntry(in EntryInput, rules Rules, now time.Time, theme string) (Entry, error) {
	if in.Mood == "" {
		in.Mood = DefaultMood
	}

	content := strings.TrimSpace(in.Content)
	if err := checkVar("content", content, fmt.Sprintf("min=%d", rules.MinContentLength)); err != nil {
		return Entry{}, err
	}

	selfCare := uniqueTrimmed(in.SelfCare)
	photos := nonEmpty(in.Photos)

	if err := check(entryCheck{Mood: in.Mood}); err != nil {
		return Entry{}, err
	}
	if rules.MaxPhotos > 0 {
		if err := checkVar("photos", photos, fmt.Sprintf("max=%d", rules.MaxPhotos)); err != nil {
			return Entry{}, err
		}
	}

	return Entry{
		ID:           newID("entry", now),
		Date:         DateKey(now),
		Mood:         in.Mood,
		Achievements: strings.TrimSpace(in.Achievements),
		Stress:       strings.TrimSpace(in.Stress),
		Gratitude1:   strings.TrimSpace(in.Gratitude[0]),
		Gratitude2:   strings.TrimSpace(in.Gratitude[1]),
		Gratitude3:   strings.TrimSpace(in.Gratitude[2]),
		SelfCare:     selfCare,
		Highlight:    strings.TrimSpace(in.Highlight),
		Photos:       photos,
		Content:      content,
		Timestamp:    now.UnixMilli(),
		Theme:        theme,
	}, nil
}

// ContentLength counts characters, not bytes
func (e Entry) ContentLength() int {
	return utf8.RuneCountInString(e.Content)
}

// uniqueTrimmed keeps first occurrences in order and drops blanks
func uniqueTrimmed(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
