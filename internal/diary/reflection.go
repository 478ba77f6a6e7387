package diary

import (
	"fmt"
	"strings"
	"time"
)

// Reflection is the once-per-month retrospective. (Year, Month) is its
// natural key.
type Reflection struct {
	ID          string `json:"id" yaml:"id"`
	Year        int    `json:"year" yaml:"year"`
	Month       int    `json:"month" yaml:"month"`
	Learned     string `json:"learned" yaml:"learned"`
	ProudOf     string `json:"proudOf" yaml:"proudOf"`
	Improvement string `json:"improvement" yaml:"improvement"`
	Timestamp   int64  `json:"timestamp" yaml:"timestamp"`
}

// ReflectionInput is the content of the reflection form. Every field is
// optional.
type ReflectionInput struct {
	Learned     string
	ProudOf     string
	Improvement string
}

// ReflectionID is the deterministic id of a month's reflection
func ReflectionID(year, month int) string {
	return fmt.Sprintf("reflection_%d_%d", year, month)
}

// NewReflection builds the reflection for the calendar month of now
func NewReflection(in ReflectionInput, now time.Time) Reflection {
	year, month := now.Year(), int(now.Month())
	return Reflection{
		ID:          ReflectionID(year, month),
		Year:        year,
		Month:       month,
		Learned:     strings.TrimSpace(in.Learned),
		ProudOf:     strings.TrimSpace(in.ProudOf),
		Improvement: strings.TrimSpace(in.Improvement),
		Timestamp:   now.UnixMilli(),
	}
}

// Empty reports whether nothing has been written for the month
func (r Reflection) Empty() bool {
	return r.Learned == "" && r.ProudOf == "" && r.Improvement == ""
}

// Title is the heading shown above the reflection form
func (r Reflection) Title() string {
	if r.Month < 1 || r.Month > 12 {
		return "Reflection"
	}
	return fmt.Sprintf("Reflection %s %d", time.Month(r.Month), r.Year)
}
