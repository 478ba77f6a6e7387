// Package stats holds the derived-state calculators. Every function is pure:
// it reads the slices it is given and returns a fresh value, so callers may
// recompute after each mutation without caring about previous results.
package stats

import (
	"log/slog"
	"math"
	"time"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// Streak counts consecutive days with an entry, anchored at today. A missing
// entry for today yields 0 no matter how long the earlier run is.
func Streak(entries []diary.Entry, now time.Time) int {
	loc := now.Location()
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		t, err := diary.ParseDate(e.Date, loc)
		if err != nil {
			slog.Debug("skipping entry with unparseable date", "id", e.ID, "date", e.Date)
			continue
		}
		days[diary.DateKey(t)] = true
	}

	today := diary.Midnight(now)
	streak := 0
	for days[diary.DateKey(diary.AddDays(today, -streak))] {
		streak++
	}
	return streak
}

// MoodCounts maps each enumerated mood to its entry count
type MoodCounts map[diary.Mood]int

// Total sums the counts
func (c MoodCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// MoodFrequency counts entries per enumerated mood. Every mood of the
// enumeration is present in the result; unknown moods are ignored.
func MoodFrequency(entries []diary.Entry) MoodCounts {
	counts := make(MoodCounts, len(diary.Moods))
	for _, m := range diary.Moods {
		counts[m] = 0
	}
	for _, e := range entries {
		if e.Mood.Valid() {
			counts[e.Mood]++
		}
	}
	return counts
}

// MostFrequentMood returns the most common mood and its share of entries as a
// rounded percentage. Ties go to the mood later in scale order. With no
// entries the result is the default mood at 0%.
func MostFrequentMood(entries []diary.Entry) (diary.Mood, int) {
	if len(entries) == 0 {
		return diary.DefaultMood, 0
	}

	counts := MoodFrequency(entries)
	best := diary.Moods[0]
	for _, m := range diary.Moods[1:] {
		if counts[m] >= counts[best] {
			best = m
		}
	}
	return best, percent(counts[best], len(entries))
}

// percent is part/whole*100 rounded half up
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return round(float64(part) / float64(whole) * 100)
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
