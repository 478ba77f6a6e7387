package stats

import (
	"github.com/vonshlovens/moodlog/internal/diary"
)

// NoDate is shown for extreme days when there are no entries
const NoDate = "--/--/----"

// charsPerMinute converts average content length into a writing time
const charsPerMinute = 50

// DayMood names a calendar day together with its mood
type DayMood struct {
	Date string
	Mood diary.Mood
}

// Report is the aggregate shown on the report view
type Report struct {
	DaysWritten         int
	PositiveRate        int
	ChecklistCompletion int
	MostPositive        DayMood
	MostStressful       DayMood
	AvgWritingMinutes   int
	MostFrequentMood    diary.Mood
	MostFrequentPercent int
	Counts              MoodCounts
}

// BuildReport aggregates entries in storage order. checklistSize is the
// number of self-care items offered per day.
func BuildReport(entries []diary.Entry, checklistSize int) Report {
	r := Report{
		MostPositive:  DayMood{Date: NoDate, Mood: diary.MoodAmazing},
		MostStressful: DayMood{Date: NoDate, Mood: diary.MoodAngry},
		Counts:        MoodFrequency(entries),
	}
	r.MostFrequentMood, r.MostFrequentPercent = MostFrequentMood(entries)

	n := len(entries)
	r.DaysWritten = n
	if n == 0 {
		return r
	}

	positive, completed, chars := 0, 0, 0
	best, worst := entries[0], entries[0]
	for _, e := range entries {
		if e.Mood.Positive() {
			positive++
		}
		completed += len(e.SelfCare)
		chars += e.ContentLength()

		// Strict comparisons keep the first entry on ties
		if e.Mood.Value() > best.Mood.Value() {
			best = e
		}
		if e.Mood.Value() < worst.Mood.Value() {
			worst = e
		}
	}

	r.PositiveRate = percent(positive, n)
	if checklistSize > 0 {
		r.ChecklistCompletion = percent(completed, n*checklistSize)
	}
	r.MostPositive = DayMood{Date: best.Date, Mood: best.Mood}
	r.MostStressful = DayMood{Date: worst.Date, Mood: worst.Mood}
	r.AvgWritingMinutes = max(1, round(float64(chars)/float64(n)/charsPerMinute))
	return r
}
