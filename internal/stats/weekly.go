package stats

import (
	"time"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// WeekDays is the length of the weekly series
const WeekDays = 7

// WeeklyPoint is one bar of the weekly mood chart. Days without an entry
// carry the neutral value with HasEntry false.
type WeeklyPoint struct {
	Date     string
	Day      string
	Mood     diary.Mood
	Value    int
	HasEntry bool
}

// WeeklySeries returns the last seven calendar days ending today, oldest first
func WeeklySeries(entries []diary.Entry, now time.Time) []WeeklyPoint {
	byDate := make(map[string]diary.Entry, len(entries))
	for _, e := range entries {
		if _, ok := byDate[e.Date]; !ok {
			byDate[e.Date] = e
		}
	}

	today := diary.Midnight(now)
	points := make([]WeeklyPoint, 0, WeekDays)
	for i := WeekDays - 1; i >= 0; i-- {
		day := diary.AddDays(today, -i)
		p := WeeklyPoint{
			Date:  diary.DateKey(day),
			Day:   day.Weekday().String()[:3],
			Value: diary.NeutralValue,
		}
		if e, ok := byDate[p.Date]; ok {
			p.Mood = e.Mood
			p.Value = e.Mood.Value()
			p.HasEntry = true
		}
		points = append(points, p)
	}
	return points
}
