package timeline

import (
	"testing"

	"github.com/vonshlovens/moodlog/internal/diary"
)

func sampleEntries() []diary.Entry {
	return []diary.Entry{
		{ID: "e1", Date: "05/01/2025", Mood: diary.MoodHappy, Content: "Walked by the LAKE", Timestamp: 500},
		{ID: "e2", Date: "04/01/2025", Mood: diary.MoodHappy, Content: "Long meeting day", Timestamp: 400},
		{ID: "e3", Date: "03/01/2025", Mood: diary.MoodSad, Content: "Lake was frozen", Timestamp: 300},
		{ID: "e4", Date: "02/01/2025", Mood: diary.MoodTired, Content: "Slept early", Timestamp: 200},
		{ID: "e5", Date: "01/01/2025", Mood: diary.MoodAmazing, Content: "New year", Gratitude2: "family", Timestamp: 100},
	}
}

func TestBuild_FilterConjunction(t *testing.T) {
	items := Build(sampleEntries(), nil, Filter{Mood: diary.MoodHappy, Search: "lake"})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Entry.ID != "e1" {
		t.Errorf("expected e1, got %s", items[0].Entry.ID)
	}
}

func TestBuild_NoFilterMatchesAll(t *testing.T) {
	moments := []diary.Moment{{ID: "m1", Name: "Sunrise", Timestamp: 450}}
	items := Build(sampleEntries(), moments, Filter{})

	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	if items[1].Kind != KindMoment {
		t.Errorf("moment should sort between e1 and e2, got %s", items[1].Kind)
	}
}

func TestBuild_SortIsStableOnTies(t *testing.T) {
	entries := []diary.Entry{{ID: "e1", Timestamp: 100}}
	moments := []diary.Moment{
		{ID: "m1", Timestamp: 100},
		{ID: "m2", Timestamp: 100},
	}

	items := Build(entries, moments, Filter{})
	got := []string{items[0].Entry.ID, items[1].Moment.ID, items[2].Moment.ID}
	want := []string{"e1", "m1", "m2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFilter_Match(t *testing.T) {
	entry := Item{Kind: KindEntry, Entry: &diary.Entry{Mood: diary.MoodHappy, Stress: "Deadline", Gratitude3: "Coffee"}}
	moment := Item{Kind: KindMoment, Moment: &diary.Moment{Mood: diary.MoodStar, Name: "Concert", Description: "front row"}}

	tests := []struct {
		name   string
		filter Filter
		item   Item
		want   bool
	}{
		{"search stress field", Filter{Search: "deadline"}, entry, true},
		{"search gratitude", Filter{Search: "COFFEE"}, entry, true},
		{"search moment description", Filter{Search: "row"}, moment, true},
		{"moment fields only", Filter{Search: "deadline"}, moment, false},
		{"kind mismatch", Filter{Kind: KindMoment}, entry, false},
		{"kind match", Filter{Kind: KindMoment}, moment, true},
		{"mood mismatch", Filter{Mood: diary.MoodHappy}, moment, false},
		{"blank search", Filter{Search: "   "}, moment, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tt.item); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Entry "); err != nil || k != KindEntry {
		t.Errorf("ParseKind(Entry) = %q, %v", k, err)
	}
	if _, err := ParseKind("photo"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
