package repo

import (
	"errors"
	"testing"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

type readOnlyMedium struct {
	*kv.MemoryMedium
}

func (readOnlyMedium) Write(string, []byte) error {
	return errors.New("medium unavailable")
}

func newRepos() *Repositories {
	return New(kv.NewStore(kv.NewMemoryMedium()), "mint")
}

func TestEntries_UpsertByDate(t *testing.T) {
	r := newRepos()

	first := diary.Entry{ID: "entry_1", Date: "01/01/2025", Content: "first draft", Timestamp: 1}
	second := diary.Entry{ID: "entry_2", Date: "01/01/2025", Content: "final words", Timestamp: 2}

	if replaced, err := r.Entries.Upsert(first); err != nil || replaced {
		t.Fatalf("first upsert: replaced=%v err=%v", replaced, err)
	}
	if replaced, err := r.Entries.Upsert(second); err != nil || !replaced {
		t.Fatalf("second upsert: replaced=%v err=%v", replaced, err)
	}

	entries := r.Entries.List()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry for the date, got %d", len(entries))
	}
	if entries[0].Content != "final words" {
		t.Errorf("expected latest content, got %q", entries[0].Content)
	}
}

func TestEntries_PrependAndSort(t *testing.T) {
	r := newRepos()
	r.Entries.Upsert(diary.Entry{ID: "a", Date: "01/01/2025", Timestamp: 300})
	r.Entries.Upsert(diary.Entry{ID: "b", Date: "02/01/2025", Timestamp: 100})
	r.Entries.Upsert(diary.Entry{ID: "c", Date: "03/01/2025", Timestamp: 200})

	stored := r.Entries.Stored()
	if stored[0].ID != "c" || stored[2].ID != "a" {
		t.Errorf("new entries should be prepended, got %v", ids(stored))
	}

	listed := r.Entries.List()
	want := []string{"a", "c", "b"}
	for i, id := range want {
		if listed[i].ID != id {
			t.Errorf("List()[%d] = %s, want %s", i, listed[i].ID, id)
		}
	}
}

func TestEntries_DeleteByID(t *testing.T) {
	r := newRepos()
	r.Entries.Upsert(diary.Entry{ID: "a", Date: "01/01/2025"})

	if err := r.Entries.DeleteByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := r.Entries.DeleteByID("a"); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := r.Entries.DeleteByID("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestEntries_WriteFailure(t *testing.T) {
	r := New(kv.NewStore(readOnlyMedium{kv.NewMemoryMedium()}), "mint")
	if _, err := r.Entries.Upsert(diary.Entry{ID: "a", Date: "01/01/2025"}); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("expected ErrWriteFailed, got %v", err)
	}
}

func TestMoments_ManualUpsertByDateAndName(t *testing.T) {
	r := newRepos()

	r.Moments.Upsert(diary.Moment{ID: "m1", Date: "01/01/2025", Name: "X", Description: "one", Type: diary.MomentManual})
	r.Moments.Upsert(diary.Moment{ID: "m2", Date: "01/01/2025", Name: "X", Description: "two", Type: diary.MomentManual})
	r.Moments.Upsert(diary.Moment{ID: "m3", Date: "01/01/2025", Name: "Y", Type: diary.MomentManual})

	moments := r.Moments.Stored()
	if len(moments) != 2 {
		t.Fatalf("expected 2 moments, got %d", len(moments))
	}

	m, ok := r.Moments.GetByKey("01/01/2025", "X")
	if !ok || m.Description != "two" {
		t.Errorf("expected second description, got %+v", m)
	}
}

func TestMoments_HighlightUpsertByDate(t *testing.T) {
	r := newRepos()

	r.Moments.Upsert(diary.Moment{ID: "h1", Date: "01/01/2025", Name: "old highlight", Type: diary.MomentHighlight})
	r.Moments.Upsert(diary.Moment{ID: "h2", Date: "01/01/2025", Name: "new highlight", Type: diary.MomentHighlight})
	// A manual moment named like the highlight is a different record
	r.Moments.Upsert(diary.Moment{ID: "m1", Date: "01/01/2025", Name: "new highlight", Type: diary.MomentManual})

	moments := r.Moments.Stored()
	if len(moments) != 2 {
		t.Fatalf("expected 2 moments, got %d: %+v", len(moments), moments)
	}
	for _, m := range moments {
		if m.Type == diary.MomentHighlight && m.ID != "h2" {
			t.Errorf("highlight should be replaced, got %s", m.ID)
		}
	}
}

func TestReflections_KeyedByMonth(t *testing.T) {
	r := newRepos()

	if got := ReflectionKey(2025, 1); got != "monthlyReflections_2025_1" {
		t.Errorf("ReflectionKey = %q", got)
	}

	r.Reflections.Save(diary.Reflection{ID: "reflection_2025_1", Year: 2025, Month: 1, Learned: "first"})
	r.Reflections.Save(diary.Reflection{ID: "reflection_2025_1", Year: 2025, Month: 1, Learned: "second"})
	r.Reflections.Save(diary.Reflection{ID: "reflection_2024_12", Year: 2024, Month: 12, Learned: "older"})

	rec, ok := r.Reflections.Get(2025, 1)
	if !ok || rec.Learned != "second" {
		t.Errorf("expected replaced reflection, got %+v", rec)
	}
	if _, ok := r.Reflections.Get(2025, 2); ok {
		t.Error("no reflection stored for February")
	}

	list := r.Reflections.List()
	if len(list) != 2 || list[0].Month != 1 || list[1].Year != 2024 {
		t.Errorf("unexpected list order %+v", list)
	}
}

func TestSettings_DefaultsAndSet(t *testing.T) {
	r := newRepos()

	if got := r.Settings.Get(); got.Theme != "mint" {
		t.Errorf("expected default theme, got %q", got.Theme)
	}

	s := r.Settings.Get()
	s.Theme = "lavender"
	if err := r.Settings.Set(s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := r.Settings.Get(); got.Theme != "lavender" {
		t.Errorf("theme = %q, want lavender", got.Theme)
	}
}

func TestEnsureDefaults(t *testing.T) {
	r := newRepos()
	r.Store.Set(KeyMoments, []diary.Moment{{ID: "keep"}})

	if err := r.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	if !r.Store.Has(KeyEntries) || !r.Store.Has(KeySettings) {
		t.Error("missing keys should be created")
	}
	if moments := r.Moments.Stored(); len(moments) != 1 || moments[0].ID != "keep" {
		t.Errorf("existing moments should be kept, got %+v", moments)
	}
	if s := r.Settings.Get(); !s.Notifications || !s.AutoSave {
		t.Errorf("unexpected default settings %+v", s)
	}
}

func ids(entries []diary.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestParseReflectionKey(t *testing.T) {
	tests := []struct {
		key         string
		year, month int
		ok          bool
	}{
		{"monthlyReflections_2025_1", 2025, 1, true},
		{"monthlyReflections_2024_12", 2024, 12, true},
		{"monthlyReflections_2025_0", 0, 0, false},
		{"monthlyReflections_2025_13", 0, 0, false},
		{"monthlyReflections_2025_01", 0, 0, false},
		{"monthlyReflections_2025_1_x", 0, 0, false},
		{"diaryEntries", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			year, month, ok := ParseReflectionKey(tt.key)
			if year != tt.year || month != tt.month || ok != tt.ok {
				t.Errorf("ParseReflectionKey(%q) = %d, %d, %v", tt.key, year, month, ok)
			}
		})
	}
}

func TestReflections_ReplaceAll(t *testing.T) {
	r := newRepos()
	if err := r.EnsureDefaults(); err != nil {
		t.Fatal(err)
	}
	r.Reflections.Save(diary.Reflection{ID: "reflection_2024_12", Year: 2024, Month: 12, Learned: "old"})

	if err := r.Reflections.ReplaceAll([]diary.Reflection{{ID: "reflection_2025_2", Year: 2025, Month: 2, Learned: "new"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	list := r.Reflections.List()
	if len(list) != 1 || list[0].Learned != "new" {
		t.Errorf("unexpected reflections %+v", list)
	}
	if !r.Store.Has(KeyEntries) {
		t.Error("other keys must survive")
	}
}
