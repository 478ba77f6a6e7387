package kv

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// failingMedium rejects every write, like a full or unavailable medium
type failingMedium struct {
	*MemoryMedium
}

func (failingMedium) Write(string, []byte) error {
	return errors.New("quota exceeded")
}

func TestGet_MissingKeyReturnsDefault(t *testing.T) {
	s := NewStore(NewMemoryMedium())

	got := Get(s, "diaryEntries", []record{{ID: "default"}})
	if len(got) != 1 || got[0].ID != "default" {
		t.Errorf("expected default value, got %v", got)
	}
}

func TestGet_CorruptPayloadReturnsDefault(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated json", `[{"id":"entry_1"`},
		{"wrong shape", `{"id":"entry_1"}`},
		{"empty", ``},
		{"whitespace", "  \n"},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryMedium()
			m.Write("moments", []byte(tt.payload))
			s := NewStore(m)

			got := Get(s, "moments", []record{})
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty default, got %#v", got)
			}
		})
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	s := NewStore(NewMemoryMedium())
	want := []record{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}

	if !s.Set("moments", want) {
		t.Fatal("Set returned false")
	}

	got := Get(s, "moments", []record(nil))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !s.Has("moments") {
		t.Error("Has should report stored key")
	}
}

func TestSet_WriteFailureKeepsOldValue(t *testing.T) {
	mem := NewMemoryMedium()
	mem.Write("diarySettings", []byte(`{"id":"old"}`))
	s := NewStore(failingMedium{mem})

	if s.Set("diarySettings", record{ID: "new"}) {
		t.Fatal("Set should report failure")
	}

	got := Get(s, "diarySettings", record{})
	if got.ID != "old" {
		t.Errorf("expected old value to survive, got %q", got.ID)
	}
}

func TestSet_UnencodableValue(t *testing.T) {
	s := NewStore(NewMemoryMedium())
	if s.Set("bad", make(chan int)) {
		t.Error("Set should fail for values JSON cannot encode")
	}
	if s.Has("bad") {
		t.Error("nothing should be stored after an encode failure")
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := NewStore(NewMemoryMedium())
	s.Set("a", 1)
	s.Set("b", 2)

	s.Remove("a")
	s.Remove("missing")
	if s.Has("a") {
		t.Error("a should be removed")
	}

	s.Clear()
	if keys := s.Keys(""); len(keys) != 0 {
		t.Errorf("expected no keys after clear, got %v", keys)
	}
}

func TestKeys_Pattern(t *testing.T) {
	s := NewStore(NewMemoryMedium())
	s.Set("diaryEntries", []record{})
	s.Set("monthlyReflections_2025_1", record{})
	s.Set("monthlyReflections_2025_12", record{})
	s.Set("diarySettings", record{})

	got := s.Keys("monthlyReflections_*")
	want := []string{"monthlyReflections_2025_1", "monthlyReflections_2025_12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}

	if all := s.Keys(""); len(all) != 4 {
		t.Errorf("expected 4 keys, got %v", all)
	}
}

func TestDiskMedium_RoundTrip(t *testing.T) {
	m, err := OpenDisk(DiskOptions{BasePath: filepath.Join(t.TempDir(), "data")})
	if err != nil {
		t.Fatalf("OpenDisk failed: %v", err)
	}
	s := NewStore(m)

	if !s.Set("diaryEntries", []record{{ID: "entry_1"}}) {
		t.Fatal("Set returned false")
	}
	got := Get(s, "diaryEntries", []record{})
	if len(got) != 1 || got[0].ID != "entry_1" {
		t.Errorf("unexpected value %v", got)
	}

	if _, err := m.Read("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := m.Erase("missing"); err != nil {
		t.Errorf("erasing a missing key should succeed, got %v", err)
	}

	s.Set("diarySettings", record{ID: "settings"})
	if keys := s.Keys(""); !reflect.DeepEqual(keys, []string{"diaryEntries", "diarySettings"}) {
		t.Errorf("unexpected keys %v", keys)
	}

	s.Clear()
	if keys := s.Keys(""); len(keys) != 0 {
		t.Errorf("expected empty store after clear, got %v", keys)
	}
	if !s.Set("moments", []record{}) {
		t.Error("store should be writable after clear")
	}
}

func TestDiskMedium_RejectsPathKeys(t *testing.T) {
	m, err := OpenDisk(DiskOptions{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenDisk failed: %v", err)
	}
	if err := m.Write("../escape", []byte("{}")); err == nil {
		t.Error("expected error for key with path separator")
	}
}

func TestSQLiteMedium_RoundTrip(t *testing.T) {
	m, err := OpenSQLite(filepath.Join(t.TempDir(), "moodlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer m.Close()
	s := NewStore(m)

	s.Set("moments", []record{{ID: "m1"}})
	s.Set("moments", []record{{ID: "m2"}})

	got := Get(s, "moments", []record{})
	if len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("expected overwritten value, got %v", got)
	}

	s.Set("monthlyReflections_2025_3", record{ID: "r"})
	if keys := s.Keys("monthlyReflections_*"); len(keys) != 1 {
		t.Errorf("expected 1 reflection key, got %v", keys)
	}

	s.Remove("moments")
	if s.Has("moments") {
		t.Error("moments should be removed")
	}
}

func TestStore_WatchReportsExternalWrites(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")

	mine, err := OpenDisk(DiskOptions{BasePath: base, ThrottleMs: 20})
	if err != nil {
		t.Fatalf("OpenDisk failed: %v", err)
	}
	other, err := OpenDisk(DiskOptions{BasePath: base})
	if err != nil {
		t.Fatalf("OpenDisk failed: %v", err)
	}

	local := NewStore(mine)
	remote := NewStore(other)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := local.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing
	time.Sleep(50 * time.Millisecond)

	local.Set("moments", []record{{ID: "own"}})
	time.Sleep(100 * time.Millisecond)
	remote.Set("diaryEntries", []record{{ID: "theirs"}})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case change := <-changes:
			if change.Key == "moments" {
				t.Fatal("own write should be suppressed")
			}
			if change.Key == "diaryEntries" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for external change")
		}
	}
}

func TestStore_WatchUnsupported(t *testing.T) {
	s := NewStore(NewMemoryMedium())
	if _, err := s.Watch(context.Background()); !errors.Is(err, ErrWatchUnsupported) {
		t.Errorf("expected ErrWatchUnsupported, got %v", err)
	}
}
