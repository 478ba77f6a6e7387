package repo

import (
	"sort"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

// Entries is the diary entry collection. Date is the natural key.
type Entries struct {
	store *kv.Store
}

// Stored returns entries in storage order (newest insert first by convention)
func (r *Entries) Stored() []diary.Entry {
	return kv.Get(r.store, KeyEntries, []diary.Entry{})
}

// List returns entries ordered by timestamp, newest first. Equal timestamps
// keep storage order.
func (r *Entries) List() []diary.Entry {
	entries := r.Stored()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries
}

// GetByDate returns the entry for a calendar day
func (r *Entries) GetByDate(date string) (diary.Entry, bool) {
	for _, e := range r.Stored() {
		if e.Date == date {
			return e, true
		}
	}
	return diary.Entry{}, false
}

// Upsert replaces the entry with the same date, or prepends e. It reports
// whether an existing entry was replaced.
func (r *Entries) Upsert(e diary.Entry) (bool, error) {
	entries := r.Stored()

	replaced := false
	for i := range entries {
		if entries[i].Date == e.Date {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append([]diary.Entry{e}, entries...)
	}

	if err := write(r.store, KeyEntries, entries); err != nil {
		return false, err
	}
	return replaced, nil
}

// DeleteByID removes the first entry with id
func (r *Entries) DeleteByID(id string) error {
	entries := r.Stored()
	for i := range entries {
		if entries[i].ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return write(r.store, KeyEntries, entries)
		}
	}
	return ErrNotFound
}

// ReplaceAll overwrites the collection wholesale
func (r *Entries) ReplaceAll(entries []diary.Entry) error {
	if entries == nil {
		entries = []diary.Entry{}
	}
	return write(r.store, KeyEntries, entries)
}
