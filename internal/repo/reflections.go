package repo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

// Reflections stores one record per month under a key derived from
// (year, month) rather than in a list.
type Reflections struct {
	store *kv.Store
}

// ReflectionKey returns the storage key for a month, e.g.
// monthlyReflections_2025_1
func ReflectionKey(year, month int) string {
	return fmt.Sprintf("%s_%d_%d", ReflectionKeyPrefix, year, month)
}

// ParseReflectionKey is the inverse of ReflectionKey. ok is false for keys
// of another shape or with a month outside 1..12.
func ParseReflectionKey(key string) (year, month int, ok bool) {
	rest, found := strings.CutPrefix(key, ReflectionKeyPrefix+"_")
	if !found {
		return 0, 0, false
	}
	y, m, found := strings.Cut(rest, "_")
	if !found {
		return 0, 0, false
	}
	year, yErr := strconv.Atoi(y)
	month, mErr := strconv.Atoi(m)
	if yErr != nil || mErr != nil || month < 1 || month > 12 || ReflectionKey(year, month) != key {
		return 0, 0, false
	}
	return year, month, true
}

// Get returns the reflection for a month
func (r *Reflections) Get(year, month int) (diary.Reflection, bool) {
	var zero diary.Reflection
	rec := kv.Get(r.store, ReflectionKey(year, month), zero)
	if rec == zero {
		return zero, false
	}
	return rec, true
}

// Save replaces the reflection for rec's month
func (r *Reflections) Save(rec diary.Reflection) error {
	return write(r.store, ReflectionKey(rec.Year, rec.Month), rec)
}

// ReplaceAll removes every stored month, then saves recs
func (r *Reflections) ReplaceAll(recs []diary.Reflection) error {
	for _, key := range r.store.Keys(ReflectionKeyPrefix + "_*") {
		r.store.Remove(key)
	}
	for _, rec := range recs {
		if err := r.Save(rec); err != nil {
			return err
		}
	}
	return nil
}

// List returns every stored reflection, most recent month first
func (r *Reflections) List() []diary.Reflection {
	var out []diary.Reflection
	for _, key := range r.store.Keys(ReflectionKeyPrefix + "_*") {
		var zero diary.Reflection
		rec := kv.Get(r.store, key, zero)
		if rec == zero {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}
