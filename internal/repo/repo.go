// Package repo provides typed collections over the key-value store. Each
// collection enforces its own natural-key rule; none of them caches, so every
// call reflects what is in storage right now.
package repo

import (
	"errors"
	"log/slog"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

// Logical keys in the key-value store
const (
	KeyEntries          = "diaryEntries"
	KeyMoments          = "moments"
	KeySettings         = "diarySettings"
	ReflectionKeyPrefix = "monthlyReflections"
)

var (
	// ErrNotFound is returned when a delete targets a missing id
	ErrNotFound = errors.New("record not found")

	// ErrWriteFailed means the medium rejected the write; nothing changed
	ErrWriteFailed = errors.New("storage write failed")
)

// Repositories bundles the four collections sharing one store
type Repositories struct {
	Store       *kv.Store
	Entries     *Entries
	Moments     *Moments
	Reflections *Reflections
	Settings    *SettingsRepo
}

// New builds the collections over store. defaultTheme seeds Settings when
// none is stored.
func New(store *kv.Store, defaultTheme string) *Repositories {
	return &Repositories{
		Store:       store,
		Entries:     &Entries{store: store},
		Moments:     &Moments{store: store},
		Reflections: &Reflections{store: store},
		Settings:    &SettingsRepo{store: store, defaults: diary.DefaultSettings(defaultTheme)},
	}
}

// EnsureDefaults writes empty collections and default settings for keys that
// are absent. Existing values, even corrupt ones, are left alone.
func (r *Repositories) EnsureDefaults() error {
	seed := []struct {
		key   string
		value any
	}{
		{KeyEntries, []diary.Entry{}},
		{KeyMoments, []diary.Moment{}},
		{KeySettings, r.Settings.defaults},
	}

	for _, s := range seed {
		if r.Store.Has(s.key) {
			continue
		}
		if !r.Store.Set(s.key, s.value) {
			return ErrWriteFailed
		}
		slog.Info("initialized collection", "key", s.key)
	}
	return nil
}

func write(store *kv.Store, key string, value any) error {
	if !store.Set(key, value) {
		return ErrWriteFailed
	}
	return nil
}
