package repo

import (
	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

// SettingsRepo holds the singleton settings record
type SettingsRepo struct {
	store    *kv.Store
	defaults diary.Settings
}

// Get returns the stored settings, or the defaults when absent or corrupt
func (r *SettingsRepo) Get() diary.Settings {
	s := kv.Get(r.store, KeySettings, r.defaults)
	if !diary.ValidTheme(s.Theme) {
		s.Theme = r.defaults.Theme
	}
	return s
}

// Set replaces the settings record
func (r *SettingsRepo) Set(s diary.Settings) error {
	return write(r.store, KeySettings, s)
}
