package diary

// Themes lists the cosmetic themes, first is the default
var Themes = []string{"mint", "pink", "lavender", "ocean", "night"}

// DefaultTheme is applied on first run
const DefaultTheme = "mint"

// ValidTheme reports whether name is a known theme
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// Settings is the singleton preferences record
type Settings struct {
	Theme         string `json:"theme" yaml:"theme" validate:"theme"`
	Notifications bool   `json:"notifications" yaml:"notifications"`
	AutoSave      bool   `json:"autoSave" yaml:"autoSave"`
	Streak        int    `json:"streak" yaml:"streak"`
}

// DefaultSettings returns the first-run settings using theme, or
// DefaultTheme when theme is not valid.
func DefaultSettings(theme string) Settings {
	if !ValidTheme(theme) {
		theme = DefaultTheme
	}
	return Settings{
		Theme:         theme,
		Notifications: true,
		AutoSave:      true,
	}
}

// WithTheme returns a copy of s using theme
func (s Settings) WithTheme(theme string) (Settings, error) {
	s.Theme = theme
	if err := check(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
