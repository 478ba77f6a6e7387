package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// Storage backends
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Diary  DiaryConfig  `mapstructure:"diary"`
	Timers TimersConfig `mapstructure:"timers"`
}

// StoreConfig selects the persistence medium
type StoreConfig struct {
	Backend        string   `mapstructure:"backend" validate:"oneof=diskv sqlite memory"`
	Path           string   `mapstructure:"path"`
	CacheSizeKB    int      `mapstructure:"cache_size_kb" validate:"min=0"`
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
}

// DiaryConfig holds the entry form rules
type DiaryConfig struct {
	DefaultTheme     string   `mapstructure:"default_theme" validate:"theme"`
	MinContentLength int      `mapstructure:"min_content_length" validate:"min=1"`
	Checklist        []string `mapstructure:"checklist" validate:"min=1,dive,required"`
	MaxPhotos        int      `mapstructure:"max_photos" validate:"min=0"`
}

// TimersConfig holds the delays of the deferred UI updates
type TimersConfig struct {
	AutosaveDelayMs   int `mapstructure:"autosave_delay_ms" validate:"min=0"`
	SavingIndicatorMs int `mapstructure:"saving_indicator_ms" validate:"min=0"`
	StatusResetMs     int `mapstructure:"status_reset_ms" validate:"min=0"`
	WatchThrottleMs   int `mapstructure:"watch_throttle_ms" validate:"min=0"`
}

func (t TimersConfig) AutosaveDelay() time.Duration {
	return time.Duration(t.AutosaveDelayMs) * time.Millisecond
}

func (t TimersConfig) SavingIndicator() time.Duration {
	return time.Duration(t.SavingIndicatorMs) * time.Millisecond
}

func (t TimersConfig) StatusReset() time.Duration {
	return time.Duration(t.StatusResetMs) * time.Millisecond
}

// Rules returns the entry validation limits
func (d DiaryConfig) Rules() diary.Rules {
	return diary.Rules{
		MinContentLength: d.MinContentLength,
		MaxPhotos:        d.MaxPhotos,
	}
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:     BackendDiskv,
			CacheSizeKB: 1024,
			IgnorePatterns: []string{
				".*",
				"*.tmp",
				"*~",
			},
		},
		Diary: DiaryConfig{
			DefaultTheme:     diary.DefaultTheme,
			MinContentLength: 5,
			Checklist: []string{
				"Drink enough water",
				"Exercise",
				"Meditate",
				"Read a book",
				"Sleep early",
				"Talk to someone",
			},
			MaxPhotos: 3,
		},
		Timers: TimersConfig{
			AutosaveDelayMs:   2000,
			SavingIndicatorMs: 500,
			StatusResetMs:     2000,
			WatchThrottleMs:   100,
		},
	}
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.path", "")
	v.SetDefault("store.cache_size_kb", defaults.Store.CacheSizeKB)
	v.SetDefault("store.ignore_patterns", defaults.Store.IgnorePatterns)
	v.SetDefault("diary.default_theme", defaults.Diary.DefaultTheme)
	v.SetDefault("diary.min_content_length", defaults.Diary.MinContentLength)
	v.SetDefault("diary.checklist", defaults.Diary.Checklist)
	v.SetDefault("diary.max_photos", defaults.Diary.MaxPhotos)
	v.SetDefault("timers.autosave_delay_ms", defaults.Timers.AutosaveDelayMs)
	v.SetDefault("timers.saving_indicator_ms", defaults.Timers.SavingIndicatorMs)
	v.SetDefault("timers.status_reset_ms", defaults.Timers.StatusResetMs)
	v.SetDefault("timers.watch_throttle_ms", defaults.Timers.WatchThrottleMs)

	// Configure config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	// Enable environment variable substitution
	v.AutomaticEnv()
	v.SetEnvPrefix("MOODLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Defaults alone are a working configuration
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.Store.Backend)
	}
	path, err := expandPath(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}
	cfg.Store.Path = path

	// Validate
	validate := validator.New()

	// Register custom validation for theme names
	validate.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return diary.ValidTheme(fl.Field().String())
	})

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func defaultStorePath(backend string) string {
	if backend == BackendSQLite {
		return filepath.Join(getConfigDir(), "diary.db")
	}
	return filepath.Join(getConfigDir(), "data")
}

// getConfigDir returns the appropriate config directory for the OS
func getConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "moodlog")
		}
		return filepath.Join(os.Getenv("USERPROFILE"), ".config", "moodlog")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "moodlog")
		}
		home, _ := homedir.Dir()
		return filepath.Join(home, ".config", "moodlog")
	}
}

// GetStateDir returns the config directory, creating it when missing
func GetStateDir() (string, error) {
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}

// expandPath expands ~ and environment variables in a path
func expandPath(path string) (string, error) {
	return homedir.Expand(os.ExpandEnv(path))
}

// StarterConfig is written by `moodlog init`
const StarterConfig = `# moodlog configuration
store:
  backend: diskv        # diskv | sqlite | memory
  # path: ~/.config/moodlog/data
diary:
  default_theme: mint   # mint | pink | lavender | ocean | night
  min_content_length: 5
  max_photos: 3
timers:
  autosave_delay_ms: 2000
  saving_indicator_ms: 500
  status_reset_ms: 2000
  watch_throttle_ms: 100
`
