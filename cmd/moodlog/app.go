package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vonshlovens/moodlog/internal/config"
	"github.com/vonshlovens/moodlog/internal/kv"
	"github.com/vonshlovens/moodlog/internal/render"
	"github.com/vonshlovens/moodlog/internal/repo"
	"github.com/vonshlovens/moodlog/internal/sync"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

// app bundles everything one command needs
type app struct {
	cfg      *config.Config
	store    *kv.Store
	repos    *repo.Repositories
	terminal *render.Terminal
	coord    *sync.Coordinator
	closers  []func() error
}

// mode says what a command shows around its action
type mode struct {
	view   sync.View
	filter timeline.Filter

	// paint shows views and charts, status shows the streak and save status
	paint  bool
	status bool
}

// openApp loads config, opens the store and starts a coordinator on m.view
func openApp(m mode) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}

	medium, err := a.openMedium()
	if err != nil {
		return nil, err
	}

	a.store = kv.NewStore(medium)
	a.repos = repo.New(a.store, cfg.Diary.DefaultTheme)
	a.terminal = render.NewTerminal(os.Stdout, cfg.Diary.Checklist)
	a.terminal.Quiet = !m.status
	a.terminal.Mute = !m.paint

	opts := sync.Options{
		Rules:           cfg.Diary.Rules(),
		Checklist:       cfg.Diary.Checklist,
		AutosaveDelay:   cfg.Timers.AutosaveDelay(),
		SavingIndicator: cfg.Timers.SavingIndicator(),
		StatusReset:     cfg.Timers.StatusReset(),
		Progress:        os.Stderr,
		InitialView:     m.view,
		InitialFilter:   m.filter,
	}
	a.coord = sync.NewCoordinator(a.repos, a.terminal, a.terminal, a.terminal, opts)
	a.closers = append(a.closers, func() error {
		a.coord.Close()
		return nil
	})

	if err := a.coord.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}

func (a *app) openMedium() (kv.Medium, error) {
	store := a.cfg.Store
	slog.Debug("opening store", "backend", store.Backend, "path", store.Path)

	switch store.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(store.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		m, err := kv.OpenSQLite(store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, m.Close)
		return m, nil

	case config.BackendMemory:
		slog.Warn("using in-memory store, nothing will be kept after exit")
		return kv.NewMemoryMedium(), nil

	default:
		m, err := kv.OpenDisk(kv.DiskOptions{
			BasePath:       store.Path,
			CacheSizeKB:    store.CacheSizeKB,
			ThrottleMs:     a.cfg.Timers.WatchThrottleMs,
			IgnorePatterns: store.IgnorePatterns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		return m, nil
	}
}

// Close releases the store, last opened first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to close", "error", err)
		}
	}
}

// encodePhoto reads an image file into a data URL
func encodePhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	mimeType := mimetype.Detect(data).String()
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
