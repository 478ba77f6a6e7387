package kv

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/peterbourgon/diskv/v3"
)

// DiskMedium stores one file per key in a flat directory. Writes go through
// a sibling temp directory and are renamed into place.
type DiskMedium struct {
	d              *diskv.Diskv
	basePath       string
	throttleMs     int
	ignorePatterns []string

	// set once Watch runs; other writers make the read cache unsafe
	watching atomic.Bool
}

// DiskOptions configures a DiskMedium
type DiskOptions struct {
	BasePath       string
	CacheSizeKB    int
	ThrottleMs     int
	IgnorePatterns []string
}

// OpenDisk creates the base directory and returns a medium rooted there
func OpenDisk(opts DiskOptions) (*DiskMedium, error) {
	if opts.BasePath == "" {
		return nil, errors.New("kv: disk base path required")
	}
	base := filepath.Clean(opts.BasePath)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}

	tmp := base + ".tmp"
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure temp path: %w", err)
	}

	ignore := opts.IgnorePatterns
	if len(ignore) == 0 {
		ignore = []string{".*", "*.tmp", "*~"}
	}
	throttle := opts.ThrottleMs
	if throttle <= 0 {
		throttle = 100
	}

	return &DiskMedium{
		d: diskv.New(diskv.Options{
			BasePath:     base,
			TempDir:      tmp,
			Transform:    flatTransform,
			CacheSizeMax: uint64(opts.CacheSizeKB) * 1024,
		}),
		basePath:       base,
		throttleMs:     throttle,
		ignorePatterns: ignore,
	}, nil
}

// every key lives directly under the base path
func flatTransform(string) []string {
	return []string{}
}

// BasePath returns the directory holding the key files
func (m *DiskMedium) BasePath() string {
	return m.basePath
}

func (m *DiskMedium) Read(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	rc, err := m.d.ReadStream(key, m.watching.Load())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (m *DiskMedium) Write(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return m.d.Write(key, data)
}

func (m *DiskMedium) Erase(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := m.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (m *DiskMedium) EraseAll() error {
	if err := m.d.EraseAll(); err != nil {
		return err
	}
	// EraseAll removes the base directory itself
	return os.MkdirAll(m.basePath, 0o755)
}

func (m *DiskMedium) Keys() ([]string, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	for key := range m.d.Keys(cancel) {
		if m.shouldIgnore(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// checkKey rejects keys that would escape the flat layout
func checkKey(key string) error {
	if key == "" {
		return errors.New("kv: empty key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}
