package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Store encodes values as JSON over a Medium. Reads never fail: missing or
// undecodable payloads fall back to the caller's default. Writes report
// success as a bool and log the cause on failure.
type Store struct {
	medium Medium

	mu    sync.Mutex
	known map[string]string // key -> hash of the payload this process last saw
}

// NewStore wraps a medium
func NewStore(m Medium) *Store {
	return &Store{
		medium: m,
		known:  make(map[string]string),
	}
}

// Medium returns the underlying medium
func (s *Store) Medium() Medium {
	return s.medium
}

// Get decodes the value stored under key, or returns def when the key is
// missing, empty, JSON null or not decodable into T.
func Get[T any](s *Store, key string, def T) T {
	data, err := s.medium.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("storage read failed", "key", key, "error", err)
		}
		return def
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return def
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		slog.Warn("stored payload is corrupt, using default", "key", key, "error", err)
		return def
	}

	s.remember(key, HashContent(data))
	return v
}

// Has reports whether key holds a non-empty payload. Corrupt payloads count
// as present.
func (s *Store) Has(key string) bool {
	data, err := s.medium.Read(key)
	if err != nil {
		return false
	}
	return len(bytes.TrimSpace(data)) > 0
}

// Set stores value under key. It returns false when encoding or the write
// fails; the previous value is then left untouched.
func (s *Store) Set(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode value", "key", key, "error", err)
		return false
	}

	if err := s.medium.Write(key, data); err != nil {
		slog.Error("storage write failed", "key", key, "error", err)
		return false
	}

	s.remember(key, HashContent(data))
	slog.Debug("stored value", "key", key, "bytes", len(data))
	return true
}

// Remove deletes key. Missing keys are not an error.
func (s *Store) Remove(key string) {
	if err := s.medium.Erase(key); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("storage remove failed", "key", key, "error", err)
		return
	}
	s.remember(key, "")
}

// Clear removes every key
func (s *Store) Clear() {
	if err := s.medium.EraseAll(); err != nil {
		slog.Error("storage clear failed", "error", err)
		return
	}
	s.mu.Lock()
	s.known = make(map[string]string)
	s.mu.Unlock()
}

// Keys returns the sorted keys matching a doublestar pattern. An empty
// pattern matches everything.
func (s *Store) Keys(pattern string) []string {
	all, err := s.medium.Keys()
	if err != nil {
		slog.Warn("failed to list keys", "error", err)
		return nil
	}

	var keys []string
	for _, key := range all {
		if pattern == "" {
			keys = append(keys, key)
			continue
		}
		matched, err := doublestar.Match(pattern, key)
		if err != nil {
			slog.Warn("invalid key pattern", "pattern", pattern, "error", err)
			return nil
		}
		if matched {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) remember(key, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known[key] = hash
}

// changed reports whether hash differs from what this process last saw for
// key, and records hash as seen.
func (s *Store) changed(key, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.known[key]; ok && prev == hash {
		return false
	}
	s.known[key] = hash
	return true
}

// Change describes a key modified outside this process. Key is empty when
// the medium could not tell which key changed.
type Change struct {
	Key     string
	Removed bool
}

// ErrWatchUnsupported is returned by Watch when the medium has no change feed
var ErrWatchUnsupported = errors.New("kv: medium does not support watching")

// Watch streams changes made by other writers. Echoes of this store's own
// writes are suppressed by comparing payload hashes.
func (s *Store) Watch(ctx context.Context) (<-chan Change, error) {
	w, ok := s.medium.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}

	raw, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case key, ok := <-raw:
				if !ok {
					return
				}

				change := Change{Key: key}
				if key != "" {
					data, err := s.medium.Read(key)
					hash := ""
					if err == nil {
						hash = HashContent(data)
					} else {
						change.Removed = true
					}
					if !s.changed(key, hash) {
						slog.Debug("ignoring own write", "key", key)
						continue
					}
				}

				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
