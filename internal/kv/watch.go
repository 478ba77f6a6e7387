package kv

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/vonshlovens/moodlog/internal/schedule"
)

// Watch reports keys whose files were created, written, removed or renamed
// in the base directory. Bursts of events for the same key are coalesced.
// The channel is closed when ctx is done.
func (m *DiskMedium) Watch(ctx context.Context) (<-chan string, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kv: create watcher: %w", err)
	}
	if err := fsWatcher.Add(m.basePath); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("kv: watch %s: %w", m.basePath, err)
	}

	m.watching.Store(true)

	feed := newChangeFeed(64)
	throttle := schedule.NewDebouncer(m.throttleMs)
	send := func(key string) { feed.send(key) }

	go func() {
		defer feed.close()
		defer fsWatcher.Close()
		defer throttle.Stop()

		slog.Info("store watcher started", "path", m.basePath)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				key := filepath.Base(event.Name)
				if m.shouldIgnore(key) {
					continue
				}
				if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				throttle.Add(key, func() { send(key) })

			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				slog.Error("store watcher error", "error", err)
				// Cannot tell what changed; ask for a full refresh
				throttle.Add("", func() { send("") })
			}
		}
	}()

	return feed.ch, nil
}

// changeFeed is a buffered key channel that can be closed while throttled
// callbacks are still sending.
type changeFeed struct {
	mu     sync.Mutex
	ch     chan string
	closed bool
}

func newChangeFeed(size int) *changeFeed {
	return &changeFeed{ch: make(chan string, size)}
}

// send delivers key without blocking. It reports false when the feed is
// closed or the consumer is behind.
func (f *changeFeed) send(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	select {
	case f.ch <- key:
		return true
	default:
		// Consumer is behind; the next refresh reads current state anyway
		slog.Debug("dropping change notification", "key", key)
		return false
	}
}

func (f *changeFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// shouldIgnore checks if a key file matches any ignore pattern
func (m *DiskMedium) shouldIgnore(key string) bool {
	for _, pattern := range m.ignorePatterns {
		matched, err := doublestar.Match(pattern, key)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
