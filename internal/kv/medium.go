package kv

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by a Medium when a key has no stored value
var ErrNotFound = errors.New("kv: key not found")

// Medium is a string-keyed persistence backend holding opaque payloads.
// Write must replace the whole value or leave the old value in place.
type Medium interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Erase(key string) error
	EraseAll() error
	Keys() ([]string, error)
}

// Watcher is implemented by media that can report changes made by other
// processes sharing the same storage. An empty key means "unknown, refresh
// everything".
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// MemoryMedium keeps payloads in process memory
type MemoryMedium struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryMedium creates an empty in-memory medium
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

func (m *MemoryMedium) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MemoryMedium) Write(key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = buf
	return nil
}

func (m *MemoryMedium) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryMedium) EraseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

func (m *MemoryMedium) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
