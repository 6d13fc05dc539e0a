package store

import (
	"context"
	"sync"
)

type memoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV returns a [KeyValueStore] that lives only as long as the
// process.
func NewMemoryKV() KeyValueStore {
	return &memoryKV{items: make(map[string]string)}
}

func (m *memoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryKV) SetItem(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryKV) RemoveItem(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
