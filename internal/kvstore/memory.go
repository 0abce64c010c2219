package kvstore

import (
	"context"
	"maps"
	"sync"
)

// Memory keeps values in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) Bool(_ context.Context, key string, def bool) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key].(bool); ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) String(_ context.Context, key string, def string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key].(string); ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) Edit() Editor {
	return &batch{commit: m.commit}
}

// Snapshot returns a copy of every stored value.
func (m *Memory) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

func (m *Memory) commit(_ context.Context, writes []write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		m.values[w.key] = w.value
	}
	return nil
}
