package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local Cache. Used in tests and as a single-node
// stand-in when no redis is configured.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable for TTL tests.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
