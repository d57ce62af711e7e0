package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count      int64
	expiration time.Time
}

// Memory is an in-memory Store. Counters are per process, so limits apply per
// instance, not globally. Suitable for single-instance deployments.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	stopCh  chan struct{}
}

// NewMemory creates an in-memory store with a background sweep of expired
// entries.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]*memoryEntry),
		stopCh:  make(chan struct{}),
	}
	go m.cleanup()
	return m
}

func (m *Memory) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, exists := m.entries[key]
	if !exists || now.After(entry.expiration) {
		m.entries[key] = &memoryEntry{count: 1, expiration: now.Add(window)}
		return 1, window, nil
	}

	entry.count++
	ttl := time.Until(entry.expiration)
	if ttl < 0 {
		ttl = 0
	}
	return entry.count, ttl, nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	if !exists {
		return 0, nil
	}
	ttl := time.Until(entry.expiration)
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *Memory) Close() error {
	close(m.stopCh)
	return nil
}

func (m *Memory) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, entry := range m.entries {
				if now.After(entry.expiration) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		case <-m.stopCh:
			return
		}
	}
}
