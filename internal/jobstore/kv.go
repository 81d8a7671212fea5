// Package jobstore tracks extraction job state in a key-value store with TTL.
package jobstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by KV.Get for keys that are absent or expired.
var ErrNotFound = errors.New("key not found")

// KV is a byte-valued key-value store whose entries expire after a TTL.
type KV interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Purger removes expired entries and reports how many were removed.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Clock returns the current time.
type Clock func() time.Time

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryKV is an in-process KV. Expired entries are invisible to Get and are
// reclaimed by Purge.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     Clock
}

// NewMemoryKV creates an empty store. A nil clock uses time.Now.
func NewMemoryKV(clock Clock) *MemoryKV {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryKV{
		entries: make(map[string]entry),
		now:     clock,
	}
}

// Set stores value under key until ttl elapses. A non-positive ttl never expires.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.expired(e) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Purge deletes expired entries.
func (m *MemoryKV) Purge(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryKV) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
