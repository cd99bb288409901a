// Package cache provides the fingerprint-keyed store of previously
// generated values used by the generation coordinator. Entries expire
// after a configured time-to-live; there is no eviction policy beyond
// expiry.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used when a Manager is constructed without an explicit
// time-to-live.
const DefaultTTL = 300 * time.Second

type entry struct {
	value     any
	expiresAt time.Time
}

// Manager is a thread-safe TTL cache keyed by schema fingerprint.
// Expired entries are dropped lazily on read.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// withClock overrides the time source, for expiry tests.
func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetCachedValue returns the value stored under key, or false when the
// key is absent or its entry has expired.
func (m *Manager) GetCachedValue(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; another writer may have
		// refreshed the entry in between.
		if cur, still := m.entries[key]; still && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its expiry.
func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(m.ttl)}
}

// Len returns the number of entries, including any not yet swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear removes all entries.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}
