// Package cache provides an injectable in-memory TTL cache.
//
// Entries are immutable once written and replaced wholesale on refresh, never
// patched field by field, so readers can hand out stored values without
// copying. Construct isolated instances in tests; there is no package-level
// singleton.
package cache

import (
	"sync"
	"time"
)

// item stores a cached value with expiration.
type item struct {
	value    interface{}
	expireAt time.Time
}

func (i *item) expired(now time.Time) bool {
	return now.After(i.expireAt)
}

// Memory is a TTL cache with a size cap and LRU eviction.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]*item
	access  map[string]time.Time
	maxSize int

	cleanupTicker *time.Ticker
	done          chan struct{}

	hits   uint64
	misses uint64
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithMaxSize caps the number of entries before LRU eviction kicks in.
func WithMaxSize(n int) Option {
	return func(m *Memory) { m.maxSize = n }
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(m *Memory) {
		m.cleanupTicker.Stop()
		m.cleanupTicker = time.NewTicker(d)
	}
}

// NewMemory creates an in-memory cache. Call Close to stop the sweeper.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		data:          make(map[string]*item),
		access:        make(map[string]time.Time),
		maxSize:       1000,
		cleanupTicker: time.NewTicker(5 * time.Minute),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.sweep()
	return m
}

// Set stores a value with the given TTL, evicting the least recently used
// entry when the cache is full.
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxSize {
		m.evictLRU()
	}

	m.data[key] = &item{value: value, expireAt: time.Now().Add(ttl)}
	m.access[key] = time.Now()
}

// Get returns the stored value, or ok=false on miss or expiry.
func (m *Memory) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, exists := m.data[key]
	if !exists || it.expired(time.Now()) {
		if exists {
			delete(m.data, key)
			delete(m.access, key)
		}
		m.misses++
		return nil, false
	}

	m.access[key] = time.Now()
	m.hits++
	return it.value, true
}

// Delete removes keys from the cache.
func (m *Memory) Delete(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		delete(m.access, key)
	}
}

// Purge removes all entries.
func (m *Memory) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]*item)
	m.access = make(map[string]time.Time)
}

// Len returns the number of live entries (including not-yet-swept expired ones).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// HitRate returns hits, misses since construction.
func (m *Memory) HitRate() (hits, misses uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}

// Close stops the background sweeper.
func (m *Memory) Close() {
	m.cleanupTicker.Stop()
	close(m.done)
}

func (m *Memory) evictLRU() {
	var oldestKey string
	oldestTime := time.Now()

	for key, accessTime := range m.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(m.data, oldestKey)
		delete(m.access, oldestKey)
	}
}

func (m *Memory) sweep() {
	for {
		select {
		case <-m.done:
			return
		case <-m.cleanupTicker.C:
			now := time.Now()
			m.mu.Lock()
			for key, it := range m.data {
				if it.expired(now) {
					delete(m.data, key)
					delete(m.access, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
