// Package cache provides caching implementations for resolved scope modes.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/dashcore"
)

// Compile-time interface check.
var _ dashcore.Cache = (*Memory)(nil)

// Memory is an in-memory cache with TTL-based expiration.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	mode      dashcore.ScopeMode
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a cached scope mode.
func (m *Memory) Get(_ context.Context, subjectID string, verb dashcore.Verb, entity dashcore.Entity) (dashcore.ScopeMode, bool) {
	key := cacheKey(subjectID, verb, entity)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.mode, true
}

// Set stores a resolved scope mode.
func (m *Memory) Set(_ context.Context, subjectID string, verb dashcore.Verb, entity dashcore.Entity, mode dashcore.ScopeMode) {
	key := cacheKey(subjectID, verb, entity)
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		mode:      mode,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// InvalidateSubject removes all cached modes for a subject.
func (m *Memory) InvalidateSubject(_ context.Context, subjectID string) {
	prefix := subjectID + ":"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(m.entries, k)
		}
	}
}

func cacheKey(subjectID string, verb dashcore.Verb, entity dashcore.Entity) string {
	return fmt.Sprintf("%s:%s:%s", subjectID, verb, entity)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
