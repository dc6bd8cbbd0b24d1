package rescache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// DefaultTTL is how long a computed page stays valid.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries bounds the in-memory cache size.
const DefaultMaxEntries = 10000

type entry struct {
	page      result.Page
	expiresAt time.Time
}

// Memory is a process-local TTL cache. Entries expire a fixed TTL after
// insertion and are purged lazily on lookup, or in bulk when the cache
// grows past its entry limit. Cached pages are shared and must not be mutated.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithMaxEntries overrides the entry limit.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// NewMemory creates an in-memory cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func NewMemory(ttl time.Duration, cacheTotal *prometheus.CounterVec, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		cacheTotal: cacheTotal,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get returns the cached page for key. An expired entry is removed and reported as a miss.
func (m *Memory) Get(_ context.Context, key string) (result.Page, bool) {
	now := m.now()

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		inc(m.cacheTotal, resultMiss)
		return result.Page{}, false
	}
	if !now.Before(e.expiresAt) {
		m.mu.Lock()
		// a concurrent Set may have refreshed the entry
		if cur, ok := m.entries[key]; ok && !now.Before(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		inc(m.cacheTotal, resultMiss)
		return result.Page{}, false
	}
	inc(m.cacheTotal, resultHit)
	return e.page, true
}

// Set stores page under key (last write wins).
func (m *Memory) Set(_ context.Context, key string, page result.Page) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{page: page, expiresAt: now.Add(m.ttl)}
	if len(m.entries) > m.maxEntries {
		m.evictLocked(now)
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictLocked drops expired entries, then the soonest-expiring ones until under the limit.
func (m *Memory) evictLocked(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	for len(m.entries) > m.maxEntries {
		var (
			oldestKey string
			oldestAt  time.Time
		)
		for k, e := range m.entries {
			if oldestKey == "" || e.expiresAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.expiresAt
			}
		}
		delete(m.entries, oldestKey)
	}
}
