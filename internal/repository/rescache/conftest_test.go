package rescache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/millsearch/internal/db"
	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memKVStore is a map-backed store that honors nothing but Get/Set.
type memKVStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKVStore() *memKVStore { return &memKVStore{data: map[string][]byte{}} }

func (m *memKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_search_cache_total",
		Help: "test",
	}, []string{"result"})
}

func samplePage(t *testing.T) result.Page {
	t.Helper()
	price := 48.0
	l, err := listing.New(listing.Attributes{
		ID: 11, SellerID: 2, Company: "Acme", Make: "ITC", Grade: "Supreme", GSM: 120,
		DeckleMM: 700, GrainMM: 1000, Price: &price, ShowPrice: true, Quantity: 3, Unit: "ton",
		Location: "Delhi", CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	return result.Page{
		Items:      []result.Result{result.New(l, 125).OnPage(1)},
		Total:      1,
		Page:       1,
		PageSize:   20,
		TotalPages: 1,
		Facets: result.Facets{
			Makes: []result.Bucket{{Key: "ITC", DocCount: 1}},
			GSM:   []result.Bucket{{Key: "120", DocCount: 1}},
		},
	}
}
