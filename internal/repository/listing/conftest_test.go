package listing

import (
	"context"
	"testing"

	"github.com/kailas-cloud/millsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	fetchFn func(ctx context.Context, pred db.Predicate, limit int) ([]db.ListingRow, error)
	countFn func(ctx context.Context, column string, pred db.Predicate, limit int) ([]db.ValueCount, error)
}

func (m *mockStore) FetchListings(ctx context.Context, pred db.Predicate, limit int) ([]db.ListingRow, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, pred, limit)
	}
	return nil, nil
}

func (m *mockStore) CountDistinct(
	ctx context.Context, column string, pred db.Predicate, limit int,
) ([]db.ValueCount, error) {
	if m.countFn != nil {
		return m.countFn(ctx, column, pred, limit)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
