package millsearch

import (
	"context"

	"github.com/kailas-cloud/millsearch/internal/db"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/millsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, req *request.Request) (searchuc.Outcome, error)
	suggestFn func(ctx context.Context, q string) ([]result.Suggestion, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (searchuc.Outcome, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Suggest(ctx context.Context, q string) ([]result.Suggestion, error) {
	return m.suggestFn(ctx, q)
}

// --- listingStore mock ---

type mockStore struct {
	pingFn   func(ctx context.Context) error
	insertFn func(ctx context.Context, rows ...db.ListingRow) ([]int64, error)
	closed   bool
}

func (m *mockStore) Ping(ctx context.Context) error { return m.pingFn(ctx) }

func (m *mockStore) Insert(ctx context.Context, rows ...db.ListingRow) ([]int64, error) {
	return m.insertFn(ctx, rows...)
}

func (m *mockStore) Close() { m.closed = true }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(store listingStore, searchSvc searchUseCase, obs *observer) *Client {
	return &Client{
		store:     store,
		searchSvc: searchSvc,
		limits:    request.DefaultLimits(),
		obs:       obs,
	}
}
