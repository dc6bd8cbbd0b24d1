package search

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	findFn       func(ctx context.Context, c criteria.Criteria, limit int) ([]listing.Listing, error)
	distinctFn   func(ctx context.Context, field string, c criteria.Criteria, limit int) ([]result.Bucket, error)
	suggestFn    func(ctx context.Context, field, fragment string, limit int) ([]result.Bucket, error)
	suggestGSMFn func(ctx context.Context, prefix int, limit int) ([]result.Bucket, error)
}

func (m *mockRepo) Find(ctx context.Context, c criteria.Criteria, limit int) ([]listing.Listing, error) {
	if m.findFn != nil {
		return m.findFn(ctx, c, limit)
	}
	return nil, nil
}

func (m *mockRepo) Distinct(
	ctx context.Context, field string, c criteria.Criteria, limit int,
) ([]result.Bucket, error) {
	if m.distinctFn != nil {
		return m.distinctFn(ctx, field, c, limit)
	}
	return nil, nil
}

func (m *mockRepo) Suggest(ctx context.Context, field, fragment string, limit int) ([]result.Bucket, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, field, fragment, limit)
	}
	return nil, nil
}

func (m *mockRepo) SuggestGSM(ctx context.Context, prefix int, limit int) ([]result.Bucket, error) {
	if m.suggestGSMFn != nil {
		return m.suggestGSMFn(ctx, prefix, limit)
	}
	return nil, nil
}

// --- Helpers ---

var base = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// newListing builds an active listing created `age` hours before base.
func newListing(t *testing.T, id int64, mk, grade, brand string, gsm int, age int) listing.Listing {
	t.Helper()
	l, err := listing.New(listing.Attributes{
		ID: id, SellerID: 100 + id, Company: "Mill " + mk,
		Make: mk, Grade: grade, Brand: brand, GSM: gsm,
		Location: "Delhi", Unit: "kg",
		CreatedAt: base.Add(-time.Duration(age) * time.Hour),
	})
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	return l
}

func newRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	req, err := request.New(p, request.DefaultLimits())
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return &req
}

func ids(items []result.Result) []int64 {
	out := make([]int64, len(items))
	for i := range items {
		l := items[i].Listing()
		out[i] = l.ID()
	}
	return out
}
