package listing

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/millsearch/internal/db"
	domlisting "github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// store is the consumer interface for listing retrieval (ISP).
type store interface {
	FetchListings(ctx context.Context, pred db.Predicate, limit int) ([]db.ListingRow, error)
	CountDistinct(ctx context.Context, column string, pred db.Predicate, limit int) ([]db.ValueCount, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find returns active listings matching the criteria, newest first, at most limit rows.
func (r *Repo) Find(ctx context.Context, c criteria.Criteria, limit int) ([]domlisting.Listing, error) {
	pred, err := BuildPredicate(c)
	if err != nil {
		return nil, fmt.Errorf("build predicate: %w", err)
	}
	rows, err := r.store.FetchListings(ctx, pred, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	out := make([]domlisting.Listing, len(rows))
	for i := range rows {
		out[i] = rowToListing(&rows[i])
	}
	return out, nil
}

// Distinct counts the values of field among listings matching the criteria.
func (r *Repo) Distinct(ctx context.Context, field string, c criteria.Criteria, limit int) ([]result.Bucket, error) {
	pred, err := BuildPredicate(c)
	if err != nil {
		return nil, fmt.Errorf("build predicate: %w", err)
	}
	return r.countDistinct(ctx, field, pred, limit)
}

// Suggest counts values of field that contain fragment (case-insensitive) among active listings.
func (r *Repo) Suggest(ctx context.Context, field, fragment string, limit int) ([]result.Bucket, error) {
	pred, err := db.NewPredicate().
		Eq(db.ColumnStatus, string(domlisting.StatusActive)).
		AnyLike([]string{field}, fragment).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build predicate: %w", err)
	}
	return r.countDistinct(ctx, field, pred, limit)
}

// SuggestGSM counts grammages whose decimal form starts with prefix among active listings.
func (r *Repo) SuggestGSM(ctx context.Context, prefix int, limit int) ([]result.Bucket, error) {
	lo, hi := prefixSpan(prefix)
	pred, err := db.NewPredicate().
		Eq(db.ColumnStatus, string(domlisting.StatusActive)).
		Between(db.ColumnGSM, lo, hi).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build predicate: %w", err)
	}
	buckets, err := r.countDistinct(ctx, db.ColumnGSM, pred, 0)
	if err != nil {
		return nil, err
	}
	out := buckets[:0]
	for _, b := range buckets {
		if hasDecimalPrefix(b.Key, prefix) {
			out = append(out, b)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) countDistinct(ctx context.Context, field string, pred db.Predicate, limit int) ([]result.Bucket, error) {
	counts, err := r.store.CountDistinct(ctx, field, pred, limit)
	if err != nil {
		return nil, fmt.Errorf("count distinct %s: %w", field, err)
	}
	out := make([]result.Bucket, len(counts))
	for i, vc := range counts {
		out[i] = result.Bucket{Key: vc.Value, DocCount: vc.Count}
	}
	return out, nil
}
