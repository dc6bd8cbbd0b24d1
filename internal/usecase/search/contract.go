package search

import (
	"context"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// Repository defines the record-store contract for search operations.
type Repository interface {
	// Find returns active listings matching c, newest first, at most limit rows.
	Find(ctx context.Context, c criteria.Criteria, limit int) ([]listing.Listing, error)
	// Distinct counts values of field among listings matching c.
	Distinct(ctx context.Context, field string, c criteria.Criteria, limit int) ([]result.Bucket, error)
	// Suggest counts values of field containing fragment among active listings.
	Suggest(ctx context.Context, field, fragment string, limit int) ([]result.Bucket, error)
	// SuggestGSM counts grammages starting with the decimal prefix among active listings.
	SuggestGSM(ctx context.Context, prefix int, limit int) ([]result.Bucket, error)
}

// Cache memoizes computed pages by query signature. Implementations
// never fail: any internal error is a miss.
type Cache interface {
	Get(ctx context.Context, key string) (result.Page, bool)
	Set(ctx context.Context, key string, page result.Page)
}
