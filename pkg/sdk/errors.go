package millsearch

import "github.com/kailas-cloud/millsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrQueryTooShort    = domain.ErrQueryTooShort
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)
