package criteria

import (
	"time"

	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
)

// Criteria is everything that narrows the candidate set of a search.
type Criteria struct {
	Parsed          query.Parsed
	Filters         filter.Set
	ExcludeSellerID *int64
	// Now anchors relative date windows.
	Now time.Time
}

// Without returns a copy with one categorical selection removed.
func (c Criteria) Without(f filter.Field) Criteria {
	c.Filters = c.Filters.Without(f)
	return c
}

// HasSignal reports whether the query carries a term or a numeric candidate.
func (c Criteria) HasSignal() bool { return !c.Parsed.IsEmpty() }
