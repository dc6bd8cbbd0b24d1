package listing

import (
	"time"

	"github.com/kailas-cloud/millsearch/internal/db"
	domlisting "github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
)

// termColumns are the fields a free-text term may match in.
var termColumns = []string{db.ColumnMake, db.ColumnGrade, db.ColumnBrand, db.ColumnDescription}

// BuildPredicate translates criteria into a parametrized predicate. Clause order:
// visibility, requester exclusion, free-text terms, numeric candidate,
// categorical selections, explicit gsm range, dimensions (mm), date window.
func BuildPredicate(c criteria.Criteria) (db.Predicate, error) {
	b := db.NewPredicate().Eq(db.ColumnStatus, string(domlisting.StatusActive))

	if c.ExcludeSellerID != nil {
		b.NotEq(db.ColumnSellerID, *c.ExcludeSellerID)
	}

	for _, term := range c.Parsed.Terms {
		b.AnyLike(termColumns, term)
	}

	if lo, hi, ok := c.Parsed.NumericBand(); ok {
		if lo == hi {
			b.Eq(db.ColumnGSM, lo)
		} else {
			b.Between(db.ColumnGSM, lo, hi)
		}
	}

	b.InFold(db.ColumnMake, c.Filters.Makes()).
		InFold(db.ColumnGrade, c.Filters.Grades()).
		InFold(db.ColumnBrand, c.Filters.Brands())

	addRange(b, db.ColumnGSM, c.Filters.GSM())

	dims := c.Filters.Dimensions().Canonical()
	addRange(b, db.ColumnDeckleMM, dims.Deckle())
	addRange(b, db.ColumnGrainMM, dims.Grain())

	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	if since, ok := c.Filters.DateRange().Since(now); ok {
		b.Gte(db.ColumnCreatedAt, since.UTC())
	}

	return b.Build()
}

func addRange(b *db.PredicateBuilder, column string, r filter.Range) {
	if v := r.Min(); v != nil {
		b.Gte(column, *v)
	}
	if v := r.Max(); v != nil {
		b.Lte(column, *v)
	}
}
