package millsearch

import (
	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
)

func toRequestParams(p *SearchParams) request.Params {
	rp := request.Params{
		Query: p.Query,
		Filters: filter.New(filter.Params{
			Makes:  p.Makes,
			Grades: p.Grades,
			Brands: p.Brands,
			GSM:    filter.NewRange(p.GSMMin, p.GSMMax),
			Dimensions: filter.NewDimensionRange(
				filter.NewRange(p.DeckleMin, p.DeckleMax),
				filter.NewRange(p.GrainMin, p.GrainMax),
				filter.ParseUnit(p.Unit),
			),
			DateRange: filter.ParseDateRange(p.DateRange),
			Tolerance: p.Tolerance,
		}),
		Page:     p.Page,
		PageSize: p.PageSize,
		Sort:     sortby.Sort(p.Sort),
	}
	if p.ExcludeSellerID > 0 {
		id := p.ExcludeSellerID
		rp.ExcludeRequesterID = &id
	}
	return rp
}

func fromOutcome(out *searchuc.Outcome) *SearchPage {
	p := &out.Page
	hits := make([]Hit, len(p.Items))
	for i := range p.Items {
		r := &p.Items[i]
		l := r.Listing()
		hits[i] = Hit{
			Listing: Listing{
				ID:          l.ID(),
				SellerID:    l.SellerID(),
				Company:     l.Company(),
				Make:        l.Make(),
				Grade:       l.Grade(),
				Brand:       l.Brand(),
				Category:    l.Category(),
				GSM:         l.GSM(),
				DeckleMM:    l.DeckleMM(),
				GrainMM:     l.GrainMM(),
				Description: l.Description(),
				Price:       l.VisiblePrice(),
				Quantity:    l.Quantity(),
				Unit:        l.Unit(),
				Location:    l.Location(),
				CreatedAt:   l.CreatedAt(),
			},
			Score: r.Score(),
			Page:  r.Page(),
		}
	}
	return &SearchPage{
		ID:         out.ID,
		Cached:     out.Cached,
		Hits:       hits,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Facets: Facets{
			Makes:     fromBuckets(p.Facets.Makes),
			Grades:    fromBuckets(p.Facets.Grades),
			Brands:    fromBuckets(p.Facets.Brands),
			GSM:       fromBuckets(p.Facets.GSM),
			Locations: fromBuckets(p.Facets.Locations),
			Units:     fromBuckets(p.Facets.Units),
		},
	}
}

func fromBuckets(in []result.Bucket) []Bucket {
	out := make([]Bucket, len(in))
	for i, b := range in {
		out[i] = Bucket{Key: b.Key, Count: b.DocCount}
	}
	return out
}
