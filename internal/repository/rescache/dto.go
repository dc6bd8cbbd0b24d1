package rescache

import (
	"time"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// dtoVersion is bumped whenever the cached JSON shape changes.
const dtoVersion = 1

type pageDTO struct {
	Version    int           `json:"v"`
	Items      []itemDTO     `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	Facets     result.Facets `json:"facets"`
	ExpiresAt  time.Time     `json:"expires_at"`
}

type itemDTO struct {
	Listing     listing.Attributes `json:"listing"`
	Description string             `json:"description"`
	Score       float64            `json:"score"`
	Page        int                `json:"page"`
}

func toPageDTO(p result.Page, expiresAt time.Time) pageDTO {
	items := make([]itemDTO, len(p.Items))
	for i := range p.Items {
		r := &p.Items[i]
		l := r.Listing()
		items[i] = itemDTO{
			Listing:     l.Attributes(),
			Description: l.Description(),
			Score:       r.Score(),
			Page:        r.Page(),
		}
	}
	return pageDTO{
		Version:    dtoVersion,
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Facets:     p.Facets,
		ExpiresAt:  expiresAt,
	}
}

func (d *pageDTO) toPage() result.Page {
	items := make([]result.Result, len(d.Items))
	for i, it := range d.Items {
		items[i] = result.Restore(listing.Reconstruct(it.Listing, it.Description), it.Score, it.Page)
	}
	return result.Page{
		Items:      items,
		Total:      d.Total,
		Page:       d.Page,
		PageSize:   d.PageSize,
		TotalPages: d.TotalPages,
		Facets:     d.Facets,
	}
}
