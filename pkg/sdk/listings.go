package millsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/millsearch/internal/db"
	domlisting "github.com/kailas-cloud/millsearch/internal/domain/listing"
	listingrepo "github.com/kailas-cloud/millsearch/internal/repository/listing"
)

type listingInserter interface {
	Insert(ctx context.Context, rows ...db.ListingRow) ([]int64, error)
}

// AddListings stores active listings in one transaction and returns their
// identifiers. Cached result pages are not invalidated and may lag until
// their TTL expires.
func (c *Client) AddListings(ctx context.Context, listings ...NewListing) (_ []int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_listings", start, err, "count", len(listings)) }()

	rows := make([]db.ListingRow, 0, len(listings))
	for i := range listings {
		l, err := domlisting.New(toAttributes(&listings[i]))
		if err != nil {
			return nil, fmt.Errorf("listing %d: %w", i, err)
		}
		rows = append(rows, listingrepo.ToRow(&l))
	}
	ids, err := c.store.Insert(ctx, rows...)
	if err != nil {
		return nil, fmt.Errorf("add listings: %w", err)
	}
	return ids, nil
}

func toAttributes(n *NewListing) domlisting.Attributes {
	return domlisting.Attributes{
		SellerID:  n.SellerID,
		Company:   n.Company,
		Make:      n.Make,
		Grade:     n.Grade,
		Brand:     n.Brand,
		Category:  n.Category,
		GSM:       n.GSM,
		DeckleMM:  n.DeckleMM,
		GrainMM:   n.GrainMM,
		Price:     n.Price,
		ShowPrice: n.ShowPrice,
		Quantity:  n.Quantity,
		Unit:      n.Unit,
		Location:  n.Location,
		Status:    domlisting.StatusActive,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.CreatedAt,
	}
}
