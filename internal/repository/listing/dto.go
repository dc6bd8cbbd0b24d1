package listing

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/millsearch/internal/db"
	domlisting "github.com/kailas-cloud/millsearch/internal/domain/listing"
)

// maxGSMDigits bounds prefix expansion for gsm suggestions.
const maxGSMDigits = 4

// rowToListing hydrates a domain Listing. A blank stored description is re-derived.
func rowToListing(r *db.ListingRow) domlisting.Listing {
	a := domlisting.Attributes{
		ID: r.ID, SellerID: r.SellerID, Company: r.Company,
		Make: r.Make, Grade: r.Grade, Brand: r.Brand, Category: r.Category,
		GSM: r.GSM, DeckleMM: r.DeckleMM, GrainMM: r.GrainMM,
		Price: r.Price, ShowPrice: r.ShowPrice,
		Quantity: r.Quantity, Unit: r.Unit, Location: r.Location,
		Status: domlisting.Status(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	desc := r.Description
	if strings.TrimSpace(desc) == "" {
		desc = domlisting.ComposeDescription(r.Make, r.Grade, r.Brand, r.GSM)
	}
	return domlisting.Reconstruct(a, desc)
}

// ToRow converts a domain Listing into a storable row.
func ToRow(l *domlisting.Listing) db.ListingRow {
	a := l.Attributes()
	return db.ListingRow{
		ID: a.ID, SellerID: a.SellerID, Company: a.Company,
		Make: a.Make, Grade: a.Grade, Brand: a.Brand, Category: a.Category,
		GSM: a.GSM, DeckleMM: a.DeckleMM, GrainMM: a.GrainMM,
		Description: l.Description(), Price: a.Price, ShowPrice: a.ShowPrice,
		Quantity: a.Quantity, Unit: a.Unit, Location: a.Location,
		Status: string(a.Status), CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

// prefixSpan returns the smallest range covering every number up to
// maxGSMDigits digits that starts with prefix, e.g. 12 -> [12, 1299].
func prefixSpan(prefix int) (lo, hi int) {
	lo, hi = prefix, prefix
	for n, scale := len(strconv.Itoa(prefix)), 10; n < maxGSMDigits; n, scale = n+1, scale*10 {
		hi = prefix*scale + scale - 1
	}
	return lo, hi
}

func hasDecimalPrefix(value string, prefix int) bool {
	return strings.HasPrefix(value, strconv.Itoa(prefix))
}
