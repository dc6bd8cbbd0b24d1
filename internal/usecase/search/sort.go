package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
)

// sortResults orders results by the sort key, then score desc, then newest,
// then highest ID, giving a total order.
func sortResults(results []result.Result, s sortby.Sort) {
	primary := primaryKey(s)
	slices.SortStableFunc(results, func(a, b result.Result) int {
		la, lb := a.Listing(), b.Listing()
		if c := primary(&la, &lb); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		if c := lb.CreatedAt().Compare(la.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(lb.ID(), la.ID())
	})
}

type comparator func(a, b *listing.Listing) int

func primaryKey(s sortby.Sort) comparator {
	switch s {
	case sortby.Newest:
		return func(a, b *listing.Listing) int { return b.CreatedAt().Compare(a.CreatedAt()) }
	case sortby.Oldest:
		return func(a, b *listing.Listing) int { return a.CreatedAt().Compare(b.CreatedAt()) }
	case sortby.GSMLow:
		return knownFirst(func(l *listing.Listing) float64 { return float64(l.GSM()) }, false)
	case sortby.GSMHigh:
		return knownFirst(func(l *listing.Listing) float64 { return float64(l.GSM()) }, true)
	case sortby.QuantityLow:
		return knownFirst((*listing.Listing).Quantity, false)
	case sortby.QuantityHigh:
		return knownFirst((*listing.Listing).Quantity, true)
	case sortby.SizeSmall:
		return knownFirst((*listing.Listing).Area, false)
	case sortby.SizeLarge:
		return knownFirst((*listing.Listing).Area, true)
	case sortby.Location:
		return alphabetical((*listing.Listing).Location)
	case sortby.Company:
		return alphabetical((*listing.Listing).Company)
	case sortby.Category:
		return alphabetical((*listing.Listing).Category)
	default:
		return func(*listing.Listing, *listing.Listing) int { return 0 }
	}
}

// knownFirst compares positive values; zero (unknown) sorts last in both directions.
func knownFirst(get func(*listing.Listing) float64, desc bool) comparator {
	return func(a, b *listing.Listing) int {
		va, vb := get(a), get(b)
		switch {
		case va <= 0 && vb <= 0:
			return 0
		case va <= 0:
			return 1
		case vb <= 0:
			return -1
		case desc:
			return cmp.Compare(vb, va)
		default:
			return cmp.Compare(va, vb)
		}
	}
}

// alphabetical compares case-insensitively; empty values sort last.
func alphabetical(get func(*listing.Listing) string) comparator {
	return func(a, b *listing.Listing) int {
		va := strings.ToLower(strings.TrimSpace(get(a)))
		vb := strings.ToLower(strings.TrimSpace(get(b)))
		switch {
		case va == vb:
			return 0
		case va == "":
			return 1
		case vb == "":
			return -1
		default:
			return strings.Compare(va, vb)
		}
	}
}
