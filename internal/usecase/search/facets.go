package search

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// FacetMode selects how facet counts are computed.
type FacetMode string

// Facet modes.
const (
	// FacetsFiltered counts over the filtered candidate set; every bucket <= total.
	FacetsFiltered FacetMode = "filtered"
	// FacetsDisjunctive recounts each selected categorical field with its own
	// selection removed, so sibling values stay visible.
	FacetsDisjunctive FacetMode = "disjunctive"
)

// IsValid checks if the mode is one of the supported values.
func (m FacetMode) IsValid() bool { return m == FacetsFiltered || m == FacetsDisjunctive }

// DefaultFacetLimit bounds buckets per field.
const DefaultFacetLimit = 30

// aggregate computes per-field distinct-value counts. Empty values are not counted.
func aggregate(listings []listing.Listing, limit int) result.Facets {
	makes := newCounter()
	grades := newCounter()
	brands := newCounter()
	gsm := newCounter()
	locations := newCounter()
	units := newCounter()

	for i := range listings {
		l := &listings[i]
		makes.add(l.Make())
		grades.add(l.Grade())
		brands.add(l.Brand())
		if l.GSM() > 0 {
			gsm.add(strconv.Itoa(l.GSM()))
		}
		locations.add(l.Location())
		units.add(l.Unit())
	}

	return result.Facets{
		Makes:     makes.buckets(limit, strings.Compare),
		Grades:    grades.buckets(limit, strings.Compare),
		Brands:    brands.buckets(limit, strings.Compare),
		GSM:       gsm.buckets(limit, compareNumeric),
		Locations: locations.buckets(limit, strings.Compare),
		Units:     units.buckets(limit, strings.Compare),
	}
}

type counter struct {
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: make(map[string]int)} }

func (c *counter) add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		c.counts[v]++
	}
}

// buckets sorts by count desc, then key; truncated to limit (<= 0 means unbounded).
func (c *counter) buckets(limit int, keyCmp func(a, b string) int) []result.Bucket {
	out := make([]result.Bucket, 0, len(c.counts))
	for k, n := range c.counts {
		out = append(out, result.Bucket{Key: k, DocCount: n})
	}
	slices.SortFunc(out, func(a, b result.Bucket) int {
		if c := cmp.Compare(b.DocCount, a.DocCount); c != 0 {
			return c
		}
		return keyCmp(a.Key, b.Key)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func compareNumeric(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return cmp.Compare(na, nb)
}
