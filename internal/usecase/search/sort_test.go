package search

import (
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
)

func withAttrs(t *testing.T, a listing.Attributes) listing.Listing {
	t.Helper()
	if a.Make == "" {
		a.Make = "ITC"
	}
	l, err := listing.New(a)
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	return l
}

func TestSortResults(t *testing.T) {
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }
	fixtures := []listing.Attributes{
		{ID: 1, GSM: 300, Quantity: 50, DeckleMM: 700, GrainMM: 1000, Location: "Mumbai", Company: "beta", CreatedAt: at(1)},
		{ID: 2, GSM: 0, Quantity: 0, Location: "", Company: "Alpha", CreatedAt: at(3)},
		{ID: 3, GSM: 120, Quantity: 500, DeckleMM: 500, GrainMM: 600, Location: "delhi", Company: "", CreatedAt: at(2)},
	}

	tests := []struct {
		sort sortby.Sort
		want []int64
	}{
		{sortby.Newest, []int64{2, 3, 1}},
		{sortby.Oldest, []int64{1, 3, 2}},
		{sortby.GSMLow, []int64{3, 1, 2}},
		{sortby.GSMHigh, []int64{1, 3, 2}},
		{sortby.QuantityLow, []int64{1, 3, 2}},
		{sortby.QuantityHigh, []int64{3, 1, 2}},
		{sortby.SizeSmall, []int64{3, 1, 2}},
		{sortby.SizeLarge, []int64{1, 3, 2}},
		{sortby.Location, []int64{3, 1, 2}},
		{sortby.Company, []int64{2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			results := make([]result.Result, len(fixtures))
			for i, a := range fixtures {
				results[i] = result.New(withAttrs(t, a), 0)
			}
			sortResults(results, tt.sort)
			if got := ids(results); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortResults_RelevanceTieBreaks(t *testing.T) {
	older := withAttrs(t, listing.Attributes{ID: 1, CreatedAt: base})
	newer := withAttrs(t, listing.Attributes{ID: 2, CreatedAt: base.Add(time.Hour)})
	sameTimeLowID := withAttrs(t, listing.Attributes{ID: 3, CreatedAt: base.Add(time.Hour)})
	top := withAttrs(t, listing.Attributes{ID: 4, CreatedAt: base.Add(-time.Hour)})

	results := []result.Result{
		result.New(older, 10),
		result.New(sameTimeLowID, 10),
		result.New(newer, 10),
		result.New(top, 50),
	}
	sortResults(results, sortby.Relevance)

	if got, want := ids(results), []int64{4, 3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}
