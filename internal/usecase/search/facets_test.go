package search

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

func TestAggregate(t *testing.T) {
	listings := []listing.Listing{
		newListing(t, 1, "ITC", "Supreme", "Cyber", 120, 0),
		newListing(t, 2, "ITC", "Supreme", "", 300, 0),
		newListing(t, 3, "JK", "Copier", "", 90, 0),
		newListing(t, 4, "BILT", "", "", 300, 0),
		newListing(t, 5, "ITC", "", "", 0, 0),
	}

	f := aggregate(listings, 0)

	wantMakes := []result.Bucket{{Key: "ITC", DocCount: 3}, {Key: "BILT", DocCount: 1}, {Key: "JK", DocCount: 1}}
	if !reflect.DeepEqual(f.Makes, wantMakes) {
		t.Errorf("makes = %v, want %v", f.Makes, wantMakes)
	}
	wantGSM := []result.Bucket{{Key: "300", DocCount: 2}, {Key: "90", DocCount: 1}, {Key: "120", DocCount: 1}}
	if !reflect.DeepEqual(f.GSM, wantGSM) {
		t.Errorf("gsm = %v, want %v (numeric key order on ties)", f.GSM, wantGSM)
	}
	if len(f.Brands) != 1 || f.Brands[0] != (result.Bucket{Key: "Cyber", DocCount: 1}) {
		t.Errorf("brands = %v, empty values must not be counted", f.Brands)
	}
	if len(f.Locations) != 1 || f.Locations[0].DocCount != 5 {
		t.Errorf("locations = %v", f.Locations)
	}
}

func TestAggregate_BucketsNeverExceedTotal(t *testing.T) {
	listings := []listing.Listing{
		newListing(t, 1, "ITC", "A", "", 120, 0),
		newListing(t, 2, "JK", "B", "", 120, 0),
	}
	f := aggregate(listings, 0)
	for _, group := range [][]result.Bucket{f.Makes, f.Grades, f.Brands, f.GSM, f.Locations, f.Units} {
		for _, b := range group {
			if b.DocCount > len(listings) {
				t.Errorf("bucket %v exceeds total %d", b, len(listings))
			}
		}
	}
}

func TestAggregate_Truncates(t *testing.T) {
	listings := []listing.Listing{
		newListing(t, 1, "A1", "", "", 0, 0),
		newListing(t, 2, "A2", "", "", 0, 0),
		newListing(t, 3, "A3", "", "", 0, 0),
	}
	f := aggregate(listings, 2)
	if len(f.Makes) != 2 {
		t.Errorf("len(makes) = %d, want 2", len(f.Makes))
	}
	if f.GSM == nil || len(f.GSM) != 0 {
		t.Errorf("gsm = %v, want empty non-nil", f.GSM)
	}
}
