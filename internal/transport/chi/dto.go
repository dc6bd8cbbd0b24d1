package chi

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// looseNumber accepts a JSON number or a numeric string. Anything else
// (null, booleans, garbage strings, non-finite values) decodes to absent.
type looseNumber struct {
	v *float64
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	n.v = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil //nolint:nilerr // malformed bounds mean no constraint
		}
		n.v = filter.CoerceBound(s)
		return nil
	}
	n.v = filter.CoerceBound(string(data))
	return nil
}

// int truncates the value; nil when absent.
func (n looseNumber) int() *int {
	if n.v == nil {
		return nil
	}
	i := truncateInt(*n.v)
	return &i
}

// truncateInt converts a finite float to int, saturating at the int range.
func truncateInt(v float64) int {
	switch {
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	default:
		return int(v)
	}
}

type rangeDTO struct {
	Min looseNumber `json:"min"`
	Max looseNumber `json:"max"`
}

func (r *rangeDTO) toRange() filter.Range {
	if r == nil {
		return filter.Range{}
	}
	return filter.NewRange(r.Min.v, r.Max.v)
}

type dimensionRangeDTO struct {
	Deckle *rangeDTO `json:"deckle"`
	Grain  *rangeDTO `json:"grain"`
	Unit   string    `json:"unit"`
}

type filtersDTO struct {
	Makes          []string           `json:"makes"`
	Grades         []string           `json:"grades"`
	Brands         []string           `json:"brands"`
	GSMRange       *rangeDTO          `json:"gsmRange"`
	DimensionRange *dimensionRangeDTO `json:"dimensionRange"`
	Unit           string             `json:"unit"`
	DateRange      string             `json:"dateRange"`
	Tolerance      looseNumber        `json:"tolerance"`
}

func (f *filtersDTO) toSet() filter.Set {
	if f == nil {
		return filter.New(filter.Params{})
	}
	var dims filter.DimensionRange
	if d := f.DimensionRange; d != nil {
		unit := d.Unit
		if unit == "" {
			unit = f.Unit
		}
		dims = filter.NewDimensionRange(d.Deckle.toRange(), d.Grain.toRange(), filter.ParseUnit(unit))
	}
	return filter.New(filter.Params{
		Makes:      f.Makes,
		Grades:     f.Grades,
		Brands:     f.Brands,
		GSM:        f.GSMRange.toRange(),
		Dimensions: dims,
		DateRange:  filter.ParseDateRange(f.DateRange),
		Tolerance:  f.Tolerance.int(),
	})
}

type searchRequestDTO struct {
	Query              string      `json:"query"`
	Filters            *filtersDTO `json:"filters"`
	ExcludeRequesterID looseNumber `json:"excludeRequesterId"`
	Page               looseNumber `json:"page"`
	PageSize           looseNumber `json:"pageSize"`
	SortBy             string      `json:"sortBy"`
}

type listingDTO struct {
	ID          int64     `json:"id"`
	SellerID    int64     `json:"sellerId"`
	Company     string    `json:"company"`
	Make        string    `json:"make"`
	Grade       string    `json:"grade"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	GSM         int       `json:"gsm"`
	DeckleMM    float64   `json:"deckleMm"`
	GrainMM     float64   `json:"grainMm"`
	Description string    `json:"description"`
	Price       *float64  `json:"price,omitempty"`
	ShowPrice   bool      `json:"showPrice"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Score       float64   `json:"score"`
	Page        int       `json:"page"`
}

func listingToDTO(r *result.Result) listingDTO {
	l := r.Listing()
	return listingDTO{
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
		ShowPrice:   l.ShowPrice(),
		Quantity:    l.Quantity(),
		Unit:        l.Unit(),
		Location:    l.Location(),
		Status:      string(l.Status()),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
		Score:       r.Score(),
		Page:        r.Page(),
	}
}

type aggregationsDTO struct {
	Makes     []result.Bucket `json:"makes"`
	Grades    []result.Bucket `json:"grades"`
	Brands    []result.Bucket `json:"brands"`
	GSM       []result.Bucket `json:"gsm"`
	Locations []result.Bucket `json:"locations"`
	Units     []result.Bucket `json:"units"`
}

func orEmpty(b []result.Bucket) []result.Bucket {
	if b == nil {
		return []result.Bucket{}
	}
	return b
}

func facetsToDTO(f *result.Facets) aggregationsDTO {
	return aggregationsDTO{
		Makes:     orEmpty(f.Makes),
		Grades:    orEmpty(f.Grades),
		Brands:    orEmpty(f.Brands),
		GSM:       orEmpty(f.GSM),
		Locations: orEmpty(f.Locations),
		Units:     orEmpty(f.Units),
	}
}

type searchResponseDTO struct {
	Success      bool            `json:"success"`
	SearchID     string          `json:"searchId"`
	Cached       bool            `json:"cached"`
	Data         []listingDTO    `json:"data"`
	Total        int             `json:"total"`
	Page         int             `json:"page"`
	PageSize     int             `json:"pageSize"`
	TotalPages   int             `json:"totalPages"`
	Aggregations aggregationsDTO `json:"aggregations"`
}

type suggestionDTO struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type suggestionsResponseDTO struct {
	Success     bool            `json:"success"`
	Suggestions []suggestionDTO `json:"suggestions"`
}

type healthResponseDTO struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// parseLooseInt reads an optional integer query parameter; malformed values are absent.
func parseLooseInt(raw string) *int {
	v := filter.CoerceBound(raw)
	if v == nil {
		return nil
	}
	i := truncateInt(*v)
	return &i
}

func atoiOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
