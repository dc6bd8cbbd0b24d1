package millsearch

import "time"

// Sort directives accepted by SearchParams.Sort. An empty or unknown
// value sorts by relevance when the query has text or a grammage, and
// by newest otherwise.
const (
	SortRelevance    = "relevance"
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortGSMLow       = "gsm-low"
	SortGSMHigh      = "gsm-high"
	SortQuantityLow  = "quantity-low"
	SortQuantityHigh = "quantity-high"
	SortSizeSmall    = "size-small"
	SortSizeLarge    = "size-large"
	SortLocation     = "location"
	SortCompany      = "company"
	SortCategory     = "category"
)

// Date windows accepted by SearchParams.DateRange.
const (
	DateAll   = "all"
	DateToday = "today"
	DateWeek  = "week"
	DateMonth = "month"
)

// SearchParams describes one search. All fields are optional.
type SearchParams struct {
	// Query is free text such as "ITC 120gsm"; a grammage in it is
	// matched within Tolerance.
	Query string

	Makes  []string
	Grades []string
	Brands []string

	GSMMin *float64
	GSMMax *float64

	// Deckle and grain bounds are expressed in Unit ("mm", "cm", "inch").
	DeckleMin *float64
	DeckleMax *float64
	GrainMin  *float64
	GrainMax  *float64
	Unit      string

	DateRange string
	// Tolerance overrides the grammage window; 0 means exact.
	Tolerance *int
	// ExcludeSellerID hides the listings of one seller when positive.
	ExcludeSellerID int64

	Page     int
	PageSize int
	Sort     string
}

// Listing is a catalog offer as returned by search.
type Listing struct {
	ID          int64
	SellerID    int64
	Company     string
	Make        string
	Grade       string
	Brand       string
	Category    string
	GSM         int
	DeckleMM    float64
	GrainMM     float64
	Description string
	// Price is nil unless the seller chose to show it.
	Price     *float64
	Quantity  float64
	Unit      string
	Location  string
	CreatedAt time.Time
}

// Hit is a ranked listing.
type Hit struct {
	Listing
	Score float64
	Page  int
}

// Bucket is one facet value and the number of matching listings.
type Bucket struct {
	Key   string
	Count int
}

// Facets are the value counts of the filtered result set.
type Facets struct {
	Makes     []Bucket
	Grades    []Bucket
	Brands    []Bucket
	GSM       []Bucket
	Locations []Bucket
	Units     []Bucket
}

// SearchPage is one page of ranked results.
type SearchPage struct {
	ID         string
	Cached     bool
	Hits       []Hit
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Facets     Facets
}

// Suggestion is an autocomplete candidate.
type Suggestion struct {
	Text  string
	Type  string // "make", "brand", "grade" or "gsm"
	Score float64
}

// NewListing is the input of Client.AddListings. The description is
// composed from make, grade, brand and grammage.
type NewListing struct {
	SellerID  int64
	Company   string
	Make      string
	Grade     string
	Brand     string
	Category  string
	GSM       int
	DeckleMM  float64
	GrainMM   float64
	Price     *float64
	ShowPrice bool
	Quantity  float64
	Unit      string
	Location  string
	CreatedAt time.Time
}
