package result

import "github.com/kailas-cloud/millsearch/internal/domain/listing"

// Result is a single scored listing.
type Result struct {
	listing listing.Listing
	score   float64
	page    int
}

// New creates a scored result. Negative scores are clamped to zero.
func New(l listing.Listing, score float64) Result {
	if score < 0 {
		score = 0
	}
	return Result{listing: l, score: score}
}

// Restore rebuilds a result with its page index (cache hydration).
func Restore(l listing.Listing, score float64, page int) Result {
	return Result{listing: l, score: score, page: page}
}

// Listing returns the matched listing.
func (r *Result) Listing() listing.Listing { return r.listing }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Page returns the 1-based page the result belongs to after sorting (0 before pagination).
func (r *Result) Page() int { return r.page }

// OnPage returns a copy of the result assigned to page p.
func (r Result) OnPage(p int) Result {
	r.page = p
	return r
}

// Bucket is one distinct facet value with its document count.
type Bucket struct {
	Key      string `json:"key"`
	DocCount int    `json:"doc_count"`
}

// Facets are the per-field distinct-value counts of a filtered result set.
type Facets struct {
	Makes     []Bucket `json:"makes"`
	Grades    []Bucket `json:"grades"`
	Brands    []Bucket `json:"brands"`
	GSM       []Bucket `json:"gsm"`
	Locations []Bucket `json:"locations"`
	Units     []Bucket `json:"units"`
}

// Page is one slice of a ranked result set plus its facets.
type Page struct {
	Items      []Result
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Facets     Facets
}

// SuggestionType names the field a suggestion came from.
type SuggestionType string

// Suggestion sources.
const (
	SuggestionMake  SuggestionType = "make"
	SuggestionBrand SuggestionType = "brand"
	SuggestionGrade SuggestionType = "grade"
	SuggestionGSM   SuggestionType = "gsm"
)

// Suggestion is an autocomplete candidate.
type Suggestion struct {
	Text  string
	Type  SuggestionType
	Score float64
}
