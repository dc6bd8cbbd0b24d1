package request

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/millsearch/internal/domain"
	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength  = 512
	DefaultPageSize = 20
	MaxPageSize     = 100
	// SignaturePrefix namespaces cache keys.
	SignaturePrefix = "search:"
)

// Limits are the server-side pagination bounds.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the built-in pagination bounds.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

func (l Limits) normalized() Limits {
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = MaxPageSize
	}
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.DefaultPageSize > l.MaxPageSize {
		l.DefaultPageSize = l.MaxPageSize
	}
	return l
}

// Params are the raw inputs of a search.
type Params struct {
	Query              string
	Filters            filter.Set
	ExcludeRequesterID *int64
	Page               int
	PageSize           int
	Sort               sortby.Sort
}

// Request is a validated search query.
type Request struct {
	query     string
	filters   filter.Set
	requester *int64
	page      int
	pageSize  int
	sort      sortby.Sort
}

// New validates and normalizes search parameters.
// Defaults: page=1, pageSize=limits.DefaultPageSize; pageSize is clamped to limits.MaxPageSize.
// An unknown sort is dropped so the effective default applies.
func New(p Params, limits Limits) (Request, error) {
	limits = limits.normalized()
	q := strings.TrimSpace(p.Query)
	if len(q) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size <= 0 {
		size = limits.DefaultPageSize
	}
	if size > limits.MaxPageSize {
		size = limits.MaxPageSize
	}
	s := p.Sort
	if !s.IsValid() {
		s = ""
	}
	var requester *int64
	if p.ExcludeRequesterID != nil && *p.ExcludeRequesterID > 0 {
		id := *p.ExcludeRequesterID
		requester = &id
	}
	return Request{
		query:     q,
		filters:   p.Filters,
		requester: requester,
		page:      page,
		pageSize:  size,
		sort:      s,
	}, nil
}

// Query returns the trimmed free text.
func (r *Request) Query() string { return r.query }

// Filters returns the structured filter set.
func (r *Request) Filters() filter.Set { return r.filters }

// ExcludeRequesterID returns the seller whose listings are hidden, nil when none.
func (r *Request) ExcludeRequesterID() *int64 { return r.requester }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the clamped page size.
func (r *Request) PageSize() int { return r.pageSize }

// Sort returns the requested sort, empty when the default applies.
func (r *Request) Sort() sortby.Sort { return r.sort }

// signature is the canonical form of a request. Field order is fixed by the struct.
type signature struct {
	Query     string   `json:"q"`
	Makes     []string `json:"makes,omitempty"`
	Grades    []string `json:"grades,omitempty"`
	Brands    []string `json:"brands,omitempty"`
	GSMMin    *float64 `json:"gsm_min,omitempty"`
	GSMMax    *float64 `json:"gsm_max,omitempty"`
	DeckleMin *float64 `json:"deckle_min,omitempty"`
	DeckleMax *float64 `json:"deckle_max,omitempty"`
	GrainMin  *float64 `json:"grain_min,omitempty"`
	GrainMax  *float64 `json:"grain_max,omitempty"`
	Date      string   `json:"date"`
	Tolerance *int     `json:"tolerance,omitempty"`
	Requester *int64   `json:"requester,omitempty"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
	Sort      string   `json:"sort"`
}

// Signature returns the cache key of the request: case-folded collapsed text,
// sorted case-folded filter values and millimeter dimensions, hashed with SHA-256.
// Two requests share a signature iff they determine the same result page.
func (r *Request) Signature() (string, error) {
	dims := r.filters.Dimensions().Canonical()
	sig := signature{
		Query:     query.Normalize(r.query),
		Makes:     canonicalValues(r.filters.Makes()),
		Grades:    canonicalValues(r.filters.Grades()),
		Brands:    canonicalValues(r.filters.Brands()),
		GSMMin:    r.filters.GSM().Min(),
		GSMMax:    r.filters.GSM().Max(),
		DeckleMin: dims.Deckle().Min(),
		DeckleMax: dims.Deckle().Max(),
		GrainMin:  dims.Grain().Min(),
		GrainMax:  dims.Grain().Max(),
		Date:      string(r.filters.DateRange()),
		Tolerance: r.filters.Tolerance(),
		Requester: r.requester,
		Page:      r.page,
		PageSize:  r.pageSize,
		Sort:      string(r.sort),
	}
	raw, err := json.Marshal(sig)
	if err != nil {
		return "", fmt.Errorf("marshal signature: %w", err)
	}
	sum := sha256.Sum256(raw)
	return SignaturePrefix + hex.EncodeToString(sum[:]), nil
}

func canonicalValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(v)
	}
	sort.Strings(out)
	return out
}
