package search

import (
	"strings"

	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// Rule weights.
const (
	WeightDescriptionPhrase = 80
	WeightGSMExact          = 45
	WeightMakeMatch         = 30
	WeightBrandMatch        = 22
	WeightGradeMatch        = 20
	WeightGSMNear           = 18
	WeightDescriptionTerm   = 6
)

// Rule is one weighted match criterion. Match returns how many times the
// rule applies (0 for no match); the contribution is Weight times that.
type Rule struct {
	Name   string
	Weight float64
	Match  func(q *query.Parsed, l *listing.Listing) int
}

// DefaultRules is the relevance policy, strongest signal first.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "description_phrase", Weight: WeightDescriptionPhrase, Match: matchDescriptionPhrase},
		{Name: "gsm_exact", Weight: WeightGSMExact, Match: matchGSMExact},
		{Name: "make_match", Weight: WeightMakeMatch, Match: fieldMatcher((*listing.Listing).Make)},
		{Name: "brand_match", Weight: WeightBrandMatch, Match: fieldMatcher((*listing.Listing).Brand)},
		{Name: "grade_match", Weight: WeightGradeMatch, Match: fieldMatcher((*listing.Listing).Grade)},
		{Name: "gsm_near", Weight: WeightGSMNear, Match: matchGSMNear},
		{Name: "description_term", Weight: WeightDescriptionTerm, Match: matchDescriptionTerms},
	}
}

// Scorer sums weighted rule contributions per listing.
type Scorer struct {
	rules []Rule
}

// NewScorer creates a scorer. Without rules, DefaultRules apply.
func NewScorer(rules ...Rule) *Scorer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Score assigns a score to every listing, preserving input order.
func (s *Scorer) Score(q *query.Parsed, listings []listing.Listing) []result.Result {
	out := make([]result.Result, len(listings))
	for i := range listings {
		out[i] = result.New(listings[i], s.ScoreOne(q, &listings[i]))
	}
	return out
}

// ScoreOne returns the additive score of a single listing.
func (s *Scorer) ScoreOne(q *query.Parsed, l *listing.Listing) float64 {
	var total float64
	for _, r := range s.rules {
		if n := r.Match(q, l); n > 0 {
			total += r.Weight * float64(n)
		}
	}
	return total
}

func matchDescriptionPhrase(q *query.Parsed, l *listing.Listing) int {
	if q.IsEmpty() || q.Text == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(l.Description()), q.Text) {
		return 1
	}
	return 0
}

func matchGSMExact(q *query.Parsed, l *listing.Listing) int {
	if q.Numeric != nil && l.GSM() == *q.Numeric {
		return 1
	}
	return 0
}

func matchGSMNear(q *query.Parsed, l *listing.Listing) int {
	if q.Numeric == nil || l.GSM() <= 0 || l.GSM() == *q.Numeric {
		return 0
	}
	diff := l.GSM() - *q.Numeric
	if diff < 0 {
		diff = -diff
	}
	if diff <= q.Tolerance {
		return 1
	}
	return 0
}

// fieldMatcher matches when any term is a substring of the field (counted once).
func fieldMatcher(get func(*listing.Listing) string) func(*query.Parsed, *listing.Listing) int {
	return func(q *query.Parsed, l *listing.Listing) int {
		v := strings.ToLower(get(l))
		if v == "" {
			return 0
		}
		for _, t := range q.Terms {
			if strings.Contains(v, t) {
				return 1
			}
		}
		return 0
	}
}

func matchDescriptionTerms(q *query.Parsed, l *listing.Listing) int {
	desc := strings.ToLower(l.Description())
	n := 0
	for _, t := range q.Terms {
		if strings.Contains(desc, t) {
			n++
		}
	}
	return n
}
