package sortby

// Sort is the result ordering directive.
type Sort string

// Sort directives.
const (
	// Relevance orders by score, then recency.
	Relevance    Sort = "relevance"
	Newest       Sort = "newest"
	Oldest       Sort = "oldest"
	GSMLow       Sort = "gsm-low"
	GSMHigh      Sort = "gsm-high"
	QuantityLow  Sort = "quantity-low"
	QuantityHigh Sort = "quantity-high"
	// SizeSmall and SizeLarge order by sheet area (deckle x grain).
	SizeSmall Sort = "size-small"
	SizeLarge Sort = "size-large"
	Location  Sort = "location"
	Company   Sort = "company"
	Category  Sort = "category"
)

var valid = map[Sort]bool{
	Relevance: true, Newest: true, Oldest: true,
	GSMLow: true, GSMHigh: true,
	QuantityLow: true, QuantityHigh: true,
	SizeSmall: true, SizeLarge: true,
	Location: true, Company: true, Category: true,
}

// IsValid checks if the sort is one of the supported values.
func (s Sort) IsValid() bool { return valid[s] }

// Effective resolves the directive actually applied: an explicit valid sort
// wins; otherwise relevance when the query carries a signal, newest when not.
func (s Sort) Effective(hasSignal bool) Sort {
	if s.IsValid() {
		return s
	}
	if hasSignal {
		return Relevance
	}
	return Newest
}
