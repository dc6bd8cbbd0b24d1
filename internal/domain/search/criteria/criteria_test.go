package criteria

import (
	"testing"

	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
)

func TestWithout(t *testing.T) {
	c := Criteria{Filters: filter.New(filter.Params{Makes: []string{"ITC"}, Grades: []string{"Duplex"}})}
	w := c.Without(filter.FieldGrade)
	if w.Filters.HasSelection(filter.FieldGrade) {
		t.Error("grade selection should be removed")
	}
	if !w.Filters.HasSelection(filter.FieldMake) || !c.Filters.HasSelection(filter.FieldGrade) {
		t.Error("other selections and the original must be kept")
	}
}

func TestHasSignal(t *testing.T) {
	n := 120
	tests := []struct {
		name   string
		parsed query.Parsed
		want   bool
	}{
		{"empty", query.Parsed{}, false},
		{"dropped tokens only", query.Parsed{Text: "a", Terms: []string{}}, false},
		{"term", query.Parsed{Text: "itc", Terms: []string{"itc"}}, true},
		{"numeric", query.Parsed{Numeric: &n}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Criteria{Parsed: tt.parsed}).HasSignal(); got != tt.want {
				t.Errorf("HasSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}
