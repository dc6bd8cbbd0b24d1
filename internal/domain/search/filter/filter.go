package filter

import (
	"math"
	"strconv"
	"strings"
)

// MaxValuesPerField caps a multi-select filter; extra values are dropped.
const MaxValuesPerField = 64

// Field names a multi-select categorical filter.
type Field string

// Categorical filter fields.
const (
	FieldMake  Field = "make"
	FieldGrade Field = "grade"
	FieldBrand Field = "brand"
)

// Fields lists the categorical fields in canonical order.
func Fields() []Field { return []Field{FieldMake, FieldGrade, FieldBrand} }

// Set is the structured filter bag of a search request.
// Every field is optional; an absent field adds no constraint.
type Set struct {
	makes      []string
	grades     []string
	brands     []string
	gsm        Range
	dimensions DimensionRange
	date       DateRange
	tolerance  *int
}

// Params are the raw filter inputs.
type Params struct {
	Makes      []string
	Grades     []string
	Brands     []string
	GSM        Range
	Dimensions DimensionRange
	DateRange  DateRange
	Tolerance  *int
}

// New normalizes params into a Set. Malformed inputs are coerced to
// "no constraint" rather than rejected: blank values are dropped, an
// unknown date range becomes all, a negative tolerance is ignored.
func New(p Params) Set {
	s := Set{
		makes:      normalizeValues(p.Makes),
		grades:     normalizeValues(p.Grades),
		brands:     normalizeValues(p.Brands),
		gsm:        p.GSM,
		dimensions: p.Dimensions,
		date:       ParseDateRange(string(p.DateRange)),
	}
	if p.Tolerance != nil && *p.Tolerance >= 0 {
		t := *p.Tolerance
		s.tolerance = &t
	}
	return s
}

// Makes returns the accepted makes (OR semantics).
func (s Set) Makes() []string { return s.makes }

// Grades returns the accepted grades (OR semantics).
func (s Set) Grades() []string { return s.grades }

// Brands returns the accepted brands (OR semantics).
func (s Set) Brands() []string { return s.brands }

// GSM returns the explicit grammage range.
func (s Set) GSM() Range { return s.gsm }

// Dimensions returns the dimensional range as supplied (not yet canonical).
func (s Set) Dimensions() DimensionRange { return s.dimensions }

// DateRange returns the creation-date window.
func (s Set) DateRange() DateRange { return s.date }

// Tolerance returns the explicit GSM tolerance override, nil when absent.
func (s Set) Tolerance() *int { return s.tolerance }

// Values returns the selection for a categorical field.
func (s Set) Values(f Field) []string {
	switch f {
	case FieldMake:
		return s.makes
	case FieldGrade:
		return s.grades
	case FieldBrand:
		return s.brands
	default:
		return nil
	}
}

// HasSelection reports whether a categorical field is constrained.
func (s Set) HasSelection(f Field) bool { return len(s.Values(f)) > 0 }

// Without returns a copy of the set with one categorical selection removed.
func (s Set) Without(f Field) Set {
	out := s
	switch f {
	case FieldMake:
		out.makes = nil
	case FieldGrade:
		out.grades = nil
	case FieldBrand:
		out.brands = nil
	}
	return out
}

// IsEmpty reports whether the set adds no constraint at all.
func (s Set) IsEmpty() bool {
	return len(s.makes) == 0 && len(s.grades) == 0 && len(s.brands) == 0 &&
		s.gsm.IsEmpty() && s.dimensions.IsEmpty() && s.date == DateAll
}

func normalizeValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == MaxValuesPerField {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Range is an inclusive numeric range; either bound may be absent.
type Range struct {
	min *float64
	max *float64
}

// NewRange creates a Range. Reversed bounds are swapped.
func NewRange(lo, hi *float64) Range {
	lo, hi = finite(lo), finite(hi)
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	return Range{min: lo, max: hi}
}

// Min returns the inclusive lower bound.
func (r Range) Min() *float64 { return r.min }

// Max returns the inclusive upper bound.
func (r Range) Max() *float64 { return r.max }

// IsEmpty reports whether neither bound is set.
func (r Range) IsEmpty() bool { return r.min == nil && r.max == nil }

// Contains reports whether v satisfies both present bounds.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}

// Scale multiplies present bounds by factor.
func (r Range) Scale(factor float64) Range {
	out := Range{}
	if r.min != nil {
		v := *r.min * factor
		out.min = &v
	}
	if r.max != nil {
		v := *r.max * factor
		out.max = &v
	}
	return out
}

// CoerceBound parses a loosely typed bound. Anything non-numeric yields nil.
func CoerceBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return finite(&v)
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := *v
	return &c
}
