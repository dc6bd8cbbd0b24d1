package filter

import (
	"strings"
	"time"
)

// Unit is a length unit for dimensional filters.
type Unit string

// Supported length units. Millimeters are canonical.
const (
	UnitMM   Unit = "mm"
	UnitCM   Unit = "cm"
	UnitInch Unit = "inch"
)

// ParseUnit maps user input to a Unit; unknown values fall back to mm.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cm":
		return UnitCM
	case "inch", "inches", "in", `"`:
		return UnitInch
	default:
		return UnitMM
	}
}

// MillimetersPer returns the conversion factor to millimeters.
func (u Unit) MillimetersPer() float64 {
	switch u {
	case UnitCM:
		return 10
	case UnitInch:
		return 25.4
	default:
		return 1
	}
}

// ToMillimeters converts v from u to millimeters.
func (u Unit) ToMillimeters(v float64) float64 { return v * u.MillimetersPer() }

// DimensionRange bounds deckle and grain, expressed in a single unit.
type DimensionRange struct {
	deckle Range
	grain  Range
	unit   Unit
}

// NewDimensionRange creates a DimensionRange. An empty unit means mm.
func NewDimensionRange(deckle, grain Range, unit Unit) DimensionRange {
	if unit == "" {
		unit = UnitMM
	}
	return DimensionRange{deckle: deckle, grain: grain, unit: ParseUnit(string(unit))}
}

// Deckle returns the deckle range in Unit().
func (d DimensionRange) Deckle() Range { return d.deckle }

// Grain returns the grain range in Unit().
func (d DimensionRange) Grain() Range { return d.grain }

// Unit returns the unit the bounds are expressed in.
func (d DimensionRange) Unit() Unit {
	if d.unit == "" {
		return UnitMM
	}
	return d.unit
}

// IsEmpty reports whether no dimensional bound is set.
func (d DimensionRange) IsEmpty() bool { return d.deckle.IsEmpty() && d.grain.IsEmpty() }

// Canonical converts both ranges to millimeters.
func (d DimensionRange) Canonical() DimensionRange {
	f := d.Unit().MillimetersPer()
	return DimensionRange{deckle: d.deckle.Scale(f), grain: d.grain.Scale(f), unit: UnitMM}
}

// DateRange is a creation-time window.
type DateRange string

// Supported date windows.
const (
	DateAll   DateRange = "all"
	DateToday DateRange = "today"
	DateWeek  DateRange = "week"
	DateMonth DateRange = "month"
)

// ParseDateRange maps user input to a DateRange; unknown values mean all.
func ParseDateRange(s string) DateRange {
	switch DateRange(strings.ToLower(strings.TrimSpace(s))) {
	case DateToday:
		return DateToday
	case DateWeek:
		return DateWeek
	case DateMonth:
		return DateMonth
	default:
		return DateAll
	}
}

// Since returns the lower creation-time bound relative to now.
// ok is false for DateAll.
func (d DateRange) Since(now time.Time) (time.Time, bool) {
	switch d {
	case DateToday:
		y, m, day := now.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, now.Location()), true
	case DateWeek:
		return now.AddDate(0, 0, -7), true
	case DateMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}
