package db

import (
	"errors"
	"reflect"
	"testing"
)

func TestPredicateBuilder_Empty(t *testing.T) {
	p := NewPredicate().MustBuild()
	if !p.IsEmpty() {
		t.Error("expected empty predicate")
	}
	if p.SQL() != "1=1" {
		t.Errorf("SQL() = %q, want 1=1", p.SQL())
	}
	if len(p.Args()) != 0 {
		t.Errorf("Args() = %v", p.Args())
	}
}

func TestPredicateBuilder_Clauses(t *testing.T) {
	p := NewPredicate().
		Eq("status", "active").
		NotEq("seller_id", int64(7)).
		InFold("make", []string{"ITC", "JK"}).
		Between("gsm", 110, 130).
		Gte("deckle_mm", 600.0).
		Lte("grain_mm", 1000.0).
		MustBuild()

	wantSQL := "status = ? AND (seller_id IS NULL OR seller_id <> ?) AND LOWER(make) IN (?, ?)" +
		" AND gsm BETWEEN ? AND ? AND deckle_mm >= ? AND grain_mm <= ?"
	if p.SQL() != wantSQL {
		t.Errorf("SQL() =\n%s\nwant\n%s", p.SQL(), wantSQL)
	}
	wantArgs := []any{"active", int64(7), "itc", "jk", 110, 130, 600.0, 1000.0}
	if !reflect.DeepEqual(p.Args(), wantArgs) {
		t.Errorf("Args() = %v, want %v", p.Args(), wantArgs)
	}
}

func TestPredicateBuilder_InFoldEmpty(t *testing.T) {
	p := NewPredicate().InFold("make", nil).MustBuild()
	if !p.IsEmpty() {
		t.Error("empty value list must add no clause")
	}
}

func TestPredicateBuilder_AnyLike(t *testing.T) {
	p := NewPredicate().AnyLike([]string{"make", "brand"}, "50%_Off").MustBuild()

	wantSQL := `(LOWER(make) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\')`
	if p.SQL() != wantSQL {
		t.Errorf("SQL() = %q, want %q", p.SQL(), wantSQL)
	}
	want := `%50\%\_off%`
	for i, a := range p.Args() {
		if a != want {
			t.Errorf("arg[%d] = %v, want %q", i, a, want)
		}
	}
}

func TestPredicateBuilder_InjectionStaysInArgs(t *testing.T) {
	evil := "x'); DROP TABLE listings; --"
	p := NewPredicate().Eq("make", evil).AnyLike([]string{"description"}, evil).MustBuild()
	if got := p.SQL(); got != `make = ? AND (LOWER(description) LIKE ? ESCAPE '\')` {
		t.Errorf("user input leaked into SQL: %q", got)
	}
}

func TestPredicateBuilder_InvalidIdentifier(t *testing.T) {
	tests := []string{"", "Make", "make; drop", "1col", "a-b"}
	for _, col := range tests {
		t.Run(col, func(t *testing.T) {
			_, err := NewPredicate().Eq("status", "active").Eq(col, 1).Build()
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("expected ErrInvalidIdentifier, got %v", err)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM listings WHERE make = ? AND (LOWER(brand) LIKE ? ESCAPE '\') AND note = 'what?' LIMIT ?`

	if got := Rebind(DialectSQLite, q); got != q {
		t.Errorf("sqlite rebind changed query: %q", got)
	}
	want := `SELECT id FROM listings WHERE make = $1 AND (LOWER(brand) LIKE $2 ESCAPE '\') AND note = 'what?' LIMIT $3`
	if got := Rebind(DialectPostgres, q); got != want {
		t.Errorf("Rebind() =\n%s\nwant\n%s", got, want)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
