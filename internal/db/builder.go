package db

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect selects the bind-parameter syntax of the target database.
type Dialect string

// Supported dialects.
const (
	// DialectSQLite binds with "?" markers.
	DialectSQLite Dialect = "sqlite3"
	// DialectPostgres binds with "$1, $2, ..." markers.
	DialectPostgres Dialect = "postgres"
)

// likeEscape is the LIKE escape character used by AnyLike.
const likeEscape = `\`

var identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Predicate is a conjunction of SQL clauses with "?" markers and their bound values.
// User input only ever travels through Args.
type Predicate struct {
	clauses []string
	args    []any
}

// SQL returns the clauses joined with AND ("1=1" when empty).
func (p Predicate) SQL() string {
	if len(p.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(p.clauses, " AND ")
}

// Args returns the bound values in marker order.
func (p Predicate) Args() []any { return p.args }

// Clauses returns the individual clauses.
func (p Predicate) Clauses() []string { return p.clauses }

// IsEmpty reports whether the predicate matches every row.
func (p Predicate) IsEmpty() bool { return len(p.clauses) == 0 }

// Rebind rewrites "?" markers for the dialect. Quoted literals are left untouched.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// PredicateBuilder is a fluent builder for Predicate values.
type PredicateBuilder struct {
	clauses []string
	args    []any
	err     error
}

// NewPredicate starts building a predicate.
func NewPredicate() *PredicateBuilder {
	return &PredicateBuilder{}
}

// Eq adds "column = value".
func (b *PredicateBuilder) Eq(column string, value any) *PredicateBuilder {
	if b.check(column) {
		b.add(column+" = ?", value)
	}
	return b
}

// NotEq adds "column <> value"; rows with NULL in column are kept.
func (b *PredicateBuilder) NotEq(column string, value any) *PredicateBuilder {
	if b.check(column) {
		b.add("("+column+" IS NULL OR "+column+" <> ?)", value)
	}
	return b
}

// InFold adds a case-insensitive membership clause. Empty values add nothing.
func (b *PredicateBuilder) InFold(column string, values []string) *PredicateBuilder {
	if len(values) == 0 || !b.check(column) {
		return b
	}
	markers := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		markers[i] = "?"
		args[i] = strings.ToLower(v)
	}
	b.add("LOWER("+column+") IN ("+strings.Join(markers, ", ")+")", args...)
	return b
}

// Between adds the closed range "column BETWEEN lo AND hi".
func (b *PredicateBuilder) Between(column string, lo, hi any) *PredicateBuilder {
	if b.check(column) {
		b.add(column+" BETWEEN ? AND ?", lo, hi)
	}
	return b
}

// Gte adds "column >= value".
func (b *PredicateBuilder) Gte(column string, value any) *PredicateBuilder {
	if b.check(column) {
		b.add(column+" >= ?", value)
	}
	return b
}

// Lte adds "column <= value".
func (b *PredicateBuilder) Lte(column string, value any) *PredicateBuilder {
	if b.check(column) {
		b.add(column+" <= ?", value)
	}
	return b
}

// AnyLike adds a case-insensitive substring match of term against any of columns
// (OR across columns). LIKE wildcards in term are escaped.
func (b *PredicateBuilder) AnyLike(columns []string, term string) *PredicateBuilder {
	if len(columns) == 0 || term == "" {
		return b
	}
	pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, c := range columns {
		if !b.check(c) {
			return b
		}
		parts = append(parts, "LOWER("+c+") LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, pattern)
	}
	b.add("("+strings.Join(parts, " OR ")+")", args...)
	return b
}

// Build returns the predicate or the first identifier error.
func (b *PredicateBuilder) Build() (Predicate, error) {
	if b.err != nil {
		return Predicate{}, b.err
	}
	return Predicate{clauses: b.clauses, args: b.args}, nil
}

// MustBuild calls Build and panics on error.
func (b *PredicateBuilder) MustBuild() Predicate {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

func (b *PredicateBuilder) add(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

func (b *PredicateBuilder) check(column string) bool {
	if b.err != nil {
		return false
	}
	if err := ValidateIdentifier(column); err != nil {
		b.err = err
		return false
	}
	return true
}

// ValidateIdentifier rejects anything but lower-case snake_case names.
func ValidateIdentifier(name string) error {
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// EscapeLike escapes LIKE wildcards and the escape character itself.
func EscapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
