package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Tokenizer defaults.
const (
	DefaultTolerance  = 10
	DefaultBareMin    = 20
	DefaultBareMax    = 2000
	minTermLength     = 2
	termTrimCharacter = ".,;:!?\"'()[]{}"
)

// Parsed is the structured reading of a free-text query.
type Parsed struct {
	// Text is the normalized full query: trimmed, lower-cased, single-spaced.
	Text string
	// Numeric is the detected GSM candidate, nil when none was found.
	Numeric *int
	// Tolerance is the half-width of the GSM band around Numeric. 0 means exact.
	Tolerance int
	// Terms are the remaining lower-cased free-text tokens.
	Terms []string
}

// HasNumeric reports whether a GSM candidate was detected.
func (p Parsed) HasNumeric() bool { return p.Numeric != nil }

// IsEmpty reports whether the query carries no term and no numeric candidate.
// Text made only of dropped tokens (single letters, punctuation) is empty.
func (p Parsed) IsEmpty() bool { return p.Numeric == nil && len(p.Terms) == 0 }

// NumericBand returns the inclusive [lo, hi] GSM band. ok is false without a candidate.
func (p Parsed) NumericBand() (lo, hi int, ok bool) {
	if p.Numeric == nil {
		return 0, 0, false
	}
	return *p.Numeric - p.Tolerance, *p.Numeric + p.Tolerance, true
}

// NumericDetector extracts a numeric measure candidate from query text.
// rest is the text with the matched fragment removed.
type NumericDetector interface {
	Detect(text string) (value int, rest string, ok bool)
}

// SuffixDetector matches digits followed by a grammage unit ("120gsm", "90 GSM", "80g/m2").
type SuffixDetector struct{}

var suffixRegex = regexp.MustCompile(`(?i)(\d+)\s?(gsm|g/m2|gm)\b`)

// Detect implements NumericDetector.
func (SuffixDetector) Detect(text string) (int, string, bool) {
	loc := suffixRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, text, false
	}
	v, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		return 0, text, false
	}
	return v, text[:loc[0]] + " " + text[loc[1]:], true
}

// BareTokenDetector treats the first standalone 2-4 digit token within [Min, Max]
// as the measure. This is a heuristic: "2024 report" is rejected only because
// 2024 falls outside the default range, not because the grammar knows better.
type BareTokenDetector struct {
	Min int
	Max int
}

var bareTokenRegex = regexp.MustCompile(`^\d{2,4}$`)

// Detect implements NumericDetector.
func (d BareTokenDetector) Detect(text string) (int, string, bool) {
	fields := strings.Fields(text)
	for i, f := range fields {
		tok := strings.Trim(f, termTrimCharacter)
		if !bareTokenRegex.MatchString(tok) {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < d.Min || v > d.Max {
			continue
		}
		rest := append(append([]string{}, fields[:i]...), fields[i+1:]...)
		return v, strings.Join(rest, " "), true
	}
	return 0, text, false
}

// Chain tries detectors in order; the first hit wins.
type Chain []NumericDetector

// Detect implements NumericDetector.
func (c Chain) Detect(text string) (int, string, bool) {
	for _, d := range c {
		if v, rest, ok := d.Detect(text); ok {
			return v, rest, true
		}
	}
	return 0, text, false
}

// DefaultDetector is the suffix grammar with the bare-token fallback.
func DefaultDetector(bareMin, bareMax int) NumericDetector {
	return Chain{SuffixDetector{}, BareTokenDetector{Min: bareMin, Max: bareMax}}
}

// Tokenizer splits raw queries into a numeric candidate and free-text terms.
type Tokenizer struct {
	detector         NumericDetector
	defaultTolerance int
}

// NewTokenizer creates a tokenizer. A nil detector disables numeric detection.
func NewTokenizer(detector NumericDetector, defaultTolerance int) *Tokenizer {
	if defaultTolerance < 0 {
		defaultTolerance = DefaultTolerance
	}
	return &Tokenizer{detector: detector, defaultTolerance: defaultTolerance}
}

// Parse tokenizes raw. explicitTolerance, when set, overrides the default band.
func (t *Tokenizer) Parse(raw string, explicitTolerance *int) Parsed {
	text := Normalize(raw)
	p := Parsed{Text: text, Tolerance: t.defaultTolerance}
	if explicitTolerance != nil && *explicitTolerance >= 0 {
		p.Tolerance = *explicitTolerance
	}

	rest := text
	if t.detector != nil && text != "" {
		if v, r, ok := t.detector.Detect(text); ok {
			p.Numeric = &v
			rest = r
		}
	}

	p.Terms = terms(rest)
	return p
}

// Normalize trims, lower-cases and collapses whitespace.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

func terms(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, termTrimCharacter)
		if len([]rune(f)) < minTermLength || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
