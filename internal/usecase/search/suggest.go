package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/millsearch/internal/domain"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// MinSuggestionQueryLength is the shortest accepted autocomplete fragment, in characters.
const MinSuggestionQueryLength = 2

var suggestionFields = []result.SuggestionType{
	result.SuggestionMake,
	result.SuggestionBrand,
	result.SuggestionGrade,
}

// Suggest returns autocomplete candidates for a query fragment, drawn from
// the distinct values of active listings. Prefix matches score double.
func (s *Service) Suggest(ctx context.Context, q string) ([]result.Suggestion, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinSuggestionQueryLength {
		return nil, fmt.Errorf("%w: need at least %d characters", domain.ErrQueryTooShort, MinSuggestionQueryLength)
	}
	lower := strings.ToLower(q)

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	var (
		mu  sync.Mutex
		out []result.Suggestion
	)
	collect := func(typ result.SuggestionType, buckets []result.Bucket, text func(string) string) {
		mu.Lock()
		defer mu.Unlock()
		for _, b := range buckets {
			t := text(b.Key)
			score := float64(b.DocCount)
			if strings.HasPrefix(strings.ToLower(t), lower) {
				score *= 2
			}
			out = append(out, result.Suggestion{Text: t, Type: typ, Score: score})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, typ := range suggestionFields {
		g.Go(func() error {
			buckets, err := s.repo.Suggest(gctx, string(typ), q, s.suggestionLimit)
			if err != nil {
				return fmt.Errorf("suggest %s: %w", typ, err)
			}
			collect(typ, buckets, strings.TrimSpace)
			return nil
		})
	}
	if prefix, err := strconv.Atoi(q); err == nil && prefix > 0 {
		g.Go(func() error {
			buckets, err := s.repo.SuggestGSM(gctx, prefix, s.suggestionLimit)
			if err != nil {
				return fmt.Errorf("suggest gsm: %w", err)
			}
			collect(result.SuggestionGSM, buckets, func(k string) string { return k + "gsm" })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.storeFailure("suggest", err)
	}

	return rankSuggestions(out, s.suggestionLimit), nil
}

// rankSuggestions drops duplicate (type, text) pairs, orders by score desc
// then text, and caps the list.
func rankSuggestions(in []result.Suggestion, limit int) []result.Suggestion {
	seen := make(map[string]bool, len(in))
	out := make([]result.Suggestion, 0, len(in))
	for _, sg := range in {
		if sg.Text == "" {
			continue
		}
		key := string(sg.Type) + "\x00" + strings.ToLower(sg.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sg)
	}
	slices.SortFunc(out, func(a, b result.Suggestion) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := strings.Compare(a.Text, b.Text); c != 0 {
			return c
		}
		return strings.Compare(string(a.Type), string(b.Type))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
