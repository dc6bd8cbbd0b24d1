package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/millsearch/internal/domain"
	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// Service defaults.
const (
	// DefaultMaxCandidates leaves the candidate fetch unbounded.
	DefaultMaxCandidates   = 0
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 15
)

// Outcome is a served search page plus request metadata.
type Outcome struct {
	ID     string
	Page   result.Page
	Cached bool
}

// Service runs faceted relevance search over the listing store.
type Service struct {
	repo      Repository
	cache     Cache
	tokenizer *query.Tokenizer
	scorer    *Scorer
	logger    *zap.Logger

	facetLimit      int
	facetMode       FacetMode
	maxCandidates   int
	suggestionLimit int
	queryTimeout    time.Duration
	now             func() time.Time

	searchDuration *prometheus.HistogramVec
	storeErrors    *prometheus.CounterVec
}

// Option configures a Service.
type Option func(*Service)

// WithFacetLimit bounds buckets per facet field.
func WithFacetLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.facetLimit = n
		}
	}
}

// WithFacetMode selects filtered (default) or disjunctive facet counts.
func WithFacetMode(m FacetMode) Option {
	return func(s *Service) {
		if m.IsValid() {
			s.facetMode = m
		}
	}
}

// WithMaxCandidates bounds rows fetched per search, newest first. Matches past
// the cap are neither scored nor counted in the total. Zero means unbounded.
func WithMaxCandidates(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// WithSuggestionLimit caps suggestions per query (at most MaxSuggestionLimit).
func WithSuggestionLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suggestionLimit = min(n, MaxSuggestionLimit)
		}
	}
}

// WithQueryTimeout bounds each record-store round trip. Zero keeps the caller deadline only.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) { s.queryTimeout = d }
}

// WithScorer replaces the default relevance rules.
func WithScorer(sc *Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithClock overrides the time source used for date windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSearchDuration records search latency labelled by cache outcome.
func WithSearchDuration(h *prometheus.HistogramVec) Option {
	return func(s *Service) { s.searchDuration = h }
}

// WithStoreErrors counts record-store failures labelled by operation.
func WithStoreErrors(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.storeErrors = c }
}

// New creates a search service. A nil cache disables caching; a nil logger discards logs.
func New(repo Repository, cache Cache, tokenizer *query.Tokenizer, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenizer == nil {
		tokenizer = query.NewTokenizer(
			query.DefaultDetector(query.DefaultBareMin, query.DefaultBareMax),
			query.DefaultTolerance,
		)
	}
	s := &Service{
		repo:            repo,
		cache:           cache,
		tokenizer:       tokenizer,
		scorer:          NewScorer(),
		logger:          logger,
		facetLimit:      DefaultFacetLimit,
		facetMode:       FacetsFiltered,
		maxCandidates:   DefaultMaxCandidates,
		suggestionLimit: DefaultSuggestionLimit,
		now:             time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	return s
}

// Search serves one page of ranked listings with facets. Identical requests
// within the cache TTL are answered from the cache.
func (s *Service) Search(ctx context.Context, req *request.Request) (Outcome, error) {
	start := time.Now()
	out := Outcome{ID: uuid.NewString()}

	key, err := req.Signature()
	if err != nil {
		s.logger.Warn("search signature failed, bypassing cache", zap.Error(err))
	} else if page, ok := s.cache.Get(ctx, key); ok {
		out.Page, out.Cached = page, true
		s.observe(out, start)
		return out, nil
	}

	filters := req.Filters()
	crit := criteria.Criteria{
		Parsed:          s.tokenizer.Parse(req.Query(), filters.Tolerance()),
		Filters:         filters,
		ExcludeSellerID: req.ExcludeRequesterID(),
		Now:             s.now(),
	}

	found, err := s.find(ctx, crit)
	if err != nil {
		return Outcome{}, s.storeFailure("find", err)
	}

	results := s.scorer.Score(&crit.Parsed, found)
	sortResults(results, req.Sort().Effective(crit.HasSignal()))

	facets := aggregate(found, s.facetLimit)
	if s.facetMode == FacetsDisjunctive {
		if err := s.disjunctiveFacets(ctx, crit, &facets); err != nil {
			return Outcome{}, s.storeFailure("distinct", err)
		}
	}

	out.Page = paginate(results, req.Page(), req.PageSize())
	out.Page.Facets = facets

	if key != "" {
		s.cache.Set(ctx, key, out.Page)
	}
	s.observe(out, start)
	return out, nil
}

func (s *Service) find(ctx context.Context, crit criteria.Criteria) ([]listing.Listing, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	found, err := s.repo.Find(ctx, crit, s.maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	if s.maxCandidates > 0 && len(found) >= s.maxCandidates {
		s.logger.Warn("candidate cap reached, older matches dropped",
			zap.Int("max_candidates", s.maxCandidates))
	}
	return found, nil
}

// disjunctiveFacets recounts every selected categorical field with its own
// selection removed.
func (s *Service) disjunctiveFacets(ctx context.Context, crit criteria.Criteria, facets *result.Facets) error {
	targets := map[filter.Field]*[]result.Bucket{
		filter.FieldMake:  &facets.Makes,
		filter.FieldGrade: &facets.Grades,
		filter.FieldBrand: &facets.Brands,
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range filter.Fields() {
		if !crit.Filters.HasSelection(f) {
			continue
		}
		dst := targets[f]
		g.Go(func() error {
			buckets, err := s.repo.Distinct(gctx, string(f), crit.Without(f), s.facetLimit)
			if err != nil {
				return fmt.Errorf("distinct %s: %w", f, err)
			}
			*dst = buckets
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

// storeFailure logs and counts a record-store failure and maps it to ErrStoreUnavailable.
// Caller cancellation is passed through unchanged.
func (s *Service) storeFailure(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if s.storeErrors != nil {
		s.storeErrors.WithLabelValues(op).Inc()
	}
	s.logger.Error("listing store failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

func (s *Service) observe(out Outcome, start time.Time) {
	elapsed := time.Since(start)
	label := "miss"
	if out.Cached {
		label = "hit"
	}
	if s.searchDuration != nil {
		s.searchDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	}
	s.logger.Debug("search served",
		zap.String("search_id", out.ID),
		zap.Int("total", out.Page.Total),
		zap.String("cache", label),
		zap.Duration("duration", elapsed),
	)
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (result.Page, bool) { return result.Page{}, false }
func (nopCache) Set(context.Context, string, result.Page)        {}
