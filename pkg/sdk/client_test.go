package millsearch

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/millsearch/internal/db"
	"github.com/kailas-cloud/millsearch/internal/domain"
	"github.com/kailas-cloud/millsearch/internal/domain/listing"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
	healthuc "github.com/kailas-cloud/millsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
)

func floatPtr(f float64) *float64 { return &f }

func TestNew_NoDatabase(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no database configured")
	}
}

func TestNew_UnknownCache(t *testing.T) {
	cfg := &clientConfig{cache: "memcached"}
	if _, _, _, err := createCache(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestOptions(t *testing.T) {
	cfg := &clientConfig{}
	for _, o := range []Option{
		WithSQLite("x.db"),
		WithRedisCache("localhost:6379", "secret", time.Minute),
		WithPageLimits(10, 50),
	} {
		o.apply(cfg)
	}
	if cfg.driver != driverSQLite || !cfg.migrate {
		t.Errorf("driver = %q migrate = %v, want sqlite3 with migration", cfg.driver, cfg.migrate)
	}
	if cfg.cache != cacheRedis || cfg.cacheTTL != time.Minute {
		t.Errorf("cache = %q ttl = %v", cfg.cache, cfg.cacheTTL)
	}
	if cfg.defaultPageSize != 10 || cfg.maxPageSize != 50 {
		t.Errorf("page limits = %d/%d", cfg.defaultPageSize, cfg.maxPageSize)
	}

	WithPostgres("postgres://x").apply(cfg)
	if cfg.driver != driverPostgres || cfg.migrate {
		t.Errorf("postgres must not migrate, got driver=%q migrate=%v", cfg.driver, cfg.migrate)
	}
}

func TestSearch_MapsParams(t *testing.T) {
	var got *request.Request
	mock := &mockSearchUC{
		searchFn: func(_ context.Context, req *request.Request) (searchuc.Outcome, error) {
			got = req
			return searchuc.Outcome{ID: "id-1"}, nil
		},
	}
	c := testClient(nil, mock, nil)

	_, err := c.Search(context.Background(), SearchParams{
		Query:           " ITC 120gsm ",
		Makes:           []string{"ITC", "itc"},
		DeckleMin:       floatPtr(60),
		Unit:            "cm",
		ExcludeSellerID: 7,
		PageSize:        500,
		Sort:            SortGSMLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Query() != "ITC 120gsm" {
		t.Errorf("query = %q", got.Query())
	}
	if !reflect.DeepEqual(got.Filters().Makes(), []string{"ITC"}) {
		t.Errorf("makes = %v", got.Filters().Makes())
	}
	if v := got.Filters().Dimensions().Canonical().Deckle().Min(); v == nil || *v != 600 {
		t.Errorf("deckle min = %v, want 600mm", v)
	}
	if id := got.ExcludeRequesterID(); id == nil || *id != 7 {
		t.Errorf("exclude = %v, want 7", id)
	}
	if got.PageSize() != request.MaxPageSize {
		t.Errorf("page size = %d, want clamp to %d", got.PageSize(), request.MaxPageSize)
	}
	if got.Sort() != sortby.GSMLow {
		t.Errorf("sort = %q", got.Sort())
	}
}

func TestSearch_ConvertsPage(t *testing.T) {
	l, err := listing.New(listing.Attributes{
		ID: 3, SellerID: 9, Make: "ITC", Grade: "Supreme", Brand: "Cyber", GSM: 120,
		Price: floatPtr(55), ShowPrice: false,
	})
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	mock := &mockSearchUC{
		searchFn: func(context.Context, *request.Request) (searchuc.Outcome, error) {
			return searchuc.Outcome{
				ID:     "abc",
				Cached: true,
				Page: result.Page{
					Items:      []result.Result{result.Restore(l, 81, 1)},
					Total:      1,
					Page:       1,
					PageSize:   20,
					TotalPages: 1,
					Facets: result.Facets{
						Makes: []result.Bucket{{Key: "ITC", DocCount: 1}},
					},
				},
			}, nil
		},
	}
	c := testClient(nil, mock, nil)

	page, err := c.Search(context.Background(), SearchParams{Query: "itc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.ID != "abc" || !page.Cached || page.Total != 1 || page.TotalPages != 1 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(page.Hits))
	}
	hit := page.Hits[0]
	if hit.ID != 3 || hit.Score != 81 || hit.Page != 1 {
		t.Errorf("hit = %+v", hit)
	}
	if hit.Description != "ITC Supreme Cyber 120gsm" {
		t.Errorf("description = %q", hit.Description)
	}
	if hit.Price != nil {
		t.Error("hidden price must not be exposed")
	}
	if !reflect.DeepEqual(page.Facets.Makes, []Bucket{{Key: "ITC", Count: 1}}) {
		t.Errorf("makes facet = %v", page.Facets.Makes)
	}
	if page.Facets.Brands == nil {
		t.Error("empty facets must be non-nil")
	}
}

func TestSearch_InvalidRequest(t *testing.T) {
	mock := &mockSearchUC{
		searchFn: func(context.Context, *request.Request) (searchuc.Outcome, error) {
			t.Fatal("use case must not be called")
			return searchuc.Outcome{}, nil
		},
	}
	c := testClient(nil, mock, nil)

	_, err := c.Search(context.Background(), SearchParams{Query: strings.Repeat("x", request.MaxQueryLength+1)})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestSearch_StoreError(t *testing.T) {
	mock := &mockSearchUC{
		searchFn: func(context.Context, *request.Request) (searchuc.Outcome, error) {
			return searchuc.Outcome{}, domain.ErrStoreUnavailable
		},
	}
	c := testClient(nil, mock, nil)

	_, err := c.Search(context.Background(), SearchParams{})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestSuggest(t *testing.T) {
	mock := &mockSearchUC{
		suggestFn: func(_ context.Context, q string) ([]result.Suggestion, error) {
			if q == "i" {
				return nil, domain.ErrQueryTooShort
			}
			return []result.Suggestion{{Text: "ITC", Type: result.SuggestionMake, Score: 8}}, nil
		},
	}
	c := testClient(nil, mock, nil)

	got, err := c.Suggest(context.Background(), "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []Suggestion{{Text: "ITC", Type: "make", Score: 8}}) {
		t.Errorf("suggestions = %v", got)
	}

	if _, err := c.Suggest(context.Background(), "i"); !errors.Is(err, ErrQueryTooShort) {
		t.Errorf("err = %v, want ErrQueryTooShort", err)
	}
}

func TestPing(t *testing.T) {
	store := &mockStore{pingFn: func(context.Context) error { return errors.New("conn refused") }}
	c := testClient(store, nil, nil)

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	c.Close()
	if !store.closed {
		t.Error("Close must close the store")
	}
}

func TestAddListings(t *testing.T) {
	var rows []db.ListingRow
	store := &mockStore{
		insertFn: func(_ context.Context, r ...db.ListingRow) ([]int64, error) {
			rows = r
			return []int64{1}, nil
		},
	}
	c := testClient(store, nil, nil)

	ids, err := c.AddListings(context.Background(), NewListing{Make: "JK", Brand: "Copier", GSM: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{1}) {
		t.Errorf("ids = %v", ids)
	}
	if len(rows) != 1 || rows[0].Description != "JK Copier 80gsm" || rows[0].Status != "active" {
		t.Errorf("rows = %+v", rows)
	}

	if _, err := c.AddListings(context.Background(), NewListing{GSM: 80}); err == nil {
		t.Error("expected validation error for missing make")
	}
}

func TestHealth(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentDatabase: healthuc.CheckOK,
			healthuc.ComponentCache:    healthuc.CheckError,
		},
	}}}

	got := c.Health(context.Background())
	if got.Status != "degraded" {
		t.Errorf("status = %q, want degraded", got.Status)
	}
	if got.Checks["cache"] != "error" || got.Checks["database"] != "ok" {
		t.Errorf("checks = %v", got.Checks)
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("new observer: %v", err)
	}
	cached := true
	mock := &mockSearchUC{
		searchFn: func(context.Context, *request.Request) (searchuc.Outcome, error) {
			return searchuc.Outcome{Cached: cached}, nil
		},
	}
	c := testClient(nil, mock, obs)

	_, _ = c.Search(context.Background(), SearchParams{})
	cached = false
	_, _ = c.Search(context.Background(), SearchParams{})
	_, _ = c.Search(context.Background(), SearchParams{Query: strings.Repeat("x", request.MaxQueryLength+1)})

	for status, want := range map[string]float64{statusCached: 1, statusOK: 1, statusError: 1} {
		if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search", status)); got != want {
			t.Errorf("search/%s = %v, want %v", status, got, want)
		}
	}
}

func TestObserver_ReuseRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("second observer must reuse registered collectors")
	}
}

func TestObserver_Nil(t *testing.T) {
	var obs *observer
	obs.observe("ping", time.Now(), errors.New("x"))
	obs.observeSearch(time.Now(), nil, nil)
}
