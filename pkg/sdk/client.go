package millsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/millsearch/internal/db/redis"
	"github.com/kailas-cloud/millsearch/internal/db/sqlstore"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	listingrepo "github.com/kailas-cloud/millsearch/internal/repository/listing"
	"github.com/kailas-cloud/millsearch/internal/repository/rescache"
	healthuc "github.com/kailas-cloud/millsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 5 * time.Minute
)

// Internal interfaces, substituted in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Outcome, error)
	Suggest(ctx context.Context, q string) ([]result.Suggestion, error)
}

type listingStore interface {
	healthuc.Pinger
	listingInserter
	Close()
}

// Client is the millsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store     listingStore
	closers   []func()
	searchSvc searchUseCase
	healthSvc healthUseCase
	limits    request.Limits
	obs       *observer
}

// New creates a Client, connects to the listing database and, for SQLite,
// creates the schema. The provided context bounds the readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cache:    cacheMemory,
		cacheTTL: defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" || cfg.dsn == "" {
		return nil, errors.New("millsearch: database required (use WithPostgres or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := sqlstore.NewStore(sqlstore.Config{Driver: cfg.driver, DSN: cfg.dsn})
	if err != nil {
		return nil, fmt.Errorf("millsearch: create store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("millsearch: database not ready: %w", err)
	}
	if cfg.migrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("millsearch: migrate: %w", err)
		}
	}

	cache, cachePinger, closeCache, err := createCache(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	searchSvc := searchuc.New(listingrepo.New(store), cache, nil, zap.NewNop())
	c := &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, cachePinger),
		limits: request.Limits{
			DefaultPageSize: cfg.defaultPageSize,
			MaxPageSize:     cfg.maxPageSize,
		},
		obs: obs,
	}
	if closeCache != nil {
		c.closers = append(c.closers, closeCache)
	}
	return c, nil
}

func createCache(ctx context.Context, cfg *clientConfig) (searchuc.Cache, healthuc.Pinger, func(), error) {
	switch cfg.cache {
	case cacheNone:
		return rescache.Nop{}, nil, nil, nil
	case cacheRedis:
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("millsearch: create redis cache: %w", err)
		}
		if err := kv.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			kv.Close()
			return nil, nil, nil, fmt.Errorf("millsearch: redis not ready: %w", err)
		}
		return rescache.NewKV(kv, cfg.cacheTTL, "", nil, zap.NewNop()), kv, kv.Close, nil
	case cacheMemory:
		return rescache.NewMemory(cfg.cacheTTL, nil), nil, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("millsearch: unknown cache backend %q", cfg.cache)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for _, fn := range c.closers {
		fn()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a faceted relevance search. Malformed filter values are
// ignored rather than rejected; only an overlong query returns
// ErrInvalidRequest.
func (c *Client) Search(ctx context.Context, p SearchParams) (page *SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(start, page, err) }()

	req, err := request.New(toRequestParams(&p), c.limits)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromOutcome(&out), nil
}

// Suggest returns autocomplete candidates for a partial query of at
// least two characters.
func (c *Client) Suggest(ctx context.Context, q string) (_ []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	raw, err := c.searchSvc.Suggest(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	out := make([]Suggestion, len(raw))
	for i, s := range raw {
		out[i] = Suggestion{Text: s.Text, Type: string(s.Type), Score: s.Score}
	}
	return out, nil
}
