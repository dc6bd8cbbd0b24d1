package millsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"

	cacheNone   = "none"
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

type clientConfig struct {
	driver  string
	dsn     string
	migrate bool

	cache         string
	cacheTTL      time.Duration
	cacheAddrs    []string
	cachePassword string

	defaultPageSize int
	maxPageSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres reads listings from a PostgreSQL database.
// The schema is expected to exist.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
		c.migrate = false
	})
}

// WithSQLite reads listings from a SQLite file (or ":memory:").
// The listing schema is created when missing.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.dsn = path
		c.migrate = true
	})
}

// WithMemoryCache caches result pages in process for ttl.
// This is the default with a 5 minute TTL.
func WithMemoryCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cache = cacheMemory
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches result pages in Redis for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cache = cacheRedis
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithoutCache disables result caching.
func WithoutCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cache = cacheNone
	})
}

// WithPageLimits overrides the default and maximum page sizes.
// Non-positive values keep the built-in limits (20 and 100).
func WithPageLimits(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
