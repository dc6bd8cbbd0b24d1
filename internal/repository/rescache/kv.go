package rescache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/millsearch/internal/db"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// DefaultKeyPrefix namespaces cache entries in a shared key-value store.
const DefaultKeyPrefix = "millsearch:"

// store is the consumer interface for the key-value backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KV caches pages as JSON in a key-value store (Redis). Backend and
// serialization failures are logged and degrade to a miss.
type KV struct {
	store      store
	ttl        time.Duration
	prefix     string
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewKV creates a key-value backed cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), may be nil.
func NewKV(
	s store,
	ttl time.Duration,
	prefix string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *KV {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KV{
		store:      s,
		ttl:        ttl,
		prefix:     prefix,
		now:        time.Now,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached page for key.
func (c *KV) Get(ctx context.Context, key string) (result.Page, bool) {
	full := c.prefix + key
	data, err := c.store.Get(ctx, full)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			inc(c.cacheTotal, resultMiss)
		} else {
			inc(c.cacheTotal, resultError)
			c.logger.Warn("Failed to get cached page", zap.String("key", full), zap.Error(err))
		}
		return result.Page{}, false
	}

	page, expiresAt, err := decodePage(data)
	if err != nil {
		inc(c.cacheTotal, resultError)
		c.logger.Warn("Failed to decode cached page", zap.String("key", full), zap.Error(err))
		return result.Page{}, false
	}
	if !c.now().Before(expiresAt) {
		inc(c.cacheTotal, resultMiss)
		return result.Page{}, false
	}

	inc(c.cacheTotal, resultHit)
	return page, true
}

// Set stores page under key with the configured TTL.
func (c *KV) Set(ctx context.Context, key string, page result.Page) {
	full := c.prefix + key
	data, err := encodePage(page, c.now().Add(c.ttl))
	if err != nil {
		inc(c.cacheTotal, resultError)
		c.logger.Warn("Failed to encode page", zap.String("key", full), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, full, data, c.ttl); err != nil {
		inc(c.cacheTotal, resultError)
		c.logger.Warn("Failed to cache page", zap.String("key", full), zap.Error(err))
	}
}

func encodePage(p result.Page, expiresAt time.Time) ([]byte, error) {
	data, err := json.Marshal(toPageDTO(p, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("marshal page: %w", err)
	}
	return data, nil
}

func decodePage(data []byte) (result.Page, time.Time, error) {
	var dto pageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return result.Page{}, time.Time{}, fmt.Errorf("unmarshal page: %w", err)
	}
	if dto.Version != dtoVersion {
		return result.Page{}, time.Time{}, fmt.Errorf("unsupported cache version %d", dto.Version)
	}
	return dto.toPage(), dto.ExpiresAt, nil
}
