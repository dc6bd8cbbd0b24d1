package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/millsearch/internal/config"
	dbRedis "github.com/kailas-cloud/millsearch/internal/db/redis"
	"github.com/kailas-cloud/millsearch/internal/db/sqlstore"
	"github.com/kailas-cloud/millsearch/internal/domain/search/query"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/millsearch/internal/logger"
	"github.com/kailas-cloud/millsearch/internal/metrics"
	listingrepo "github.com/kailas-cloud/millsearch/internal/repository/listing"
	"github.com/kailas-cloud/millsearch/internal/repository/rescache"
	chiTransport "github.com/kailas-cloud/millsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/millsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
	"github.com/kailas-cloud/millsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting millsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	store, err := sqlstore.NewStore(sqlstore.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		logger.Fatal("Failed to create listing store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Database.Migrate {
		if err := store.Migrate(ctx); err != nil {
			logger.Fatal("Schema migration failed", zap.Error(err))
		}
		logger.Info("Schema migrated")
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	cache, cachePinger, closeCache := buildCache(ctx, &cfg.Cache, readiness, logger)
	defer closeCache()

	tokenizer := query.NewTokenizer(
		query.DefaultDetector(cfg.Search.BareNumericMin, cfg.Search.BareNumericMax),
		cfg.Search.Tolerance(),
	)
	searchSvc := searchuc.New(listingrepo.New(store), cache, tokenizer, logger,
		searchuc.WithFacetLimit(cfg.Search.FacetLimit),
		searchuc.WithFacetMode(searchuc.FacetMode(cfg.Search.FacetMode)),
		searchuc.WithMaxCandidates(cfg.Search.MaxCandidates),
		searchuc.WithSuggestionLimit(cfg.Search.SuggestionLimit),
		searchuc.WithQueryTimeout(time.Duration(cfg.Database.QueryTimeoutSec)*time.Second),
		searchuc.WithSearchDuration(metrics.SearchDuration),
		searchuc.WithStoreErrors(metrics.StoreErrorsTotal),
	)
	healthSvc := healthuc.New(store, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, request.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	})

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCache selects the result cache backend. The returned pinger is nil
// for in-process backends.
func buildCache(
	ctx context.Context,
	cfg *config.CacheConfig,
	readiness time.Duration,
	logger *zap.Logger,
) (searchuc.Cache, healthuc.Pinger, func()) {
	ttl := time.Duration(cfg.TTLSec) * time.Second

	switch cfg.Backend {
	case config.CacheNone:
		return rescache.Nop{}, nil, func() {}
	case config.CacheRedis:
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis cache store", zap.Error(err))
		}
		if err := kv.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis cache", zap.Strings("addrs", cfg.Addrs))
		return rescache.NewKV(kv, ttl, cfg.KeyPrefix, metrics.SearchCacheTotal, logger), kv, kv.Close
	default:
		mem := rescache.NewMemory(ttl, metrics.SearchCacheTotal, rescache.WithMaxEntries(cfg.MaxEntries))
		return mem, nil, func() {}
	}
}
