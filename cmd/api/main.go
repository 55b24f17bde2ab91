// Package main implements the HTTP API server for the car listing catalog.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsjohal14/mukrindo/internal/history"
	apihttp "github.com/dsjohal14/mukrindo/internal/http"
	"github.com/dsjohal14/mukrindo/internal/libs/config"
	"github.com/dsjohal14/mukrindo/internal/libs/jobs"
	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/db"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/dsjohal14/mukrindo/internal/streamlite"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	src, err := db.OpenSource(ctx, cfg.DatabaseURL, cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open catalog source")
	}
	defer func() { _ = src.Close() }()

	idx := db.NewMemIndex()
	reload := func(ctx context.Context) error {
		version, err := db.Reload(ctx, src, idx)
		obs.ObserveReload(idx.Count(), err)
		if err != nil {
			return err
		}
		logger.Info().Uint64("version", version).Int("products", idx.Count()).Msg("catalog loaded")
		return nil
	}
	if err := reload(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	engine, err := search.New(search.DefaultOptions())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create search engine")
	}

	hist, closeHistory := initHistory(ctx, cfg, logger)
	defer closeHistory()

	// Create HTTP handler
	handler := apihttp.NewHandler(idx, search.NewMemo(engine, cfg.MemoCapacity), hist, apihttp.Options{
		PageSize:    cfg.PageSize,
		DefaultSort: search.SortMode(cfg.DefaultSort),
	}, logger)
	limiter := apihttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Background jobs
	queue := jobs.NewQueue(obs.Logger("jobs"))
	queue.Enqueue("catalog-reload", cfg.ReloadInterval, reload)
	queue.Enqueue("rate-limit-prune", time.Minute, func(context.Context) error {
		limiter.Prune(10 * time.Minute)
		return nil
	})
	go queue.Run(ctx)

	// Change feed
	if cfg.RabbitURL != "" {
		feed := streamlite.NewCatalogFeed(cfg.RabbitURL, streamlite.DefaultExchange,
			func(ctx context.Context, _ streamlite.ChangeNotice) error { return reload(ctx) },
			obs.Logger("feed"))
		if err := feed.Start(); err != nil {
			logger.Error().Err(err).Msg("catalog feed unavailable, relying on periodic reload")
		} else {
			defer func() { _ = feed.Stop() }()
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           apihttp.NewRouter(handler, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// Start server
	logger.Info().Str("addr", srv.Addr).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

// initHistory uses Redis when configured and falls back to process memory
func initHistory(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (history.Repository, func()) {
	if cfg.RedisURL == "" {
		logger.Info().Msg("using in-memory recently viewed history")
		return history.NewMemoryRepository(cfg.RecentlyViewedMax), func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := history.NewRedisClient(pingCtx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Error().Err(err).Msg("redis unavailable, using in-memory recently viewed history")
		return history.NewMemoryRepository(cfg.RecentlyViewedMax), func() {}
	}

	logger.Info().Dur("ttl", cfg.HistoryTTL).Msg("using redis recently viewed history")
	return history.NewRedisRepository(client, cfg.RecentlyViewedMax, cfg.HistoryTTL), func() { _ = client.Close() }
}
