// Package main implements the catalog watcher that announces catalog changes.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dsjohal14/mukrindo/internal/libs/config"
	"github.com/dsjohal14/mukrindo/internal/libs/jobs"
	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/db"
	"github.com/dsjohal14/mukrindo/internal/streamlite"
	"github.com/rs/zerolog"
)

// watcher publishes a notice whenever the catalog fingerprint changes
type watcher struct {
	src    db.Source
	pub    *streamlite.Publisher
	last   uint64
	seen   bool
	logger zerolog.Logger
}

func (w *watcher) poll(ctx context.Context) error {
	products, err := w.src.Load(ctx)
	if err != nil {
		return err
	}
	notice := streamlite.NewChangeNotice(products)
	if w.seen && notice.Fingerprint == w.last {
		w.logger.Debug().Int("products", notice.Count).Msg("catalog unchanged")
		return nil
	}
	if err := w.pub.Publish(ctx, notice); err != nil {
		return err
	}
	w.last, w.seen = notice.Fingerprint, true
	w.logger.Info().Uint64("fingerprint", notice.Fingerprint).Int("products", notice.Count).Msg("catalog change published")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("worker")

	if cfg.RabbitURL == "" {
		logger.Fatal().Msg("RABBIT_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := db.OpenSource(ctx, cfg.DatabaseURL, cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open catalog source")
	}
	defer func() { _ = src.Close() }()

	pub, err := streamlite.NewPublisher(cfg.RabbitURL, streamlite.DefaultExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create publisher")
	}
	defer func() { _ = pub.Close() }()

	w := &watcher{src: src, pub: pub, logger: logger}
	if err := w.poll(ctx); err != nil {
		logger.Error().Err(err).Msg("initial poll failed")
	}

	queue := jobs.NewQueue(obs.Logger("jobs"))
	queue.Enqueue("catalog-poll", cfg.ReloadInterval, w.poll)

	logger.Info().Dur("interval", cfg.ReloadInterval).Msg("worker started")
	queue.Run(ctx)
	logger.Info().Msg("worker stopped")
}
