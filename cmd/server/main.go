package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/froma1976/ailogistic/internal/config"
	"github.com/froma1976/ailogistic/internal/remote"
	"github.com/froma1976/ailogistic/internal/router"
	"github.com/froma1976/ailogistic/internal/store"
	"github.com/froma1976/ailogistic/internal/syncer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sync machinery shares the notifier with the HTTP services: every local
	// mutation publishes a change event the scheduler listens for.
	notifier := store.NewNotifier()
	refRepo := store.NewReferenceRepository(db)
	invRepo := store.NewInventoryRepository(db)
	prodRepo := store.NewProductionRepository(db)
	outboxRepo := store.NewOutboxRepository(db)

	client := remote.NewClient(cfg.RemoteURL, cfg.RemoteAPIKey)
	pusher := syncer.NewPusher(log.Logger, outboxRepo, client)
	puller := syncer.NewPuller(log.Logger, refRepo, invRepo, prodRepo, outboxRepo, client)
	clock := syncer.SystemClock

	sync := syncer.NewService(log.Logger, pusher, puller, outboxRepo, notifier, clock, cfg.SyncInterval())
	watcher := syncer.NewWatcher(log.Logger, client, sync, clock, cfg.ProbeInterval())

	if cfg.SyncEnabled() {
		if err := sync.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start sync scheduler")
		}
		watcher.Start(ctx)
		defer func() {
			watcher.Stop()
			sync.Stop()
		}()
	} else {
		log.Warn().Msg("REMOTE_URL not set — running local-only, sync queue will accumulate")
	}

	r := router.New(cfg, db, notifier, sync)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ailogistic backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
