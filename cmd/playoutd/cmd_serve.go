/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/friendsincode/playoutd/internal/cache"
	"github.com/friendsincode/playoutd/internal/db"
	"github.com/friendsincode/playoutd/internal/playout"
	"github.com/friendsincode/playoutd/internal/scheduler"
	"github.com/friendsincode/playoutd/internal/scheduler/state"
	"github.com/friendsincode/playoutd/internal/search"
	"github.com/friendsincode/playoutd/internal/server"
	"github.com/friendsincode/playoutd/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler loop and the read-only HTTP surface",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger.Info().Msg("playoutd starting")

	tracerProvider, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "playoutd",
		ServiceVersion: "0.0.1-alpha",
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err := db.RegisterCallbacks(database); err != nil {
		return fmt.Errorf("register database telemetry callbacks: %w", err)
	}

	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	go reportConnectionMetrics(schedulerCtx, database)

	redisCache, err := cache.New(cache.Config{
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		FolderEtagTTL:   cache.DefaultFolderEtagTTL,
		BuilderStateTTL: cache.DefaultBuilderStateTTL,
		DisableOnError:  true,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer func() {
		if err := redisCache.Close(); err != nil {
			logger.Debug().Err(err).Msg("cache close failed")
		}
	}()

	catalog, err := loadPlaylistEnumerators(cfg.PlaylistDir, logger)
	if err != nil {
		return fmt.Errorf("load playlists: %w", err)
	}
	stateStore := state.NewStore(func(string) playout.Enumerators { return catalog })

	searchIdx := search.NewInMemoryIndex()

	sched := scheduler.New(database, redisCache, searchIdx, stateStore,
		cfg.SchedulerLookahead, cfg.SchedulerInterval, time.UTC, logger)

	srv := server.New(cfg, sched, logger)
	httpServer := srv.HTTPServer()

	go func() {
		if err := sched.Run(schedulerCtx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("scheduler loop exited")
		}
	}()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")
	cancelScheduler()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("playoutd stopped")
	return nil
}

// reportConnectionMetrics periodically samples the database connection pool
// into playoutd_database_connections_active until ctx is canceled.
func reportConnectionMetrics(ctx context.Context, database *gorm.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			db.UpdateConnectionMetrics(database)
		}
	}
}
