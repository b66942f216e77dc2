/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/playoutd/internal/db"
	"github.com/friendsincode/playoutd/internal/playout"
	"github.com/friendsincode/playoutd/internal/scheduler"
	"github.com/friendsincode/playoutd/internal/scheduler/state"
	"github.com/friendsincode/playoutd/internal/search"
)

var (
	simulateChannelID string
	simulateHorizon   time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a one-shot, non-persisting BuildPlayout for a channel and print the result",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateChannelID, "channel", "", "channel ID to simulate (required)")
	simulateCmd.Flags().DurationVar(&simulateHorizon, "horizon", 24*time.Hour, "how far past now to materialize")
	_ = simulateCmd.MarkFlagRequired("channel")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	catalog, err := loadPlaylistEnumerators(cfg.PlaylistDir, logger)
	if err != nil {
		return fmt.Errorf("load playlists: %w", err)
	}
	stateStore := state.NewStore(func(string) playout.Enumerators { return catalog })

	sched := scheduler.New(database, nil, search.NewInMemoryIndex(), stateStore,
		cfg.SchedulerLookahead, cfg.SchedulerInterval, time.UTC, logger)

	items, err := sched.Simulate(context.Background(), simulateChannelID, time.Now().UTC(), simulateHorizon)
	if err != nil {
		return fmt.Errorf("simulate channel %s: %w", simulateChannelID, err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}
