/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Command playoutd is the scheduler daemon's CLI, adapted from the
// teacher's cmd/grimnirradio cobra root: a `serve` subcommand that runs the
// scheduler loop and the read-only HTTP surface, and a `simulate`
// subcommand that runs one BuildPlayout dry-run and prints its result.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/playoutd/internal/config"
	"github.com/friendsincode/playoutd/internal/logging"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "playoutd",
	Short: "playoutd - broadcast playout scheduler",
	Long:  "playoutd materializes a channel's program schedule into concrete PlayoutItem rows ahead of air time.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	for _, warning := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warning)
	}
	return nil
}
