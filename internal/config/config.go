/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int

	DBBackend DatabaseBackend
	DBDSN     string

	// SchedulerLookahead bounds how far past the current wall-clock time a
	// build tick is allowed to materialize before stopping (the per-tick
	// hardStop offset).
	SchedulerLookahead time.Duration
	SchedulerInterval  time.Duration

	MetricsBind string

	// PlaylistDir holds the YAML static playlist files the CLI's
	// enumerator factory loads at startup (internal/collection).
	PlaylistDir string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	// Cache / multi-instance configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	InstanceID    string

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:        getEnvAny([]string{"PLAYOUTD_ENV", "RLM_ENV"}, "development"),
		HTTPBind:           getEnvAny([]string{"PLAYOUTD_HTTP_BIND", "RLM_HTTP_BIND"}, "0.0.0.0"),
		HTTPPort:           getEnvIntAny([]string{"PLAYOUTD_HTTP_PORT", "RLM_HTTP_PORT"}, 8080),
		DBBackend:          DatabaseBackend(getEnvAny([]string{"PLAYOUTD_DB_BACKEND", "RLM_DB_BACKEND"}, string(DatabaseSQLite))),
		DBDSN:              getEnvAny([]string{"PLAYOUTD_DB_DSN", "RLM_DB_DSN"}, ""),
		SchedulerLookahead: time.Duration(getEnvIntAny([]string{"PLAYOUTD_SCHEDULER_LOOKAHEAD_HOURS", "RLM_SCHEDULER_LOOKAHEAD_HOURS"}, 24)) * time.Hour,
		SchedulerInterval:  time.Duration(getEnvIntAny([]string{"PLAYOUTD_SCHEDULER_INTERVAL_MINUTES", "RLM_SCHEDULER_INTERVAL_MINUTES"}, 15)) * time.Minute,
		MetricsBind:        getEnvAny([]string{"PLAYOUTD_METRICS_BIND", "RLM_METRICS_BIND"}, "127.0.0.1:9000"),
		PlaylistDir:        getEnvAny([]string{"PLAYOUTD_PLAYLIST_DIR", "RLM_PLAYLIST_DIR"}, "./playlists"),

		TracingEnabled:    getEnvBoolAny([]string{"PLAYOUTD_TRACING_ENABLED", "RLM_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"PLAYOUTD_OTLP_ENDPOINT", "RLM_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"PLAYOUTD_TRACING_SAMPLE_RATE", "RLM_TRACING_SAMPLE_RATE"}, 1.0),

		RedisAddr:     getEnvAny([]string{"PLAYOUTD_REDIS_ADDR", "RLM_REDIS_ADDR"}, "localhost:6379"),
		RedisPassword: getEnvAny([]string{"PLAYOUTD_REDIS_PASSWORD", "RLM_REDIS_PASSWORD"}, ""),
		RedisDB:       getEnvIntAny([]string{"PLAYOUTD_REDIS_DB", "RLM_REDIS_DB"}, 0),
		InstanceID:    getEnvAny([]string{"PLAYOUTD_INSTANCE_ID", "RLM_INSTANCE_ID"}, ""),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("PLAYOUTD_DB_DSN or RLM_DB_DSN must be provided")
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":         "use PLAYOUTD_ENV (or RLM_ENV)",
		"TRACING_ENABLED":     "use PLAYOUTD_TRACING_ENABLED (or RLM_TRACING_ENABLED)",
		"OTLP_ENDPOINT":       "use PLAYOUTD_OTLP_ENDPOINT (or RLM_OTLP_ENDPOINT)",
		"TRACING_SAMPLE_RATE": "use PLAYOUTD_TRACING_SAMPLE_RATE (or RLM_TRACING_SAMPLE_RATE)",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
