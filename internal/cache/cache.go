/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache provides a Redis-based caching layer for the scheduler's
// resumable state.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/friendsincode/playoutd/internal/playout"
)

// Default TTL values for cached entries.
const (
	DefaultFolderEtagTTL    = 1 * time.Hour
	DefaultBuilderStateTTL  = 24 * time.Hour
)

// Key prefixes for Redis cache.
const (
	KeyFolderEtag   = "playoutd:cache:folder_etag:"    // + folder path
	KeyBuilderState = "playoutd:cache:builder_state:" // + channel ID
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FolderEtagTTL   time.Duration
	BuilderStateTTL time.Duration

	// DisableOnError disables caching (falling back to a full rebuild) on
	// Redis errors, rather than propagating them to callers.
	DisableOnError bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:       "localhost:6379",
		FolderEtagTTL:   DefaultFolderEtagTTL,
		BuilderStateTTL: DefaultBuilderStateTTL,
		DisableOnError:  true,
	}
}

// Cache provides Redis-backed caching with graceful fallback.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.RWMutex
	disabled bool // Circuit breaker state
}

// New creates a new cache instance.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis cache unavailable, running without caching")
		return &Cache{
			logger:   logger.With().Str("component", "cache").Logger(),
			config:   cfg,
			disabled: true,
		}, nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")

	return &Cache{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
		config: cfg,
	}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

// handleError handles Redis errors with circuit breaker logic.
func (c *Cache) handleError(err error, operation string) {
	if err == nil || err == redis.Nil {
		return
	}

	c.logger.Debug().Err(err).Str("operation", operation).Msg("cache operation failed")

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("disabling cache due to Redis error")
	}
}

func (c *Cache) get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.IsAvailable() {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.handleError(err, "get")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		return false, nil
	}

	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}

	return nil
}

func (c *Cache) delete(ctx context.Context, key string) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.handleError(err, "delete")
		return err
	}

	return nil
}

// Folder etag caching: an opaque string the scanner uses to skip unchanged
// subtrees (spec.md §6). Only equality matters, so it is stored and
// compared as a bare string rather than JSON.

// GetFolderEtag retrieves the cached etag for a folder path.
func (c *Cache) GetFolderEtag(ctx context.Context, folderPath string) (string, bool) {
	if !c.IsAvailable() {
		return "", false
	}
	val, err := c.client.Get(ctx, KeyFolderEtag+folderPath).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.handleError(err, "get_folder_etag")
		return "", false
	}
	return val, true
}

// SetFolderEtag caches the etag for a folder path.
func (c *Cache) SetFolderEtag(ctx context.Context, folderPath, etag string) error {
	if !c.IsAvailable() {
		return nil
	}
	if err := c.client.Set(ctx, KeyFolderEtag+folderPath, etag, c.config.FolderEtagTTL).Err(); err != nil {
		c.handleError(err, "set_folder_etag")
		return err
	}
	return nil
}

// builderStateSnapshot is the JSON-serializable view of a
// playout.PlayoutBuilderState; pointer fields become nullable.
type builderStateSnapshot struct {
	CurrentTime       time.Time  `json:"current_time"`
	NextGuideGroup    int        `json:"next_guide_group"`
	InFlood           bool       `json:"in_flood"`
	MultipleRemaining *int       `json:"multiple_remaining,omitempty"`
	DurationFinish    *time.Time `json:"duration_finish,omitempty"`
	InDurationFiller  bool       `json:"in_duration_filler"`
}

func toSnapshot(s playout.PlayoutBuilderState) builderStateSnapshot {
	return builderStateSnapshot{
		CurrentTime:       s.CurrentTime,
		NextGuideGroup:    s.NextGuideGroup,
		InFlood:           s.InFlood,
		MultipleRemaining: s.MultipleRemaining,
		DurationFinish:    s.DurationFinish,
		InDurationFiller:  s.InDurationFiller,
	}
}

func fromSnapshot(snap builderStateSnapshot) playout.PlayoutBuilderState {
	return playout.PlayoutBuilderState{
		CurrentTime:       snap.CurrentTime,
		NextGuideGroup:    snap.NextGuideGroup,
		InFlood:           snap.InFlood,
		MultipleRemaining: snap.MultipleRemaining,
		DurationFinish:    snap.DurationFinish,
		InDurationFiller:  snap.InDurationFiller,
	}
}

// GetBuilderState retrieves the last persisted PlayoutBuilderState for a
// channel, so a restarted process resumes instead of rebuilding the whole
// horizon (spec.md §3 "Ownership & lifecycle").
func (c *Cache) GetBuilderState(ctx context.Context, channelID string) (playout.PlayoutBuilderState, bool) {
	var snap builderStateSnapshot
	found, err := c.get(ctx, KeyBuilderState+channelID, &snap)
	if err != nil || !found {
		return playout.PlayoutBuilderState{}, false
	}
	c.logger.Debug().Str("channel_id", channelID).Time("current_time", snap.CurrentTime).Msg("builder state cache hit")
	return fromSnapshot(snap), true
}

// SetBuilderState persists a channel's PlayoutBuilderState after a build.
func (c *Cache) SetBuilderState(ctx context.Context, channelID string, state playout.PlayoutBuilderState) error {
	c.logger.Debug().Str("channel_id", channelID).Time("current_time", state.CurrentTime).Msg("caching builder state")
	return c.set(ctx, KeyBuilderState+channelID, toSnapshot(state), c.config.BuilderStateTTL)
}

// InvalidateBuilderState removes a channel's cached builder state, forcing
// the next build to start cold.
func (c *Cache) InvalidateBuilderState(ctx context.Context, channelID string) error {
	c.logger.Debug().Str("channel_id", channelID).Msg("invalidating builder state cache")
	return c.delete(ctx, KeyBuilderState+channelID)
}
