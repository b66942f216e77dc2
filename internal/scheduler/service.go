/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package scheduler adapts the teacher's periodic materialization loop
// (internal/scheduler/service.go in friendsincode/grimnir_radio: tick loop,
// cache-then-DB-fallback lookup, warnOnce rate-limited warnings) to drive
// playout.BuildPlayout instead of clock-slot materialization.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/friendsincode/playoutd/internal/cache"
	"github.com/friendsincode/playoutd/internal/models"
	"github.com/friendsincode/playoutd/internal/playout"
	"github.com/friendsincode/playoutd/internal/scheduler/state"
	"github.com/friendsincode/playoutd/internal/search"
	"github.com/friendsincode/playoutd/internal/telemetry"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Service drives BuildPlayout once per channel on every tick, persists the
// resulting PlayoutItem rows, and commits the search index exactly once per
// build.
type Service struct {
	db         *gorm.DB
	cache      *cache.Cache
	searchIdx  search.SearchIndex
	stateStore *state.Store
	loc        *time.Location
	logger     zerolog.Logger

	lookahead time.Duration
	interval  time.Duration

	warnMu     sync.Mutex
	warnedKeys map[string]struct{}
}

// New constructs the scheduler service.
func New(db *gorm.DB, c *cache.Cache, searchIdx search.SearchIndex, stateStore *state.Store, lookahead, interval time.Duration, loc *time.Location, logger zerolog.Logger) *Service {
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		db:         db,
		cache:      c,
		searchIdx:  searchIdx,
		stateStore: stateStore,
		loc:        loc,
		logger:     logger,
		lookahead:  lookahead,
		interval:   interval,
		warnedKeys: make(map[string]struct{}),
	}
}

// Run executes the scheduler loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("scheduler loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	telemetry.SchedulerTicksTotal.Inc()

	var channels []models.Channel
	if err := s.db.WithContext(ctx).Find(&channels).Error; err != nil {
		s.logger.Error().Err(err).Msg("scheduler failed to load channels")
		telemetry.SchedulerErrorsTotal.WithLabelValues("", "load_channels").Inc()
		return
	}

	for _, channel := range channels {
		if err := s.buildChannel(ctx, channel.ID); err != nil {
			s.logger.Warn().Err(err).Str("channel_id", channel.ID).Msg("channel build failed")
			telemetry.SchedulerErrorsTotal.WithLabelValues(channel.ID, "build").Inc()
		}
	}
}

// buildChannel loads a channel's schedule, resumes its PlayoutBuilderState
// (from cache when available, otherwise a cold start), runs BuildPlayout up
// to this tick's hard stop, and persists the result. The search index's
// Commit is guaranteed via defer on every exit path (spec.md §5).
func (s *Service) buildChannel(ctx context.Context, channelID string) error {
	ctx, span := telemetry.StartBuildSpan(ctx, channelID)
	defer span.End()

	startedAt := time.Now()
	defer func() {
		if err := s.searchIdx.Commit(ctx); err != nil {
			s.logger.Warn().Err(err).Str("channel_id", channelID).Msg("search index commit failed")
		}
	}()

	var rows []models.ScheduleEntry
	if err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("\"index\" asc").
		Find(&rows).Error; err != nil {
		telemetry.SchedulerErrorsTotal.WithLabelValues(channelID, "load_schedule").Inc()
		return err
	}
	if len(rows) == 0 {
		s.warnOnce("no_schedule:"+channelID, func(e *zerolog.Event) {
			e.Str("channel_id", channelID).Msg("no schedule entries configured for channel")
		})
		return nil
	}

	schedule := make([]playout.ProgramScheduleItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.ToProgramScheduleItem()
		if err != nil {
			telemetry.RecordError(span, err)
			telemetry.SchedulerErrorsTotal.WithLabelValues(channelID, "decode_schedule_entry").Inc()
			return err
		}
		schedule = append(schedule, item)
	}

	initialState := s.resumeState(ctx, channelID)
	hardStop := time.Now().UTC().Add(s.lookahead)

	enumerators := s.stateStore.EnumeratorsFor(channelID)
	builder := playout.NewBuilder(enumerators, s.loc, s.logger)

	finalState, items, err := builder.BuildPlayout(schedule, initialState, hardStop, ctx.Done())

	if len(items) > 0 {
		if persistErr := s.persist(ctx, channelID, items); persistErr != nil {
			telemetry.RecordError(span, persistErr)
			return persistErr
		}
	}

	telemetry.BuildDuration.WithLabelValues(channelID).Observe(time.Since(startedAt).Seconds())
	telemetry.BuildItemsEmittedTotal.WithLabelValues(channelID).Add(float64(len(items)))
	telemetry.AddSpanAttributes(span, map[string]any{"items_emitted": len(items)})

	if err != nil {
		if err == playout.ErrScanCanceled {
			telemetry.BuildCancellationsTotal.WithLabelValues(channelID).Inc()
			// Partial state and items are preserved per spec.md §7; cache
			// the partial state so the next tick resumes, not restarts.
			s.persistState(ctx, channelID, finalState)
			return nil
		}
		telemetry.RecordError(span, err)
		return err
	}

	s.persistState(ctx, channelID, finalState)
	return nil
}

func (s *Service) resumeState(ctx context.Context, channelID string) playout.PlayoutBuilderState {
	if s.cache != nil {
		if cached, ok := s.cache.GetBuilderState(ctx, channelID); ok {
			return cached
		}
	}
	return playout.PlayoutBuilderState{
		CurrentTime:    time.Now().UTC(),
		NextGuideGroup: 1,
	}
}

func (s *Service) persistState(ctx context.Context, channelID string, st playout.PlayoutBuilderState) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetBuilderState(ctx, channelID, st); err != nil {
		s.logger.Debug().Err(err).Str("channel_id", channelID).Msg("failed to cache builder state")
	}
}

// persist writes the built items as rows and stages them in the search
// index for the deferred Commit.
func (s *Service) persist(ctx context.Context, channelID string, items []playout.PlayoutItem) error {
	rows := make([]models.PlayoutItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.NewPlayoutItemRow(channelID, item))
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}

	return s.searchIdx.AddItems(ctx, rows)
}

func (s *Service) warnOnce(key string, logFn func(e *zerolog.Event)) {
	s.warnMu.Lock()
	if _, ok := s.warnedKeys[key]; ok {
		s.warnMu.Unlock()
		return
	}
	s.warnedKeys[key] = struct{}{}
	s.warnMu.Unlock()

	logFn(s.logger.Warn())
}

// Upcoming returns a channel's persisted PlayoutItem rows within horizon of
// `from`, the scheduler's one non-build read path (used by internal/server).
func (s *Service) Upcoming(ctx context.Context, channelID string, from time.Time, horizon time.Duration) ([]models.PlayoutItem, error) {
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	var items []models.PlayoutItem
	err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Where("start_utc >= ?", from).
		Where("start_utc <= ?", from.Add(horizon)).
		Order("start_utc ASC").
		Find(&items).Error
	return items, err
}

// Simulate runs a one-shot BuildPlayout for channelID from `from` to
// `from + horizon` without persisting anything — used by the CLI's
// `simulate` subcommand and the server's read-only /simulate endpoint.
func (s *Service) Simulate(ctx context.Context, channelID string, from time.Time, horizon time.Duration) ([]playout.PlayoutItem, error) {
	var rows []models.ScheduleEntry
	if err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("\"index\" asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	schedule := make([]playout.ProgramScheduleItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.ToProgramScheduleItem()
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, item)
	}

	enumerators := s.stateStore.EnumeratorsFor(channelID)
	builder := playout.NewBuilder(enumerators, s.loc, s.logger)
	initialState := playout.PlayoutBuilderState{CurrentTime: from.UTC(), NextGuideGroup: 1}

	_, items, err := builder.BuildPlayout(schedule, initialState, from.Add(horizon).UTC(), ctx.Done())
	return items, err
}
