/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Builder runs the top-level build loop (spec.md §4.6): it routes each
// schedule item to its mode scheduler in Index order and folds the results
// into one ordered playout, cooperatively checking for cancellation between
// schedule items.
type Builder struct {
	composer    *FillerComposer
	enumerators Enumerators
	loc         *time.Location
	logger      zerolog.Logger
}

// NewBuilder constructs a Builder bound to a set of enumerators, shared for
// the whole build (spec.md §5: enumerators are not safe for concurrent
// access and are owned by the build for its duration).
func NewBuilder(enumerators Enumerators, loc *time.Location, logger zerolog.Logger) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{
		composer:    NewFillerComposer(enumerators, loc, logger),
		enumerators: enumerators,
		loc:         loc,
		logger:      logger,
	}
}

// BuildPlayout is the scheduler's single exposed operation (spec.md §6):
// given a program schedule and the enumerators it draws from, it produces a
// time-stamped sequence of PlayoutItems from initialState.CurrentTime up to
// hardStop.
//
// On cancellation it returns the partial output built so far alongside
// ErrScanCanceled; the returned state reflects exactly the work completed,
// so a resumed build picks up without skipping or repeating items (spec.md
// §4.6, §7).
func (b *Builder) BuildPlayout(schedule []ProgramScheduleItem, initialState PlayoutBuilderState, hardStop time.Time, cancel <-chan struct{}) (PlayoutBuilderState, []PlayoutItem, error) {
	sorted := make([]ProgramScheduleItem, len(schedule))
	copy(sorted, schedule)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	state := initialState
	var out []PlayoutItem

	for i, item := range sorted {
		select {
		case <-cancel:
			b.logger.Warn().Int("schedule_item", item.Index).Msg("build canceled")
			return state, out, ErrScanCanceled
		default:
		}

		if !state.CurrentTime.Before(hardStop) {
			break
		}

		switch item.Variant {
		case VariantOnce:
			next, items := b.scheduleOnce(state, item, hardStop)
			state, out = next, append(out, items...)

		case VariantFlood:
			var nextItem *ProgramScheduleItem
			if i+1 < len(sorted) {
				nextItem = &sorted[i+1]
			}
			next, items := b.scheduleFlood(state, item, nextItem, hardStop)
			state, out = next, append(out, items...)

		case VariantMultiple:
			next, items, canceled := b.scheduleMultiple(state, item, hardStop, cancel)
			state, out = next, append(out, items...)
			if canceled {
				return state, out, ErrScanCanceled
			}

		case VariantDuration:
			next, items := b.scheduleDuration(state, item, hardStop)
			state, out = next, append(out, items...)

		default:
			return state, out, newBuildError(KindFatal, "unknown schedule variant "+string(item.Variant), nil)
		}
	}

	return state, out, nil
}
