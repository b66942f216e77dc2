/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// PlayoutBuilderState is the builder's evolving state. Every field is
// replaced by value on each advance; the old instance is never mutated in
// place (spec.md §3, §9 "record-with-copy state updates").
//
// ScheduleItemsEnumerator is not part of this struct: the build loop owns
// the schedule item slice and an index into it directly, since unlike media
// CollectionEnumerators the program schedule itself is a finite, in-memory
// list supplied to BuildPlayout.
type PlayoutBuilderState struct {
	CurrentTime       time.Time
	NextGuideGroup    int
	InFlood           bool
	MultipleRemaining *int
	DurationFinish    *time.Time
	InDurationFiller  bool
}

// NewPlayoutBuilderState constructs the initial state for a build starting
// at the given instant.
func NewPlayoutBuilderState(start time.Time) PlayoutBuilderState {
	return PlayoutBuilderState{
		CurrentTime:    start.UTC(),
		NextGuideGroup: 1,
	}
}

// withCurrentTime returns a copy of s advanced to t, preserving all other
// fields. This is the "advance(state, delta)" builder spec.md §9 asks for.
func (s PlayoutBuilderState) withCurrentTime(t time.Time) PlayoutBuilderState {
	next := s
	next.CurrentTime = t
	return next
}

// withNextGuideGroup returns a copy of s with NextGuideGroup incremented by
// one, plus the group number just assigned (the value before the increment).
// Called once per distinct primary item so NextGuideGroup is strictly
// monotonic across them (spec.md §8 invariant 5).
func (s PlayoutBuilderState) withNextGuideGroup() (PlayoutBuilderState, int) {
	group := s.NextGuideGroup
	next := s
	next.NextGuideGroup = s.NextGuideGroup + 1
	return next, group
}

// clearModeProgress returns a copy of s with every mode's mid-progress flag
// cleared. Called when a schedule item variant completes.
func (s PlayoutBuilderState) clearModeProgress() PlayoutBuilderState {
	next := s
	next.InFlood = false
	next.MultipleRemaining = nil
	next.DurationFinish = nil
	next.InDurationFiller = false
	return next
}

// midProgress reports whether variant is currently mid-flight per spec.md
// §4.1's "mid-progress" predicate, used to suppress fixed-time anchoring for
// an in-flight flood/duration/multiple block.
func (s PlayoutBuilderState) midProgress(variant ScheduleVariant) bool {
	switch variant {
	case VariantMultiple:
		return s.MultipleRemaining != nil
	case VariantDuration:
		return s.DurationFinish != nil || s.InDurationFiller
	case VariantFlood:
		return s.InFlood
	default:
		return false
	}
}

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
