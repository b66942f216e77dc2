/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"testing"
	"time"
)

func TestPlayoutBuilderState_WithCurrentTimeDoesNotMutateOriginal(t *testing.T) {
	loc := testLocation(t)
	original := NewPlayoutBuilderState(time.Date(2026, 8, 3, 0, 0, 0, 0, loc))
	advanced := original.withCurrentTime(original.CurrentTime.Add(time.Hour))

	if original.CurrentTime.Equal(advanced.CurrentTime) {
		t.Fatal("withCurrentTime mutated the receiver in place")
	}
	if !advanced.CurrentTime.Equal(original.CurrentTime.Add(time.Hour)) {
		t.Errorf("advanced.CurrentTime = %s, want %s", advanced.CurrentTime, original.CurrentTime.Add(time.Hour))
	}
}

func TestPlayoutBuilderState_WithNextGuideGroupIncrementsMonotonically(t *testing.T) {
	state := NewPlayoutBuilderState(time.Now().UTC())
	var groups []int
	for i := 0; i < 3; i++ {
		next, group := state.withNextGuideGroup()
		groups = append(groups, group)
		state = next
	}
	for i := 1; i < len(groups); i++ {
		if groups[i] <= groups[i-1] {
			t.Errorf("groups not strictly increasing: %v", groups)
		}
	}
}

func TestPlayoutBuilderState_MidProgress(t *testing.T) {
	remaining := 2
	finish := time.Now().UTC()
	tests := []struct {
		name    string
		state   PlayoutBuilderState
		variant ScheduleVariant
		want    bool
	}{
		{"multiple in progress", PlayoutBuilderState{MultipleRemaining: &remaining}, VariantMultiple, true},
		{"multiple idle", PlayoutBuilderState{}, VariantMultiple, false},
		{"duration finish set", PlayoutBuilderState{DurationFinish: &finish}, VariantDuration, true},
		{"duration in filler", PlayoutBuilderState{InDurationFiller: true}, VariantDuration, true},
		{"duration idle", PlayoutBuilderState{}, VariantDuration, false},
		{"flood active", PlayoutBuilderState{InFlood: true}, VariantFlood, true},
		{"flood idle", PlayoutBuilderState{}, VariantFlood, false},
		{"once never mid-progress", PlayoutBuilderState{InFlood: true, MultipleRemaining: &remaining}, VariantOnce, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.midProgress(tt.variant); got != tt.want {
				t.Errorf("midProgress(%s) = %v, want %v", tt.variant, got, tt.want)
			}
		})
	}
}

func TestPlayoutBuilderState_ClearModeProgress(t *testing.T) {
	remaining := 2
	finish := time.Now().UTC()
	state := PlayoutBuilderState{InFlood: true, MultipleRemaining: &remaining, DurationFinish: &finish, InDurationFiller: true}
	cleared := state.clearModeProgress()
	if cleared.InFlood || cleared.MultipleRemaining != nil || cleared.DurationFinish != nil || cleared.InDurationFiller {
		t.Errorf("clearModeProgress left mode flags set: %+v", cleared)
	}
}
