/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"testing"
	"time"
)

func TestGetStartTimeAfter_FixedPushesToNextDayWhenPassed(t *testing.T) {
	loc := testLocation(t)
	state := NewPlayoutBuilderState(time.Date(2026, 8, 3, 21, 0, 0, 0, loc))
	item := ProgramScheduleItem{StartType: StartFixed, StartTime: 20 * time.Hour, Variant: VariantOnce}

	got := GetStartTimeAfter(state, item, loc)
	want := time.Date(2026, 8, 4, 20, 0, 0, 0, loc).UTC()
	if !got.Equal(want) {
		t.Errorf("GetStartTimeAfter = %s, want %s", got, want)
	}
}

func TestGetStartTimeAfter_FixedSuppressedDuringMidProgress(t *testing.T) {
	loc := testLocation(t)
	remaining := 3
	state := PlayoutBuilderState{CurrentTime: time.Date(2026, 8, 3, 21, 0, 0, 0, loc).UTC(), MultipleRemaining: &remaining}
	item := ProgramScheduleItem{StartType: StartFixed, StartTime: 20 * time.Hour, Variant: VariantMultiple}

	got := GetStartTimeAfter(state, item, loc)
	if !got.Equal(state.CurrentTime) {
		t.Errorf("GetStartTimeAfter = %s, want unchanged CurrentTime %s (mid-progress)", got, state.CurrentTime)
	}
}

// A DST spring-forward date must still anchor to local midnight via the
// target date's own offset, not a naive 24h addition from the prior day.
func TestLocalMidnight_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-03-08 is the US spring-forward date.
	t1 := time.Date(2026, 3, 8, 15, 0, 0, 0, loc)
	mid := localMidnight(t1, loc)
	if mid.Hour() != 0 || mid.Day() != 8 || mid.Month() != 3 {
		t.Errorf("localMidnight(%s) = %s, want 2026-03-08 00:00 local", t1, mid.In(loc))
	}
}

func TestRoundUpToMinuteMultiple(t *testing.T) {
	loc := testLocation(t)
	tests := []struct {
		name    string
		in      time.Time
		nearest int
		want    time.Time
	}{
		{"exact boundary stays", time.Date(2026, 8, 3, 20, 30, 0, 0, loc), 30, time.Date(2026, 8, 3, 20, 30, 0, 0, loc)},
		{"rounds up mid-gap", time.Date(2026, 8, 3, 20, 40, 0, 0, loc), 30, time.Date(2026, 8, 3, 21, 0, 0, 0, loc)},
		{"rounds up with seconds", time.Date(2026, 8, 3, 20, 30, 1, 0, loc), 30, time.Date(2026, 8, 3, 21, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundUpToMinuteMultiple(tt.in, tt.nearest, loc)
			if !got.Equal(tt.want.UTC()) {
				t.Errorf("roundUpToMinuteMultiple(%s, %d) = %s, want %s", tt.in, tt.nearest, got, tt.want)
			}
		})
	}
}
