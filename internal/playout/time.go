/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// GetStartTimeAfter computes the next start instant for item given the
// current builder state, per spec.md §4.1.
//
// Local-time arithmetic uses the local UTC offset of the *target* date (via
// time.Date + loc), so results stay correct across DST boundaries.
func GetStartTimeAfter(state PlayoutBuilderState, item ProgramScheduleItem, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	current := state.CurrentTime.In(loc)

	if item.StartType == StartFixed && !state.midProgress(item.Variant) {
		anchor := localMidnight(current, loc).Add(item.StartTime)
		if !anchor.After(current) {
			anchor = anchor.Add(24 * time.Hour)
		}
		return anchor.UTC()
	}
	return current.UTC()
}

// GetFillerStartTimeAfter is GetStartTimeAfter clamped to hardStop.
func GetFillerStartTimeAfter(state PlayoutBuilderState, item ProgramScheduleItem, hardStop time.Time, loc *time.Location) time.Time {
	start := GetStartTimeAfter(state, item, loc)
	if start.After(hardStop) {
		return hardStop
	}
	return start
}

// localMidnight returns local midnight of t's calendar date in loc, computed
// via time.Date so the correct UTC offset for that specific date is applied
// (a date that crosses a DST transition still anchors to its own midnight).
func localMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// roundUpToMinuteMultiple returns the smallest instant >= t whose minute
// component is divisible by nearest (and whose seconds/nanoseconds are
// zero), in loc's local time. nearest must be > 0.
func roundUpToMinuteMultiple(t time.Time, nearest int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	y, mo, d := local.Date()
	h, mi, _ := local.Clock()

	base := time.Date(y, mo, d, h, mi, 0, 0, loc)
	rem := mi % nearest
	var target time.Time
	if rem == 0 && !base.Before(local) {
		target = base
	} else if rem == 0 {
		target = base.Add(time.Duration(nearest) * time.Minute)
	} else {
		target = base.Add(time.Duration(nearest-rem) * time.Minute)
	}
	return target.UTC()
}
