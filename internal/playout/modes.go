/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// scheduleOnce consumes exactly one primary item, per spec.md §4.3's Once
// termination rule.
func (b *Builder) scheduleOnce(state PlayoutBuilderState, item ProgramScheduleItem, hardStop time.Time) (PlayoutBuilderState, []PlayoutItem) {
	itemStart := GetStartTimeAfter(state, item, b.loc)
	if !itemStart.Before(hardStop) {
		return state.clearModeProgress(), nil
	}

	enum, ok := b.enumerators.Lookup(item.CollectionKey)
	if !ok {
		return state.clearModeProgress(), nil
	}
	media, ok := enum.Current()
	if !ok {
		return state.clearModeProgress(), nil
	}
	enum.MoveNext()

	next, group := state.withNextGuideGroup()
	items := b.composer.Compose(item, media, itemStart, group)
	next = next.withCurrentTime(endOf(items, itemStart)).clearModeProgress()
	return next, items
}

// scheduleFlood keeps emitting primaries until the next schedule item is
// due to start, or no more items are available, per spec.md §4.3's Flood
// termination rule. nextItem is nil when item is the last in the schedule.
func (b *Builder) scheduleFlood(state PlayoutBuilderState, item ProgramScheduleItem, nextItem *ProgramScheduleItem, hardStop time.Time) (PlayoutBuilderState, []PlayoutItem) {
	cur := state
	cur.InFlood = true
	var out []PlayoutItem

	limit := hardStop
	if nextItem != nil {
		if nextStart := GetStartTimeAfter(cur, *nextItem, b.loc); nextStart.Before(limit) {
			limit = nextStart
		}
	}

	for {
		if !cur.CurrentTime.Before(limit) {
			break
		}

		enum, ok := b.enumerators.Lookup(item.CollectionKey)
		if !ok {
			break
		}
		media, ok := enum.Current()
		if !ok {
			break
		}
		if cur.CurrentTime.Add(media.Duration()).After(limit) {
			break
		}
		enum.MoveNext()

		itemStart := cur.CurrentTime
		next, group := cur.withNextGuideGroup()
		items := b.composer.Compose(item, media, itemStart, group)
		if len(items) == 0 {
			break
		}
		cur = next.withCurrentTime(endOf(items, itemStart))
		cur.InFlood = true
		out = append(out, items...)
	}

	// Drain the gap before the next item's fixed start with tail filler,
	// mirroring Duration's tail behavior (spec.md §4.5).
	if item.Filler.TailFiller != nil && cur.CurrentTime.Before(limit) {
		tailItems := b.composer.AddTailFiller(*item.Filler.TailFiller, cur.CurrentTime, limit)
		if len(tailItems) > 0 {
			out = append(out, tailItems...)
			cur = cur.withCurrentTime(tailItems[len(tailItems)-1].Finish)
		}
	}

	cur.InFlood = false
	return cur, out
}

// scheduleMultiple drains item.Count primaries, counting down
// MultipleRemaining across resumed calls, per spec.md §4.3's Multiple
// termination rule. The third return value reports whether cancel fired
// mid-drain.
func (b *Builder) scheduleMultiple(state PlayoutBuilderState, item ProgramScheduleItem, hardStop time.Time, cancel <-chan struct{}) (PlayoutBuilderState, []PlayoutItem, bool) {
	remaining := item.Count
	if state.MultipleRemaining != nil {
		remaining = *state.MultipleRemaining
	}

	cur := state
	var out []PlayoutItem

	for remaining > 0 {
		select {
		case <-cancel:
			cur.MultipleRemaining = intPtr(remaining)
			return cur, out, true
		default:
		}

		if !cur.CurrentTime.Before(hardStop) {
			break
		}

		enum, ok := b.enumerators.Lookup(item.CollectionKey)
		if !ok {
			break
		}
		media, ok := enum.Current()
		if !ok {
			break
		}
		enum.MoveNext()

		itemStart := GetStartTimeAfter(cur, item, b.loc)
		next, group := cur.withNextGuideGroup()
		items := b.composer.Compose(item, media, itemStart, group)
		cur = next.withCurrentTime(endOf(items, itemStart))
		out = append(out, items...)
		remaining--
	}

	if remaining <= 0 {
		cur = cur.clearModeProgress()
	} else {
		cur.MultipleRemaining = intPtr(remaining)
	}
	return cur, out, false
}

// scheduleDuration drains primaries until the next one would cross
// DurationFinish, then applies the configured tail behavior, per spec.md
// §4.3's Duration termination rule.
func (b *Builder) scheduleDuration(state PlayoutBuilderState, item ProgramScheduleItem, hardStop time.Time) (PlayoutBuilderState, []PlayoutItem) {
	cur := state
	var finish time.Time
	if cur.DurationFinish != nil {
		finish = *cur.DurationFinish
	} else {
		itemStart := GetStartTimeAfter(cur, item, b.loc)
		finish = itemStart.Add(item.PlayoutDuration)
		cur = cur.withCurrentTime(itemStart)
	}

	var out []PlayoutItem
	for {
		if !cur.CurrentTime.Before(hardStop) {
			cur.DurationFinish = timePtr(finish)
			return cur, out
		}

		enum, ok := b.enumerators.Lookup(item.CollectionKey)
		if !ok {
			break
		}
		media, ok := enum.Current()
		if !ok {
			break
		}
		if cur.CurrentTime.Add(media.Duration()).After(finish) {
			break
		}
		enum.MoveNext()

		itemStart := cur.CurrentTime
		next, group := cur.withNextGuideGroup()
		items := b.composer.Compose(item, media, itemStart, group)
		cur = next.withCurrentTime(endOf(items, itemStart))
		out = append(out, items...)
	}

	switch item.TailMode {
	case TailModeFiller:
		if item.Filler.TailFiller != nil {
			tailItems := b.composer.AddTailFiller(*item.Filler.TailFiller, cur.CurrentTime, finish)
			if len(tailItems) > 0 {
				out = append(out, tailItems...)
				cur = cur.withCurrentTime(tailItems[len(tailItems)-1].Finish)
			}
		}
	default:
		cur = cur.withCurrentTime(finish)
	}

	cur.InDurationFiller = false
	cur = cur.clearModeProgress()
	return cur, out
}

// endOf returns the Finish of the last item in items, or fallback if items
// is empty (an enumerator/pad configuration that produced nothing).
func endOf(items []PlayoutItem, fallback time.Time) time.Time {
	if len(items) == 0 {
		return fallback
	}
	return items[len(items)-1].Finish
}
