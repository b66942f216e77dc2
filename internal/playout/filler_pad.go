/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// applyPad runs the single configured pad slot against the already-composed
// items, per spec.md §4.4 "Pad pass". It rounds the item's would-be finish
// time up to the next multiple of pad.PadToNearestMinute and fills the gap
// with content from pad's collection, falling back to FallbackFiller for any
// shortfall the enumerator cannot cover.
func (c *FillerComposer) applyPad(pad FillerPreset, filler FillerSlots, items []draftItem, start time.Time, chapterCount int) []draftItem {
	current := start.Add(totalSpan(items))
	target := roundUpToMinuteMultiple(current, pad.PadToNearestMinute, c.loc)
	remaining := target.Sub(current)
	if remaining <= 0 {
		return items
	}

	switch pad.Kind {
	case FillerPreRoll:
		return c.padPreRoll(pad, filler, items, remaining)
	case FillerPostRoll:
		return c.padPostRoll(pad, filler, items, remaining)
	case FillerMidRoll:
		return c.padMidRoll(pad, filler, items, remaining, chapterCount)
	default:
		return items
	}
}

// padPreRoll prepends pad-mode filler (plus a fallback for any shortfall)
// ahead of the already-composed items.
func (c *FillerComposer) padPreRoll(pad FillerPreset, filler FillerSlots, items []draftItem, remaining time.Duration) []draftItem {
	fill := c.fillWithFallback(pad, FillerPreRoll, filler, remaining)
	return append(fill, items...)
}

// padPostRoll is padPreRoll's mirror: filler (plus fallback shortfall) is
// appended after the already-composed items.
func (c *FillerComposer) padPostRoll(pad FillerPreset, filler FillerSlots, items []draftItem, remaining time.Duration) []draftItem {
	fill := c.fillWithFallback(pad, FillerPostRoll, filler, remaining)
	return append(items, fill...)
}

// padMidRoll distributes remaining evenly across the gaps between chapters
// (chapterCount-1 of them), capping each gap at that average so one overlong
// filler item cannot starve the others. With fewer than two effective
// chapters there is no gap to insert into, so the whole shortfall is pushed
// to a single trailing fallback item (spec.md §9, second open question).
func (c *FillerComposer) padMidRoll(pad FillerPreset, filler FillerSlots, items []draftItem, remaining time.Duration, chapterCount int) []draftItem {
	gaps := chapterCount - 1
	if gaps <= 0 {
		return append(items, fallbackDraft(c.fallbackMediaID(filler), remaining))
	}

	average := remaining / time.Duration(gaps)
	remainingToFill := remaining

	result := make([]draftItem, 0, len(items)+gaps)
	chaptersSeen := 0
	for i, d := range items {
		result = append(result, d)
		if !(d.kind == FillerNone && d.mediaID == "") {
			continue
		}
		chaptersSeen++
		if chaptersSeen >= chapterCount || i == len(items)-1 {
			continue
		}

		budget := average
		if budget > remainingToFill {
			budget = remainingToFill
		}
		if budget <= 0 {
			continue
		}

		fill := c.fillWithFallback(pad, FillerMidRoll, filler, budget)
		remainingToFill -= budget
		result = append(result, fill...)
	}
	return result
}

// fillWithFallback drains pad's enumerator for up to budget, tagging
// emitted items with kind, then covers whatever the enumerator could not
// supply with a single FallbackFiller item so the padded gap always lands
// exactly on budget.
func (c *FillerComposer) fillWithFallback(pad FillerPreset, kind FillerKind, filler FillerSlots, budget time.Duration) []draftItem {
	fill := c.drainDurationQueue(pad, kind, budget)
	spent := totalSpan(fill)
	if shortfall := budget - spent; shortfall > 0 {
		fill = append(fill, fallbackDraft(c.fallbackMediaID(filler), shortfall))
	}
	return fill
}

// fallbackMediaID resolves the next item from filler.FallbackFiller's
// collection, or "" if no fallback filler is configured or its enumerator is
// exhausted.
func (c *FillerComposer) fallbackMediaID(filler FillerSlots) string {
	if filler.FallbackFiller == nil {
		return ""
	}
	enum, ok := c.enumerators.Lookup(filler.FallbackFiller.Collection)
	if !ok {
		return ""
	}
	media, ok := enum.Current()
	if !ok {
		return ""
	}
	enum.MoveNext()
	return media.ID
}
