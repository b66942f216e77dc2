/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"time"

	"github.com/rs/zerolog"
)

// maxFillerDrainAttempts bounds the duration-mode drain loop when an
// enumerator reports no MinimumDuration hint, so a pathological enumerator
// that never stops yielding over-long items cannot hang the build. This is
// a defensive backstop, not a behavioral requirement of spec.md §4.4.
const maxFillerDrainAttempts = 4096

// FillerComposer composes pre-roll, mid-roll (with enter/exit framing),
// post-roll, pad, tail and fallback filler around a primary item. It is the
// hardest subsystem of the scheduler (spec.md §4.4).
type FillerComposer struct {
	enumerators Enumerators
	logger      zerolog.Logger
	loc         *time.Location
}

// NewFillerComposer constructs a composer bound to a set of enumerators. loc
// is the timezone used for pad-to-nearest-minute rounding; nil means UTC.
func NewFillerComposer(enumerators Enumerators, loc *time.Location, logger zerolog.Logger) *FillerComposer {
	if loc == nil {
		loc = time.UTC
	}
	return &FillerComposer{enumerators: enumerators, loc: loc, logger: logger}
}

// Compose builds the full ordered list of PlayoutItems for one primary media
// item starting at start, per the canonical composition order of spec.md
// §4.4:
//
//	[ PreRoll non-pad ]
//	[ primary OR chapter-interleaved[ chapter, (enter, mid, exit), chapter, ... ] ]
//	[ PostRoll non-pad ]
//	[ Pad adjustments ]
func (c *FillerComposer) Compose(item ProgramScheduleItem, primary MediaItem, start time.Time, guideGroup int) []PlayoutItem {
	if item.Filler.padSlotCount() > 1 {
		c.logger.Error().
			Int("schedule_item", item.Index).
			Str("media_id", primary.ID).
			Msg("more than one pad-to-nearest-minute filler configured; abandoning filler set")
		return restamp([]draftItem{primaryDraft(primary)}, start, guideGroup)
	}

	effective := c.effectiveChapters(item, primary)

	var items []draftItem
	if item.Filler.PreRoll != nil && !item.Filler.PreRoll.IsPad() {
		items = append(items, c.drain(*item.Filler.PreRoll, FillerPreRoll)...)
	}

	if len(effective) > 0 {
		items = append(items, c.interleaveChapters(effective, item.Filler)...)
	} else {
		items = append(items, primaryDraft(primary))
	}

	if item.Filler.PostRoll != nil && !item.Filler.PostRoll.IsPad() {
		items = append(items, c.drain(*item.Filler.PostRoll, FillerPostRoll)...)
	}

	if pad := item.Filler.padSlot(); pad != nil {
		items = c.applyPad(*pad, item.Filler, items, start, len(effective))
	}

	// Chapter slices are built without a media ID so the pad pass can tell
	// them apart from filler; they play the primary, so stamp its ID now.
	for i := range items {
		if items[i].kind == FillerNone && items[i].mediaID == "" {
			items[i].mediaID = primary.ID
		}
	}

	return restamp(items, start, guideGroup)
}

func primaryDraft(primary MediaItem) draftItem {
	return draftItem{
		kind:     FillerNone,
		mediaID:  primary.ID,
		span:     primary.Duration(),
		inPoint:  0,
		outPoint: primary.Duration(),
	}
}

// effectiveChapters implements spec.md §4.4's tie-break: effective chapters
// is the item's chapters iff any mid-roll-family filler is configured AND
// the primary has more than one chapter; otherwise it is empty and the
// primary is emitted as a single slice.
func (c *FillerComposer) effectiveChapters(item ProgramScheduleItem, primary MediaItem) []MediaChapter {
	hasMidRollFamily := item.Filler.MidRollEnter != nil || item.Filler.MidRoll != nil || item.Filler.MidRollExit != nil
	if !hasMidRollFamily || !primary.HasMultipleChapters() {
		return nil
	}
	return primary.Chapters()
}

// interleaveChapters builds `chapter, (enter, mid, exit), chapter, ...`
// (spec.md §4.4 "Mid-roll framing"), factored into one routine shared by
// duration- and count-mode mid-roll bodies per spec.md §9's redesign note.
func (c *FillerComposer) interleaveChapters(chapters []MediaChapter, filler FillerSlots) []draftItem {
	var items []draftItem
	for i, chapter := range chapters {
		items = append(items, draftItem{
			kind:     FillerNone,
			mediaID:  "",
			span:     chapter.Duration(),
			inPoint:  chapter.StartTime,
			outPoint: chapter.EndTime,
		})
		if i == len(chapters)-1 {
			continue
		}
		items = c.appendMidRollGap(items, filler)
	}
	return items
}

// appendMidRollGap appends one enter/mid-roll/exit block to items, rolling
// the enter back out if the body ends up empty (spec.md §4.4 and §8
// invariant 7).
func (c *FillerComposer) appendMidRollGap(items []draftItem, filler FillerSlots) []draftItem {
	enterEmitted := false
	if filler.MidRollEnter != nil {
		items = append(items, c.drainOnce(*filler.MidRollEnter, FillerMidRollEnter)...)
		enterEmitted = len(items) > 0 && items[len(items)-1].kind == FillerMidRollEnter
	}

	bodyStart := len(items)
	if filler.MidRoll != nil {
		items = append(items, c.drain(*filler.MidRoll, FillerMidRoll)...)
	}
	bodyEmitted := len(items) > bodyStart

	if !bodyEmitted {
		if enterEmitted {
			// Roll back: pop the enter, emit no exit.
			items = items[:len(items)-1]
		}
		return items
	}

	if filler.MidRollExit != nil {
		items = append(items, c.drainOnce(*filler.MidRollExit, FillerMidRollExit)...)
	}
	return items
}

// drainOnce appends exactly one item from preset's enumerator (used for
// MidRollEnter/MidRollExit, which are always count-mode-once in practice).
func (c *FillerComposer) drainOnce(preset FillerPreset, kind FillerKind) []draftItem {
	enum, ok := c.enumerators.Lookup(preset.Collection)
	if !ok {
		return nil
	}
	media, ok := enum.Current()
	if !ok {
		return nil
	}
	enum.MoveNext()
	return []draftItem{{kind: kind, mediaID: media.ID, span: media.Duration(), inPoint: 0, outPoint: media.Duration()}}
}

// drain appends filler items per preset's mode: Duration-mode drains while
// remaining room and the enumerator's MinimumDuration hint allow; Count-mode
// appends exactly Count items regardless of duration.
func (c *FillerComposer) drain(preset FillerPreset, kind FillerKind) []draftItem {
	switch preset.Mode {
	case FillerModeCount:
		return c.drainCount(preset, kind, preset.Count)
	case FillerModeDuration:
		return c.drainDuration(preset, kind, preset.Duration)
	default:
		return nil
	}
}

func (c *FillerComposer) drainCount(preset FillerPreset, kind FillerKind, count int) []draftItem {
	enum, ok := c.enumerators.Lookup(preset.Collection)
	if !ok {
		return nil
	}
	items := make([]draftItem, 0, count)
	for i := 0; i < count; i++ {
		media, ok := enum.Current()
		if !ok {
			break
		}
		items = append(items, draftItem{kind: kind, mediaID: media.ID, span: media.Duration(), inPoint: 0, outPoint: media.Duration()})
		enum.MoveNext()
	}
	return items
}

// drainDuration appends items while remaining >= next.Duration and
// remaining >= enumerator.MinimumDuration(); items too long for the
// remaining gap are skipped (not truncated) and the enumerator still
// advances past them (spec.md §4.4).
func (c *FillerComposer) drainDuration(preset FillerPreset, kind FillerKind, budget time.Duration) []draftItem {
	enum, ok := c.enumerators.Lookup(preset.Collection)
	if !ok {
		return nil
	}
	var items []draftItem
	remaining := budget
	for attempt := 0; attempt < maxFillerDrainAttempts; attempt++ {
		media, ok := enum.Current()
		if !ok {
			break
		}
		if minDur, hasMin := enum.MinimumDuration(); hasMin && remaining < minDur {
			break
		}
		dur := media.Duration()
		if dur <= remaining {
			items = append(items, draftItem{kind: kind, mediaID: media.ID, span: dur, inPoint: 0, outPoint: dur})
			remaining -= dur
		}
		enum.MoveNext()
	}
	return items
}

// drainDurationQueue is drainDuration exposed for the pad pass, which always
// drains in duration mode regardless of the slot's configured Mode (pad
// slots carry PadToNearestMinute, not Duration/Count).
func (c *FillerComposer) drainDurationQueue(preset FillerPreset, kind FillerKind, budget time.Duration) []draftItem {
	return c.drainDuration(preset, kind, budget)
}
