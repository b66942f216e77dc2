/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// draftItem is the filler composer's working representation of one element
// of the composed sequence, before the final time re-stamping pass assigns
// real Start/Finish instants. span is the item's intrinsic duration, used
// for cumulative-duration bookkeeping during composition.
type draftItem struct {
	kind              FillerKind
	mediaID           string
	span              time.Duration
	inPoint           time.Duration
	outPoint          time.Duration
	disableWatermarks bool
}

// fallbackDraft builds the "play to Finish" sentinel item spec.md §4.5/§9
// describes: OutPoint = 0 means "play until Finish" regardless of the
// nominal span.
func fallbackDraft(mediaID string, span time.Duration) draftItem {
	return draftItem{
		kind:     FillerFallback,
		mediaID:  mediaID,
		span:     span,
		inPoint:  0,
		outPoint: 0,
	}
}

// restamp walks items in order from start, assigning Start/Finish so that
// each item's Finish equals the next item's Start and every Finish-Start
// equals the item's intrinsic span. This is always the last step of filler
// composition (spec.md §4.4 "Time re-stamping").
func restamp(items []draftItem, start time.Time, guideGroup int) []PlayoutItem {
	out := make([]PlayoutItem, 0, len(items))
	cursor := start
	for _, d := range items {
		finish := cursor.Add(d.span)
		out = append(out, PlayoutItem{
			MediaItemID:       d.mediaID,
			Start:             cursor,
			Finish:            finish,
			InPoint:           d.inPoint,
			OutPoint:          d.outPoint,
			GuideGroup:        guideGroup,
			FillerKind:        d.kind,
			DisableWatermarks: d.disableWatermarks,
		})
		cursor = finish
	}
	return out
}

// totalSpan sums the intrinsic duration of every draft item.
func totalSpan(items []draftItem) time.Duration {
	var total time.Duration
	for _, d := range items {
		total += d.span
	}
	return total
}
