/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// AddTailFiller appends duration-bounded items from tail's collection
// starting at current, stopping before the first item that would overshoot
// nextItemStart (spec.md §4.5 "Tail"). It never truncates an item to fit.
func (c *FillerComposer) AddTailFiller(tail FillerPreset, current, nextItemStart time.Time) []PlayoutItem {
	enum, ok := c.enumerators.Lookup(tail.Collection)
	if !ok {
		return nil
	}

	var items []PlayoutItem
	cursor := current
	for {
		media, ok := enum.Current()
		if !ok {
			break
		}
		dur := media.Duration()
		finish := cursor.Add(dur)
		if finish.After(nextItemStart) {
			break
		}
		items = append(items, PlayoutItem{
			MediaItemID: media.ID,
			Start:       cursor,
			Finish:      finish,
			InPoint:     0,
			OutPoint:    dur,
			FillerKind:  FillerTail,
		})
		cursor = finish
		enum.MoveNext()
	}
	return items
}
