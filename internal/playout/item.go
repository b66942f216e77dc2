/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// PlayoutItem is one entry in the produced playout: a single playback of a
// media item (or filler) with a start/finish. Items are pure values; they
// carry no pointer back to media or schedule objects (spec.md §3).
type PlayoutItem struct {
	MediaItemID       string
	Start             time.Time // UTC
	Finish            time.Time // UTC
	InPoint           time.Duration
	OutPoint          time.Duration
	GuideGroup        int
	FillerKind        FillerKind
	DisableWatermarks bool
}

// duration returns Finish - Start, the item's wall-clock span.
func (p PlayoutItem) duration() time.Duration {
	return p.Finish.Sub(p.Start)
}

// playedSpan returns OutPoint - InPoint, the intended played span (zero for
// "play to Finish" fallback pads where OutPoint is the zero-value sentinel).
func (p PlayoutItem) playedSpan() time.Duration {
	return p.OutPoint - p.InPoint
}
