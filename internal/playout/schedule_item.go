/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// FillerKind is the closed set of roles filler content can play around a
// primary item.
type FillerKind string

const (
	FillerNone         FillerKind = "none"
	FillerPreRoll      FillerKind = "pre_roll"
	FillerMidRoll      FillerKind = "mid_roll"
	FillerMidRollEnter FillerKind = "mid_roll_enter"
	FillerMidRollExit  FillerKind = "mid_roll_exit"
	FillerPostRoll     FillerKind = "post_roll"
	FillerTail         FillerKind = "tail"
	FillerFallback     FillerKind = "fallback"
)

// FillerMode is the closed set of termination strategies for a filler slot.
type FillerMode string

const (
	FillerModeDuration FillerMode = "duration"
	FillerModeCount    FillerMode = "count"
	FillerModePad      FillerMode = "pad"
)

// midRollFamily reports whether kind is part of the mid-roll enter/body/exit
// framing triad.
func (k FillerKind) midRollFamily() bool {
	return k == FillerMidRoll || k == FillerMidRollEnter || k == FillerMidRollExit
}

// FillerPreset configures one filler slot on a schedule item.
//
// Invariants (enforced by NewFillerPreset):
//   - FillerModeDuration requires Duration set (> 0).
//   - FillerModeCount requires Count set (> 0).
//   - FillerModePad requires PadToNearestMinute set (> 0) and is only
//     meaningful for PreRoll | MidRoll | PostRoll.
type FillerPreset struct {
	Kind               FillerKind
	Mode               FillerMode
	Duration           time.Duration
	Count              int
	PadToNearestMinute int
	AllowWatermarks    bool
	Collection         CollectionKey
}

// NewFillerPreset validates and constructs a FillerPreset. Rejecting
// malformed configuration here means mode schedulers and the filler
// composer never have to fault on a nil Count/Duration at use time
// (spec.md §9, third open question).
func NewFillerPreset(kind FillerKind, mode FillerMode, opt FillerPresetOption) (FillerPreset, error) {
	preset := FillerPreset{
		Kind:               kind,
		Mode:               mode,
		Duration:           opt.Duration,
		Count:              opt.Count,
		PadToNearestMinute: opt.PadToNearestMinute,
		AllowWatermarks:    opt.AllowWatermarks,
		Collection:         opt.Collection,
	}
	switch mode {
	case FillerModeDuration:
		if preset.Duration <= 0 {
			return FillerPreset{}, newBuildError(KindBadConfiguration, "duration-mode filler requires Duration > 0", nil)
		}
	case FillerModeCount:
		if preset.Count <= 0 {
			return FillerPreset{}, newBuildError(KindBadConfiguration, "count-mode filler requires Count > 0", nil)
		}
	case FillerModePad:
		if preset.PadToNearestMinute <= 0 {
			return FillerPreset{}, newBuildError(KindBadConfiguration, "pad-mode filler requires PadToNearestMinute > 0", nil)
		}
		if !(kind == FillerPreRoll || kind == FillerMidRoll || kind == FillerPostRoll) {
			return FillerPreset{}, newBuildError(KindBadConfiguration, "pad mode is only meaningful for pre-roll, mid-roll or post-roll", nil)
		}
	default:
		return FillerPreset{}, newBuildError(KindBadConfiguration, "unknown filler mode "+string(mode), nil)
	}
	return preset, nil
}

// FillerPresetOption carries the optional fields for NewFillerPreset.
type FillerPresetOption struct {
	Duration           time.Duration
	Count              int
	PadToNearestMinute int
	AllowWatermarks    bool
	Collection         CollectionKey
}

// IsPad reports whether this slot is in pad mode.
func (p FillerPreset) IsPad() bool { return p.Mode == FillerModePad }

// StartType selects how a schedule item's next start time is computed.
type StartType string

const (
	StartDynamic StartType = "dynamic"
	StartFixed   StartType = "fixed"
)

// TailMode controls what happens after a Duration schedule item's nominal
// span is exhausted.
type TailMode string

const (
	TailModeFiller  TailMode = "filler"
	TailModeOffline TailMode = "offline"
)

// ScheduleVariant is the closed set of schedule item modes.
type ScheduleVariant string

const (
	VariantOnce     ScheduleVariant = "once"
	VariantFlood    ScheduleVariant = "flood"
	VariantMultiple ScheduleVariant = "multiple"
	VariantDuration ScheduleVariant = "duration"
)

// FillerSlots bundles a schedule item's five filler-family presets and the
// tail/fallback fillers. Each is optional (nil when not configured).
type FillerSlots struct {
	PreRoll       *FillerPreset
	MidRollEnter  *FillerPreset
	MidRoll       *FillerPreset
	MidRollExit   *FillerPreset
	PostRoll      *FillerPreset
	TailFiller    *FillerPreset
	FallbackFiller *FillerPreset
}

// padSlot returns the single configured pad-mode preset among the primary
// pre/mid/post-roll slots, or nil if none is configured. Callers must first
// check padSlotCount() <= 1; a BadConfiguration build error covers the
// "more than one" case.
func (f FillerSlots) padSlot() *FillerPreset {
	for _, p := range []*FillerPreset{f.PreRoll, f.MidRoll, f.PostRoll} {
		if p != nil && p.IsPad() {
			return p
		}
	}
	return nil
}

// padSlotCount counts how many of pre/mid/post-roll are pad-mode.
func (f FillerSlots) padSlotCount() int {
	count := 0
	for _, p := range []*FillerPreset{f.PreRoll, f.MidRoll, f.PostRoll} {
		if p != nil && p.IsPad() {
			count++
		}
	}
	return count
}

// ProgramScheduleItem is one rule in the program schedule. The zero value of
// Variant-specific fields not relevant to Variant is ignored.
type ProgramScheduleItem struct {
	Index          int
	CollectionType string
	CollectionKey  CollectionKey
	StartType      StartType
	StartTime      time.Duration // time-of-day offset, meaningful iff StartType == StartFixed
	Filler         FillerSlots

	Variant ScheduleVariant

	// Multiple
	Count int

	// Duration
	PlayoutDuration time.Duration
	TailMode        TailMode
}
