/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("UTC")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func primaryKey() CollectionKey {
	return CollectionKey{CollectionType: "show", CollectionID: "primary"}
}

// S1 — Fixed-start Once, no filler.
func TestBuildPlayout_OnceFixedStartNoFiller(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, loc)
	enum := newSliceEnumerator(MediaItem{ID: "movie-1", Version: MediaVersion{Duration: 30 * time.Minute}})
	enumerators := Enumerators{primaryKey(): enum}

	item := ProgramScheduleItem{
		Index:         0,
		CollectionKey: primaryKey(),
		StartType:     StartFixed,
		StartTime:     20 * time.Hour,
		Variant:       VariantOnce,
	}

	builder := NewBuilder(enumerators, loc, zerolog.Nop())
	hardStop := start.Add(48 * time.Hour)
	state, items, err := builder.BuildPlayout([]ProgramScheduleItem{item}, NewPlayoutBuilderState(start), hardStop, nil)
	if err != nil {
		t.Fatalf("BuildPlayout: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(items))
	}

	wantStart := time.Date(2026, 8, 3, 20, 0, 0, 0, loc).UTC()
	wantFinish := wantStart.Add(30 * time.Minute)
	got := items[0]
	if !got.Start.Equal(wantStart) || !got.Finish.Equal(wantFinish) {
		t.Errorf("got [%s, %s), want [%s, %s)", got.Start, got.Finish, wantStart, wantFinish)
	}
	if got.FillerKind != FillerNone {
		t.Errorf("FillerKind = %s, want none", got.FillerKind)
	}

	// Re-running from the final state with an empty schedule yields zero
	// items and an unchanged state (spec.md §8 round-trip property).
	state2, items2, err := builder.BuildPlayout(nil, state, hardStop, nil)
	if err != nil {
		t.Fatalf("BuildPlayout (resume): %v", err)
	}
	if len(items2) != 0 {
		t.Errorf("resumed build with empty schedule produced %d items, want 0", len(items2))
	}
	if !state2.CurrentTime.Equal(state.CurrentTime) {
		t.Errorf("resumed build changed CurrentTime: %s -> %s", state.CurrentTime, state2.CurrentTime)
	}
}

// S2 — Flood with tail filler.
func TestBuildPlayout_FloodWithTailFiller(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)

	floodKey := CollectionKey{CollectionType: "show", CollectionID: "flood"}
	tailKey := CollectionKey{CollectionType: "filler", CollectionID: "tail"}

	floodEnum := newLoopEnumerator(MediaItem{ID: "ep", Version: MediaVersion{Duration: 25 * time.Minute}})
	tailEnum := newLoopEnumerator(MediaItem{ID: "bump", Version: MediaVersion{Duration: 2 * time.Minute}})
	enumerators := Enumerators{floodKey: floodEnum, tailKey: tailEnum}

	tailPreset := mustPreset(t, FillerTail, FillerModeDuration, FillerPresetOption{Duration: 24 * time.Hour, Collection: tailKey})

	floodItem := ProgramScheduleItem{
		Index:         0,
		CollectionKey: floodKey,
		StartType:     StartDynamic,
		Variant:       VariantFlood,
		Filler:        FillerSlots{TailFiller: &tailPreset},
	}
	nextFixed := ProgramScheduleItem{
		Index:         1,
		CollectionKey: floodKey,
		StartType:     StartFixed,
		StartTime:     22 * time.Hour,
		Variant:       VariantOnce,
	}

	builder := NewBuilder(enumerators, loc, zerolog.Nop())
	hardStop := start.Add(24 * time.Hour)
	_, items, err := builder.BuildPlayout([]ProgramScheduleItem{floodItem, nextFixed}, NewPlayoutBuilderState(start), hardStop, nil)
	if err != nil {
		t.Fatalf("BuildPlayout: %v", err)
	}

	fixedStart := time.Date(2026, 8, 3, 22, 0, 0, 0, loc).UTC()
	var primaries, tails int
	for _, it := range items {
		if it.Finish.After(fixedStart) {
			t.Fatalf("item %+v crosses the next fixed start %s", it, fixedStart)
		}
		switch it.FillerKind {
		case FillerNone:
			primaries++
		case FillerTail:
			tails++
		default:
			t.Fatalf("unexpected filler kind %s in flood output", it.FillerKind)
		}
	}
	if primaries == 0 {
		t.Error("expected at least one primary flood item")
	}
	if tails == 0 {
		t.Error("expected at least one tail item filling the remainder")
	}
	// 120 minutes / 25-minute primaries = 4 full (100m), 20m remainder;
	// 20m / 2m tail items = 10 tail items exactly.
	if primaries != 4 {
		t.Errorf("primaries = %d, want 4", primaries)
	}
	if tails != 10 {
		t.Errorf("tails = %d, want 10", tails)
	}
}

// S6 — Multiple with cancellation.
func TestBuildPlayout_MultipleWithCancellation(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, loc)

	key := CollectionKey{CollectionType: "show", CollectionID: "multi"}
	enum := newLoopEnumerator(MediaItem{ID: "clip", Version: MediaVersion{Duration: time.Minute}})
	enumerators := Enumerators{key: enum}

	item := ProgramScheduleItem{
		Index:         0,
		CollectionKey: key,
		StartType:     StartDynamic,
		Variant:       VariantMultiple,
		Count:         10,
	}

	// cancelAfter cancels once 5 items have been consumed, by counting
	// MoveNext calls via a thin wrapper enumerator.
	cancel := make(chan struct{})
	counting := &cancelingEnumerator{inner: enum, cancel: cancel, cancelAfter: 5}
	enumerators[key] = counting

	builder := NewBuilder(enumerators, loc, zerolog.Nop())
	hardStop := start.Add(48 * time.Hour)
	state, items, err := builder.BuildPlayout([]ProgramScheduleItem{item}, NewPlayoutBuilderState(start), hardStop, cancel)

	if !errors.Is(err, ErrScanCanceled) {
		t.Fatalf("err = %v, want ErrScanCanceled", err)
	}
	if len(items) != 5 {
		t.Fatalf("items = %d, want 5", len(items))
	}
	if state.MultipleRemaining == nil || *state.MultipleRemaining != 5 {
		t.Fatalf("MultipleRemaining = %v, want 5", state.MultipleRemaining)
	}
}

// cancelingEnumerator closes its cancel channel once cancelAfter MoveNext
// calls have occurred, simulating cooperative cancellation firing mid-drain.
type cancelingEnumerator struct {
	inner       CollectionEnumerator
	cancel      chan struct{}
	cancelAfter int
	moves       int
	closed      bool
}

func (e *cancelingEnumerator) Current() (MediaItem, bool) { return e.inner.Current() }

func (e *cancelingEnumerator) MoveNext() {
	e.inner.MoveNext()
	e.moves++
	if e.moves >= e.cancelAfter && !e.closed {
		close(e.cancel)
		e.closed = true
	}
}

func (e *cancelingEnumerator) MinimumDuration() (time.Duration, bool) { return e.inner.MinimumDuration() }

// Invariant 5: NextGuideGroup is strictly monotonic across distinct primary
// items within a single build.
func TestBuildPlayout_GuideGroupMonotonic(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, loc)
	key := CollectionKey{CollectionType: "show", CollectionID: "multi"}
	enum := newLoopEnumerator(MediaItem{ID: "clip", Version: MediaVersion{Duration: time.Minute}})
	enumerators := Enumerators{key: enum}

	item := ProgramScheduleItem{Index: 0, CollectionKey: key, Variant: VariantMultiple, Count: 4}
	builder := NewBuilder(enumerators, loc, zerolog.Nop())
	_, items, err := builder.BuildPlayout([]ProgramScheduleItem{item}, NewPlayoutBuilderState(start), start.Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("BuildPlayout: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].GuideGroup <= items[i-1].GuideGroup {
			t.Errorf("guide group not strictly increasing at index %d: %d -> %d", i, items[i-1].GuideGroup, items[i].GuideGroup)
		}
	}
}
