/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newComposer(t *testing.T, enumerators Enumerators) *FillerComposer {
	t.Helper()
	return NewFillerComposer(enumerators, testLocation(t), zerolog.Nop())
}

// S3 — Pad to nearest 30 minutes, PostRoll.
func TestCompose_PadPostRollWithFallbackShortfall(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)

	postRollKey := CollectionKey{CollectionType: "filler", CollectionID: "post"}
	// Only 5 minutes of real post-roll content available; the remaining 15
	// of the 20-minute gap must be covered by a Fallback item.
	postRollEnum := newSliceEnumerator(MediaItem{ID: "bumper", Version: MediaVersion{Duration: 5 * time.Minute}})
	enumerators := Enumerators{postRollKey: postRollEnum}

	pad := mustPreset(t, FillerPostRoll, FillerModePad, FillerPresetOption{PadToNearestMinute: 30, Collection: postRollKey})
	item := ProgramScheduleItem{Index: 0, Filler: FillerSlots{PostRoll: &pad}}
	primary := MediaItem{ID: "movie", Version: MediaVersion{Duration: 40 * time.Minute}}

	composer := newComposer(t, enumerators)
	items := composer.Compose(item, primary, start, 1)

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (primary, post-roll, fallback)", len(items))
	}
	if items[0].MediaItemID != "movie" || items[0].FillerKind != FillerNone {
		t.Errorf("items[0] = %+v, want primary", items[0])
	}
	if items[1].MediaItemID != "bumper" || items[1].FillerKind != FillerPostRoll {
		t.Errorf("items[1] = %+v, want post-roll bumper", items[1])
	}
	if items[2].FillerKind != FillerFallback || items[2].OutPoint != 0 {
		t.Errorf("items[2] = %+v, want Fallback with OutPoint=0", items[2])
	}

	want := time.Date(2026, 8, 3, 21, 0, 0, 0, loc).UTC()
	last := items[len(items)-1]
	if !last.Finish.Equal(want) {
		t.Errorf("last.Finish = %s, want %s", last.Finish, want)
	}
	if last.Finish.Minute()%30 != 0 || last.Finish.Second() != 0 {
		t.Errorf("last.Finish = %s does not land on a 30-minute boundary", last.Finish)
	}
}

// S4 — Mid-roll with chapters.
func TestCompose_MidRollWithChapters(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)

	midKey := CollectionKey{CollectionType: "filler", CollectionID: "mid"}
	enterKey := CollectionKey{CollectionType: "filler", CollectionID: "enter"}
	exitKey := CollectionKey{CollectionType: "filler", CollectionID: "exit"}

	enumerators := Enumerators{
		midKey:   newLoopEnumerator(MediaItem{ID: "ad", Version: MediaVersion{Duration: 60 * time.Second}}),
		enterKey: newLoopEnumerator(MediaItem{ID: "enter-bump", Version: MediaVersion{Duration: 5 * time.Second}}),
		exitKey:  newLoopEnumerator(MediaItem{ID: "exit-bump", Version: MediaVersion{Duration: 5 * time.Second}}),
	}

	mid := mustPreset(t, FillerMidRoll, FillerModeCount, FillerPresetOption{Count: 1, Collection: midKey})
	enter := mustPreset(t, FillerMidRollEnter, FillerModeCount, FillerPresetOption{Count: 1, Collection: enterKey})
	exit := mustPreset(t, FillerMidRollExit, FillerModeCount, FillerPresetOption{Count: 1, Collection: exitKey})

	item := ProgramScheduleItem{Index: 0, Filler: FillerSlots{MidRollEnter: &enter, MidRoll: &mid, MidRollExit: &exit}}
	primary := MediaItem{
		ID: "episode",
		Version: MediaVersion{
			Duration: 40 * time.Minute,
			Chapters: []MediaChapter{
				{StartTime: 0, EndTime: 10 * time.Minute},
				{StartTime: 10 * time.Minute, EndTime: 25 * time.Minute},
				{StartTime: 25 * time.Minute, EndTime: 40 * time.Minute},
			},
		},
	}

	composer := newComposer(t, enumerators)
	items := composer.Compose(item, primary, start, 1)

	if len(items) != 9 {
		t.Fatalf("got %d items, want 9: %+v", len(items), items)
	}
	wantKinds := []FillerKind{
		FillerNone, FillerMidRollEnter, FillerMidRoll, FillerMidRollExit,
		FillerNone, FillerMidRollEnter, FillerMidRoll, FillerMidRollExit,
		FillerNone,
	}
	for i, k := range wantKinds {
		if items[i].FillerKind != k {
			t.Errorf("items[%d].FillerKind = %s, want %s", i, items[i].FillerKind, k)
		}
	}
	// Chapters carry the primary's media ID with in/out points; filler
	// items carry their own collection's media ID.
	if items[0].MediaItemID != "episode" || items[0].InPoint != 0 || items[0].OutPoint != 10*time.Minute {
		t.Errorf("items[0] = %+v, want chapter0", items[0])
	}
}

// S5 — Mid-roll rollback: an empty mid-roll body rolls back the paired
// enter, and never emits an exit.
func TestCompose_MidRollRollback(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)

	enterKey := CollectionKey{CollectionType: "filler", CollectionID: "enter"}
	exitKey := CollectionKey{CollectionType: "filler", CollectionID: "exit"}
	enumerators := Enumerators{
		enterKey: newSliceEnumerator(MediaItem{ID: "enter-bump", Version: MediaVersion{Duration: 5 * time.Second}}),
		exitKey:  newSliceEnumerator(MediaItem{ID: "exit-bump", Version: MediaVersion{Duration: 5 * time.Second}}),
	}

	// A duration-mode mid-roll preset with Duration effectively zero never
	// drains anything, so the body stays empty.
	mid := mustPreset(t, FillerMidRoll, FillerModeDuration, FillerPresetOption{Duration: time.Nanosecond, Collection: CollectionKey{CollectionType: "filler", CollectionID: "empty"}})
	enter := mustPreset(t, FillerMidRollEnter, FillerModeCount, FillerPresetOption{Count: 1, Collection: enterKey})
	exit := mustPreset(t, FillerMidRollExit, FillerModeCount, FillerPresetOption{Count: 1, Collection: exitKey})

	item := ProgramScheduleItem{Index: 0, Filler: FillerSlots{MidRollEnter: &enter, MidRoll: &mid, MidRollExit: &exit}}
	primary := MediaItem{
		ID: "episode",
		Version: MediaVersion{
			Duration: 40 * time.Minute,
			Chapters: []MediaChapter{
				{StartTime: 0, EndTime: 10 * time.Minute},
				{StartTime: 10 * time.Minute, EndTime: 25 * time.Minute},
				{StartTime: 25 * time.Minute, EndTime: 40 * time.Minute},
			},
		},
	}

	composer := newComposer(t, enumerators)
	items := composer.Compose(item, primary, start, 1)

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (chapter0, chapter1, chapter2): %+v", len(items), items)
	}
	for i, it := range items {
		if it.FillerKind != FillerNone {
			t.Errorf("items[%d].FillerKind = %s, want none (enter/exit rolled back)", i, it.FillerKind)
		}
	}
}

// Invariant: zero/one chapter always degrades to single-slice, even with a
// mid-roll-family filler configured.
func TestCompose_SingleChapterDegradesToSingleSlice(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)
	midKey := CollectionKey{CollectionType: "filler", CollectionID: "mid"}
	enumerators := Enumerators{midKey: newSliceEnumerator(MediaItem{ID: "ad", Version: MediaVersion{Duration: time.Minute}})}

	mid := mustPreset(t, FillerMidRoll, FillerModeCount, FillerPresetOption{Count: 1, Collection: midKey})
	item := ProgramScheduleItem{Index: 0, Filler: FillerSlots{MidRoll: &mid}}
	primary := MediaItem{ID: "episode", Version: MediaVersion{Duration: 10 * time.Minute, Chapters: []MediaChapter{{StartTime: 0, EndTime: 10 * time.Minute}}}}

	composer := newComposer(t, enumerators)
	items := composer.Compose(item, primary, start, 1)
	if len(items) != 1 || items[0].MediaItemID != "episode" {
		t.Fatalf("single-chapter item composed as %+v, want single primary slice", items)
	}
}

// Validation: more than one pad slot abandons the whole filler set.
func TestCompose_MultiplePadSlotsAbandonsFiller(t *testing.T) {
	loc := testLocation(t)
	start := time.Date(2026, 8, 3, 20, 0, 0, 0, loc)

	key := CollectionKey{CollectionType: "filler", CollectionID: "x"}
	enumerators := Enumerators{key: newSliceEnumerator(MediaItem{ID: "x", Version: MediaVersion{Duration: time.Minute}})}

	pre := mustPreset(t, FillerPreRoll, FillerModePad, FillerPresetOption{PadToNearestMinute: 10, Collection: key})
	post := mustPreset(t, FillerPostRoll, FillerModePad, FillerPresetOption{PadToNearestMinute: 10, Collection: key})
	item := ProgramScheduleItem{Index: 0, Filler: FillerSlots{PreRoll: &pre, PostRoll: &post}}
	primary := MediaItem{ID: "movie", Version: MediaVersion{Duration: 23 * time.Minute}}

	composer := newComposer(t, enumerators)
	items := composer.Compose(item, primary, start, 1)
	if len(items) != 1 || items[0].MediaItemID != "movie" {
		t.Fatalf("expected primary alone when multiple pad slots configured, got %+v", items)
	}
}
