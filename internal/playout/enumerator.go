/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import "time"

// CollectionKey identifies a media collection a schedule item draws from.
// It is a composite of the collection's type and its underlying identifier,
// compared structurally so it is safe to use as a map key (spec.md §9:
// "Dictionary keyed by CollectionKey ... implement as a value-type map key").
type CollectionKey struct {
	CollectionType string
	CollectionID   string
}

// CollectionEnumerator is a cursor over an ordered sequence of media items.
// Implementations (ordered, shuffled, playlist-backed, ...) live outside the
// core (spec.md §1); the scheduler depends only on this interface.
//
// Enumerators are long-lived across a build and are NOT safe for concurrent
// access — the build owns an enumerator for the duration of the build
// (spec.md §5).
type CollectionEnumerator interface {
	// Current returns the item at the cursor, or (MediaItem{}, false) for an
	// empty collection. It does not advance the cursor.
	Current() (MediaItem, bool)

	// MoveNext advances the cursor by one position. Semantics of what
	// "next" means (sequential, shuffled, weighted-random, playlist order)
	// are internal to the implementation.
	MoveNext()

	// MinimumDuration is a lower bound on the duration of every remaining
	// item, used by duration-mode filler loops to terminate without
	// scanning the whole remaining sequence. Returns (0, false) when no
	// bound is known.
	MinimumDuration() (time.Duration, bool)
}

// Enumerators maps a schedule item's CollectionKey to its enumerator. The
// build borrows these for its whole duration; it never owns or closes them.
type Enumerators map[CollectionKey]CollectionEnumerator

// Lookup returns the enumerator for key, or (nil, false) if none is wired.
func (e Enumerators) Lookup(key CollectionKey) (CollectionEnumerator, bool) {
	enum, ok := e[key]
	return enum, ok
}
