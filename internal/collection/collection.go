/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package collection provides reference implementations of
// playout.CollectionEnumerator (spec.md §6: "the media-collection
// enumerators themselves... out of scope; the core only consumes them via
// a small interface"). These exist so BuildPlayout has something real to
// draw from end-to-end; they are intentionally simple.
package collection

import (
	"math/rand"
	"time"

	"github.com/friendsincode/playoutd/internal/playout"
)

// Ordered cycles through a fixed list of media items in definition order,
// wrapping back to the start once exhausted.
type Ordered struct {
	items []playout.MediaItem
	pos   int
}

// NewOrdered builds a deterministic cycling enumerator over items.
func NewOrdered(items []playout.MediaItem) *Ordered {
	return &Ordered{items: items}
}

// Current implements playout.CollectionEnumerator.
func (o *Ordered) Current() (playout.MediaItem, bool) {
	if len(o.items) == 0 {
		return playout.MediaItem{}, false
	}
	return o.items[o.pos%len(o.items)], true
}

// MoveNext implements playout.CollectionEnumerator.
func (o *Ordered) MoveNext() {
	if len(o.items) == 0 {
		return
	}
	o.pos = (o.pos + 1) % len(o.items)
}

// MinimumDuration implements playout.CollectionEnumerator: the shortest item
// in the whole list is a safe lower bound for every remaining item, since
// the cycle repeats indefinitely.
func (o *Ordered) MinimumDuration() (time.Duration, bool) {
	if len(o.items) == 0 {
		return 0, false
	}
	min := o.items[0].Duration()
	for _, item := range o.items[1:] {
		if d := item.Duration(); d < min {
			min = d
		}
	}
	return min, true
}

// Shuffled yields items from a fixed pool in a seeded-random, deterministic
// per-seed order, re-shuffling the pool once exhausted. Grounded in the
// teacher's smartblock.Engine.selectSequence, which drives candidate
// selection from rand.New(rand.NewSource(req.Seed)) for reproducible
// per-build sequences.
type Shuffled struct {
	pool  []playout.MediaItem
	order []int
	pos   int
	rng   *rand.Rand
}

// NewShuffled builds a seeded enumerator over items. The same seed always
// produces the same sequence, which is what makes a resumed build
// reproducible (spec.md §3 "Ownership & lifecycle").
func NewShuffled(items []playout.MediaItem, seed int64) *Shuffled {
	s := &Shuffled{
		pool: items,
		rng:  rand.New(rand.NewSource(seed)),
	}
	s.reshuffle()
	return s
}

func (s *Shuffled) reshuffle() {
	s.order = s.rng.Perm(len(s.pool))
	s.pos = 0
}

// Current implements playout.CollectionEnumerator.
func (s *Shuffled) Current() (playout.MediaItem, bool) {
	if len(s.pool) == 0 {
		return playout.MediaItem{}, false
	}
	return s.pool[s.order[s.pos]], true
}

// MoveNext implements playout.CollectionEnumerator.
func (s *Shuffled) MoveNext() {
	if len(s.pool) == 0 {
		return
	}
	s.pos++
	if s.pos >= len(s.order) {
		s.reshuffle()
	}
}

// MinimumDuration implements playout.CollectionEnumerator.
func (s *Shuffled) MinimumDuration() (time.Duration, bool) {
	if len(s.pool) == 0 {
		return 0, false
	}
	min := s.pool[0].Duration()
	for _, item := range s.pool[1:] {
		if d := item.Duration(); d < min {
			min = d
		}
	}
	return min, true
}
