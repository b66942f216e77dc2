/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package state holds the scheduler driver's in-process working set: the
// live playout.CollectionEnumerator instances each channel's build borrows.
// Enumerators are not JSON-serializable in general (spec.md §6 treats them
// as an opaque external collaborator), so their cursor position only
// survives for the life of this process; internal/cache separately persists
// each channel's PlayoutBuilderState so a restart resumes the clock and
// guide-group counter even though enumerator position resets.
package state

import (
	"sync"

	"github.com/friendsincode/playoutd/internal/playout"
)

// EnumeratorFactory builds the fixed set of enumerators a channel's builds
// draw from. It is called at most once per channel for the life of the
// process (see Store.EnumeratorsFor).
type EnumeratorFactory func(channelID string) playout.Enumerators

// Store keeps one long-lived Enumerators set per channel, constructed
// lazily on first use, mirroring the teacher's in-memory Store pattern.
type Store struct {
	mu          sync.Mutex
	factory     EnumeratorFactory
	enumerators map[string]playout.Enumerators
}

// NewStore creates a scheduler state store backed by factory.
func NewStore(factory EnumeratorFactory) *Store {
	return &Store{
		factory:     factory,
		enumerators: make(map[string]playout.Enumerators),
	}
}

// EnumeratorsFor returns the channel's enumerator set, building it via the
// factory on first access and caching it for the remaining ticks.
func (s *Store) EnumeratorsFor(channelID string) playout.Enumerators {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enum, ok := s.enumerators[channelID]; ok {
		return enum
	}
	enum := s.factory(channelID)
	s.enumerators[channelID] = enum
	return enum
}

// Forget drops a channel's cached enumerators, forcing the factory to
// rebuild them on next access (e.g. after a schedule configuration change).
func (s *Store) Forget(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enumerators, channelID)
}
