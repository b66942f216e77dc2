/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package search models the search/index collaborator spec.md §6 describes
// as external to the core: "AddItems, UpdateItems, RemoveItems,
// RebuildItems, Commit". The core itself never calls this interface
// directly (BuildPlayout doesn't touch it); internal/scheduler, which drives
// BuildPlayout, acquires it once per build and guarantees Commit() is called
// exactly once on every exit path (spec.md §5: "scoped acquisition with
// guaranteed release on all exit paths, even on cancellation or failure").
package search

import (
	"context"
	"sync"

	"github.com/friendsincode/playoutd/internal/models"
)

// SearchIndex is the collaborator contract of spec.md §6.
type SearchIndex interface {
	AddItems(ctx context.Context, items []models.PlayoutItem) error
	UpdateItems(ctx context.Context, items []models.PlayoutItem) error
	RemoveItems(ctx context.Context, ids []string) error
	RebuildItems(ctx context.Context, channelID string, items []models.PlayoutItem) error
	Commit(ctx context.Context) error
}

// InMemoryIndex is a reference SearchIndex for single-process deployments
// and tests: it keeps committed rows in memory, keyed by row ID, and tracks
// how many times Commit has been called so callers (and tests) can assert
// the once-per-build contract.
type InMemoryIndex struct {
	mu          sync.Mutex
	pending     map[string]models.PlayoutItem
	committed   map[string]models.PlayoutItem
	commitCount int
}

// NewInMemoryIndex constructs an empty index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{
		pending:   make(map[string]models.PlayoutItem),
		committed: make(map[string]models.PlayoutItem),
	}
}

// AddItems stages new rows for the next Commit.
func (idx *InMemoryIndex) AddItems(_ context.Context, items []models.PlayoutItem) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, item := range items {
		idx.pending[item.ID] = item
	}
	return nil
}

// UpdateItems stages replacement rows for the next Commit.
func (idx *InMemoryIndex) UpdateItems(ctx context.Context, items []models.PlayoutItem) error {
	return idx.AddItems(ctx, items)
}

// RemoveItems stages row removal for the next Commit.
func (idx *InMemoryIndex) RemoveItems(_ context.Context, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range ids {
		delete(idx.pending, id)
		delete(idx.committed, id)
	}
	return nil
}

// RebuildItems discards every committed row for a channel and stages items
// as its sole replacement. It is used when a build's output must fully
// supersede the channel's prior committed rows, rather than merge with them.
func (idx *InMemoryIndex) RebuildItems(_ context.Context, channelID string, items []models.PlayoutItem) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for id, item := range idx.committed {
		if item.ChannelID == channelID {
			delete(idx.committed, id)
		}
	}
	for id, item := range idx.pending {
		if item.ChannelID == channelID {
			delete(idx.pending, id)
		}
	}
	for _, item := range items {
		idx.pending[item.ID] = item
	}
	return nil
}

// Commit applies every staged change atomically from the caller's
// perspective. It is idempotent to call on an empty pending set, which is
// what makes "Commit exactly once, even on the empty/canceled path" safe to
// implement with an unconditional defer.
func (idx *InMemoryIndex) Commit(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.commitCount++
	for id, item := range idx.pending {
		idx.committed[id] = item
		delete(idx.pending, id)
	}
	return nil
}

// CommitCount reports how many times Commit has been invoked, for tests
// asserting the once-per-build contract.
func (idx *InMemoryIndex) CommitCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.commitCount
}

// Committed returns a snapshot of every row committed so far.
func (idx *InMemoryIndex) Committed() []models.PlayoutItem {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]models.PlayoutItem, 0, len(idx.committed))
	for _, item := range idx.committed {
		out = append(out, item)
	}
	return out
}
