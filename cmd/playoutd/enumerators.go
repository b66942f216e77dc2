/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/playoutd/internal/collection"
	"github.com/friendsincode/playoutd/internal/playout"
)

// loadPlaylistEnumerators builds a shared catalog of enumerators from every
// YAML playlist file under dir. Each file's top-level Name is expected in
// "collectionType/collectionID" form and becomes the CollectionKey every
// channel's schedule entries reference; all channels currently draw from
// the same catalog (internal/scheduler/state.Store still keys its cache per
// channel, so per-channel catalogs are a drop-in extension later).
func loadPlaylistEnumerators(dir string, logger zerolog.Logger) (playout.Enumerators, error) {
	enumerators := make(playout.Enumerators)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Warn().Str("dir", dir).Msg("playlist directory does not exist, starting with an empty catalog")
		return enumerators, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read playlist dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		def, err := collection.LoadPlaylistFile(path)
		if err != nil {
			return nil, err
		}

		collectionType, collectionID, ok := strings.Cut(def.Name, "/")
		if !ok {
			return nil, fmt.Errorf("playlist %s: name %q must be \"collectionType/collectionID\"", path, def.Name)
		}

		key := playout.CollectionKey{CollectionType: collectionType, CollectionID: collectionID}
		enumerators[key] = collection.NewOrdered(def.MediaItems())
		logger.Info().Str("file", path).Str("collection_type", collectionType).Str("collection_id", collectionID).
			Int("items", len(def.Items)).Msg("loaded static playlist")
	}

	return enumerators, nil
}
