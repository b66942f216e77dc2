/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package collection

import (
	"fmt"
	"os"
	"time"

	"github.com/friendsincode/playoutd/internal/playout"
	"gopkg.in/yaml.v3"
)

// PlaylistDefinition is the YAML shape a static playlist file is parsed
// from: a named, ordered list of media items with their chapter marks, used
// by the CLI's serve and simulate commands to build Ordered enumerator input
// without a database.
type PlaylistDefinition struct {
	Name  string            `yaml:"name"`
	Items []PlaylistMediaItem `yaml:"items"`
}

// PlaylistMediaItem is one YAML-defined entry in a PlaylistDefinition.
type PlaylistMediaItem struct {
	ID       string                `yaml:"id"`
	Duration time.Duration         `yaml:"duration"`
	Chapters []PlaylistMediaChapter `yaml:"chapters,omitempty"`
}

// PlaylistMediaChapter is one YAML-defined chapter mark.
type PlaylistMediaChapter struct {
	Start time.Duration `yaml:"start"`
	End   time.Duration `yaml:"end"`
}

// LoadPlaylistFile reads and parses a YAML playlist definition from disk.
func LoadPlaylistFile(path string) (PlaylistDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlaylistDefinition{}, fmt.Errorf("read playlist file %s: %w", path, err)
	}
	return ParsePlaylist(data)
}

// ParsePlaylist decodes a YAML playlist definition.
func ParsePlaylist(data []byte) (PlaylistDefinition, error) {
	var def PlaylistDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return PlaylistDefinition{}, fmt.Errorf("parse playlist yaml: %w", err)
	}
	return def, nil
}

// MediaItems converts the YAML definition into the core's MediaItem values.
func (d PlaylistDefinition) MediaItems() []playout.MediaItem {
	out := make([]playout.MediaItem, 0, len(d.Items))
	for _, item := range d.Items {
		chapters := make([]playout.MediaChapter, 0, len(item.Chapters))
		for _, c := range item.Chapters {
			chapters = append(chapters, playout.MediaChapter{StartTime: c.Start, EndTime: c.End})
		}
		out = append(out, playout.MediaItem{
			ID: item.ID,
			Version: playout.MediaVersion{
				Duration: item.Duration,
				Chapters: chapters,
			},
		})
	}
	return out
}
