/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package models holds the gorm row types persisted outside the playout
// core (spec.md §6: "Playout items are persisted as rows
// {id, mediaItemId, startUtc, finishUtc, inPoint, outPoint, guideGroup,
// fillerKind, disableWatermarks}"). The scheduling core itself
// (internal/playout) never imports this package — rows are built from, and
// schedule configuration is decoded into, the core's pure value types at the
// internal/scheduler boundary.
package models

import (
	"time"

	"github.com/friendsincode/playoutd/internal/playout"
	"github.com/google/uuid"
)

// Channel is a single linear playout channel: one BuildPlayout timeline.
type Channel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Timezone  string `gorm:"type:varchar(64)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FillerSlotConfig is the JSON-serializable form of a playout.FillerPreset,
// stored inline on a ScheduleEntry row.
type FillerSlotConfig struct {
	Kind               playout.FillerKind `json:"kind"`
	Mode               playout.FillerMode `json:"mode"`
	Duration           time.Duration      `json:"duration,omitempty"`
	Count              int                `json:"count,omitempty"`
	PadToNearestMinute int                `json:"pad_to_nearest_minute,omitempty"`
	AllowWatermarks    bool               `json:"allow_watermarks"`
	CollectionType     string             `json:"collection_type"`
	CollectionID       string             `json:"collection_id"`
}

func (c *FillerSlotConfig) toPreset() (*playout.FillerPreset, error) {
	if c == nil {
		return nil, nil
	}
	preset, err := playout.NewFillerPreset(c.Kind, c.Mode, playout.FillerPresetOption{
		Duration:           c.Duration,
		Count:              c.Count,
		PadToNearestMinute: c.PadToNearestMinute,
		AllowWatermarks:    c.AllowWatermarks,
		Collection: playout.CollectionKey{
			CollectionType: c.CollectionType,
			CollectionID:   c.CollectionID,
		},
	})
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// ScheduleEntry is the persisted configuration of one playout.ProgramScheduleItem
// for a channel. Unlike PlayoutItem (the build's output), ScheduleEntry rows
// are the build's input — the "program schedule" spec.md §1 treats as given.
type ScheduleEntry struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	ChannelID string `gorm:"type:uuid;index"`
	Index     int

	CollectionType string `gorm:"type:varchar(64)"`
	CollectionID   string `gorm:"type:uuid"`

	StartType      string `gorm:"type:varchar(16)"`
	StartTimeOfDay time.Duration

	Variant         string `gorm:"type:varchar(16)"`
	Count           int
	PlayoutDuration time.Duration
	TailMode        string `gorm:"type:varchar(16)"`

	PreRollFiller      *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	MidRollEnterFiller *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	MidRollFiller      *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	MidRollExitFiller  *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	PostRollFiller     *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	TailFillerConfig   *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`
	FallbackFiller     *FillerSlotConfig `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToProgramScheduleItem decodes the row into the core's pure value type.
// Invalid filler configuration surfaces as a BadConfiguration BuildError
// here rather than faulting deep inside the build loop.
func (e ScheduleEntry) ToProgramScheduleItem() (playout.ProgramScheduleItem, error) {
	slots, err := e.fillerSlots()
	if err != nil {
		return playout.ProgramScheduleItem{}, err
	}

	return playout.ProgramScheduleItem{
		Index:          e.Index,
		CollectionType: e.CollectionType,
		CollectionKey: playout.CollectionKey{
			CollectionType: e.CollectionType,
			CollectionID:   e.CollectionID,
		},
		StartType:       playout.StartType(e.StartType),
		StartTime:       e.StartTimeOfDay,
		Filler:          slots,
		Variant:         playout.ScheduleVariant(e.Variant),
		Count:           e.Count,
		PlayoutDuration: e.PlayoutDuration,
		TailMode:        playout.TailMode(e.TailMode),
	}, nil
}

func (e ScheduleEntry) fillerSlots() (playout.FillerSlots, error) {
	var slots playout.FillerSlots
	var err error
	if slots.PreRoll, err = e.PreRollFiller.toPreset(); err != nil {
		return slots, err
	}
	if slots.MidRollEnter, err = e.MidRollEnterFiller.toPreset(); err != nil {
		return slots, err
	}
	if slots.MidRoll, err = e.MidRollFiller.toPreset(); err != nil {
		return slots, err
	}
	if slots.MidRollExit, err = e.MidRollExitFiller.toPreset(); err != nil {
		return slots, err
	}
	if slots.PostRoll, err = e.PostRollFiller.toPreset(); err != nil {
		return slots, err
	}
	if slots.TailFiller, err = e.TailFillerConfig.toPreset(); err != nil {
		return slots, err
	}
	if slots.FallbackFiller, err = e.FallbackFiller.toPreset(); err != nil {
		return slots, err
	}
	return slots, nil
}

// PlayoutItem is the persisted form of a playout.PlayoutItem (spec.md §6's
// row shape), scoped to the channel whose build produced it.
type PlayoutItem struct {
	ID                string `gorm:"type:uuid;primaryKey"`
	ChannelID         string `gorm:"type:uuid;index"`
	MediaItemID       string `gorm:"type:uuid;index"`
	StartUTC          time.Time `gorm:"index"`
	FinishUTC         time.Time
	InPoint           time.Duration
	OutPoint          time.Duration
	GuideGroup        int
	FillerKind        string `gorm:"type:varchar(16)"`
	DisableWatermarks bool
	CreatedAt         time.Time
}

// NewPlayoutItemRow converts a built core item into its persisted row,
// scoping it to channelID and minting a fresh row ID.
func NewPlayoutItemRow(channelID string, item playout.PlayoutItem) PlayoutItem {
	return PlayoutItem{
		ID:                uuid.NewString(),
		ChannelID:         channelID,
		MediaItemID:       item.MediaItemID,
		StartUTC:          item.Start,
		FinishUTC:         item.Finish,
		InPoint:           item.InPoint,
		OutPoint:          item.OutPoint,
		GuideGroup:        item.GuideGroup,
		FillerKind:        string(item.FillerKind),
		DisableWatermarks: item.DisableWatermarks,
	}
}
