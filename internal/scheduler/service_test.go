package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/friendsincode/playoutd/internal/models"
	"github.com/friendsincode/playoutd/internal/playout"
	"github.com/friendsincode/playoutd/internal/scheduler/state"
	"github.com/friendsincode/playoutd/internal/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type loopEnumerator struct {
	items []playout.MediaItem
	pos   int
}

func (e *loopEnumerator) Current() (playout.MediaItem, bool) {
	if len(e.items) == 0 {
		return playout.MediaItem{}, false
	}
	return e.items[e.pos%len(e.items)], true
}
func (e *loopEnumerator) MoveNext() { e.pos++ }
func (e *loopEnumerator) MinimumDuration() (time.Duration, bool) {
	if len(e.items) == 0 {
		return 0, false
	}
	return e.items[0].Duration(), true
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Channel{}, &models.ScheduleEntry{}, &models.PlayoutItem{}))
	return db
}

func TestBuildChannelPersistsItemsAndCommitsOnce(t *testing.T) {
	db := setupDB(t)

	channel := models.Channel{ID: "ch1", Name: "Test Channel"}
	require.NoError(t, db.Create(&channel).Error)

	entry := models.ScheduleEntry{
		ID:             "entry-1",
		ChannelID:      channel.ID,
		Index:          0,
		CollectionType: "music",
		CollectionID:   "library-1",
		StartType:      string(playout.StartDynamic),
		Variant:        string(playout.VariantDuration),
		PlayoutDuration: 10 * time.Minute,
		TailMode:        string(playout.TailModeOffline),
	}
	require.NoError(t, db.Create(&entry).Error)

	idx := search.NewInMemoryIndex()
	stateStore := state.NewStore(func(channelID string) playout.Enumerators {
		return playout.Enumerators{
			{CollectionType: "music", CollectionID: "library-1"}: &loopEnumerator{
				items: []playout.MediaItem{
					{ID: "track-1", Version: playout.MediaVersion{Duration: 3 * time.Minute}},
				},
			},
		}
	})

	svc := New(db, nil, idx, stateStore, time.Hour, time.Minute, time.UTC, zerolog.Nop())

	require.NoError(t, svc.buildChannel(context.Background(), channel.ID))

	var rows []models.PlayoutItem
	require.NoError(t, db.Where("channel_id = ?", channel.ID).Find(&rows).Error)
	require.NotEmpty(t, rows)

	require.Equal(t, 1, idx.CommitCount())
	require.Len(t, idx.Committed(), len(rows))
}

func TestBuildChannelNoScheduleIsNotAnError(t *testing.T) {
	db := setupDB(t)
	channel := models.Channel{ID: "ch-empty", Name: "Empty"}
	require.NoError(t, db.Create(&channel).Error)

	idx := search.NewInMemoryIndex()
	stateStore := state.NewStore(func(channelID string) playout.Enumerators { return playout.Enumerators{} })
	svc := New(db, nil, idx, stateStore, time.Hour, time.Minute, time.UTC, zerolog.Nop())

	require.NoError(t, svc.buildChannel(context.Background(), channel.ID))
	require.Equal(t, 1, idx.CommitCount())
}

func TestUpcomingFiltersByWindow(t *testing.T) {
	db := setupDB(t)
	now := time.Now().UTC()
	items := []models.PlayoutItem{
		{ID: "a", ChannelID: "ch1", StartUTC: now.Add(time.Hour)},
		{ID: "b", ChannelID: "ch1", StartUTC: now.Add(48 * time.Hour)},
	}
	require.NoError(t, db.Create(&items).Error)

	svc := New(db, nil, search.NewInMemoryIndex(), state.NewStore(func(string) playout.Enumerators { return nil }), time.Hour, time.Minute, time.UTC, zerolog.Nop())
	got, err := svc.Upcoming(context.Background(), "ch1", now, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].ID)
}
