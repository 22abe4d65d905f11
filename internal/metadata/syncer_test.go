package metadata

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/internal/migrations"
	"github.com/vmunix/snatch/pkg/tvdb"
	_ "modernc.org/sqlite"
)

type fakeSource struct {
	episodes map[int64][]tvdb.Episode
	err      error
	calls    []int64
}

func (f *fakeSource) Episodes(_ context.Context, seriesID int64) ([]tvdb.Episode, error) {
	f.calls = append(f.calls, seriesID)
	if f.err != nil {
		return nil, f.err
	}
	return f.episodes[seriesID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *library.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(db))
	return library.NewStore(db)
}

func addSeries(t *testing.T, store *library.Store, tvdbID *int64) *library.Series {
	t.Helper()
	s := &library.Series{Title: "Breaking Bad", Year: 2008, TVDBID: tvdbID}
	require.NoError(t, store.AddSeries(s))
	return s
}

func TestSyncer_Sync(t *testing.T) {
	store := setupStore(t)
	id := int64(81189)
	series := addSeries(t, store, &id)

	aired := time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{episodes: map[int64][]tvdb.Episode{
		81189: {
			{ID: 1, Season: 1, Number: 1, Name: "Pilot", Aired: &aired},
			{ID: 2, Season: 1, Number: 2, Name: "Cat's in the Bag..."},
			{ID: 3, Season: 1, Number: 0, Name: "Placeholder"},
			{ID: 4, Season: 0, Number: 1, Name: "Good Cop Bad Cop"},
		},
	}}

	syncer := NewSyncer(src, store, testLogger())
	added, err := syncer.Sync(context.Background(), series)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, []int64{81189}, src.calls)

	eps, err := store.SeasonEpisodes(series.ID, 1)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "Pilot", eps[0].Title)
	require.NotNil(t, eps[0].AirDate)
	assert.True(t, aired.Equal(*eps[0].AirDate))

	specials, err := store.SeasonEpisodes(series.ID, 0)
	require.NoError(t, err)
	assert.Len(t, specials, 1)
}

func TestSyncer_Sync_SkipsExisting(t *testing.T) {
	store := setupStore(t)
	id := int64(81189)
	series := addSeries(t, store, &id)
	require.NoError(t, store.AddEpisode(&library.Episode{SeriesID: series.ID, Season: 1, Episode: 1, Title: "Local Title"}))

	src := &fakeSource{episodes: map[int64][]tvdb.Episode{
		81189: {
			{Season: 1, Number: 1, Name: "Pilot"},
			{Season: 1, Number: 2, Name: "Cat's in the Bag..."},
		},
	}}

	added, err := NewSyncer(src, store, testLogger()).Sync(context.Background(), series)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	ep, err := store.EpisodeByNumber(series.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Local Title", ep.Title)
}

func TestSyncer_Sync_NoTVDBID(t *testing.T) {
	store := setupStore(t)
	series := addSeries(t, store, nil)
	src := &fakeSource{}

	_, err := NewSyncer(src, store, testLogger()).Sync(context.Background(), series)
	assert.ErrorIs(t, err, ErrNoTVDBID)
	assert.Empty(t, src.calls)
}

func TestSyncer_Sync_SourceError(t *testing.T) {
	store := setupStore(t)
	id := int64(1)
	series := addSeries(t, store, &id)
	src := &fakeSource{err: tvdb.ErrRateLimited}

	added, err := NewSyncer(src, store, testLogger()).Sync(context.Background(), series)
	assert.Zero(t, added)
	assert.True(t, errors.Is(err, tvdb.ErrRateLimited))
}
