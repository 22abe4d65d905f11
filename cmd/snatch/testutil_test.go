package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/snatch/internal/library"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupStore opens a migrated sqlite file in a temp dir with one series of
// three season 1 episodes.
func setupStore(t *testing.T) (*library.Store, *library.Series) {
	t.Helper()
	db, err := openDB(filepath.Join(t.TempDir(), "data", "snatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := library.NewStore(db)
	tvdb := int64(73244)
	series := &library.Series{Title: "The Office (US)", Year: 2005, TVDBID: &tvdb}
	require.NoError(t, store.AddSeries(series))

	n, err := store.BulkAddEpisodes([]*library.Episode{
		{SeriesID: series.ID, Season: 1, Episode: 1, Title: "Pilot"},
		{SeriesID: series.ID, Season: 1, Episode: 2, Title: "Diversity Day"},
		{SeriesID: series.ID, Season: 1, Episode: 3, Title: "Health Care"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return store, series
}
