package library

import (
	"database/sql"
	"testing"

	"github.com/vmunix/snatch/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Apply(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// createTestSeries adds a series with seasons 1 (three episodes) and 2 (two episodes).
func createTestSeries(t *testing.T, store *Store) *Series {
	t.Helper()
	s := &Series{Title: "Breaking Bad", Year: 2008, TVDBID: ptr(int64(81189))}
	if err := store.AddSeries(s); err != nil {
		t.Fatalf("create test series: %v", err)
	}
	eps := []*Episode{
		{SeriesID: s.ID, Season: 1, Episode: 1, Title: "Pilot"},
		{SeriesID: s.ID, Season: 1, Episode: 2, Title: "Cat's in the Bag..."},
		{SeriesID: s.ID, Season: 1, Episode: 3, Title: "...And the Bag's in the River"},
		{SeriesID: s.ID, Season: 2, Episode: 2, Title: "Grilled"},
		{SeriesID: s.ID, Season: 2, Episode: 1, Title: "Seven Thirty-Seven"},
	}
	if _, err := store.BulkAddEpisodes(eps); err != nil {
		t.Fatalf("create test episodes: %v", err)
	}
	return s
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}
