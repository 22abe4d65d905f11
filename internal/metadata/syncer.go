// Package metadata fills the local episode catalog from TVDB.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/pkg/tvdb"
)

// ErrNoTVDBID is returned when syncing a series that has no TVDB ID.
var ErrNoTVDBID = errors.New("series has no tvdb id")

// EpisodeSource lists every episode TVDB knows for a series.
type EpisodeSource interface {
	Episodes(ctx context.Context, seriesID int64) ([]tvdb.Episode, error)
}

// Syncer copies TVDB episode listings into the library store.
type Syncer struct {
	src   EpisodeSource
	store *library.Store
	log   *slog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(src EpisodeSource, store *library.Store, log *slog.Logger) *Syncer {
	return &Syncer{
		src:   src,
		store: store,
		log:   log.With("component", "metadata"),
	}
}

// Sync adds the episodes of series that are missing from the store and
// returns how many were inserted. Existing episodes are left untouched.
// Episode 0 entries are skipped; they are TVDB placeholders, not airings.
func (s *Syncer) Sync(ctx context.Context, series *library.Series) (int, error) {
	if series.TVDBID == nil {
		return 0, fmt.Errorf("%s: %w", series.Title, ErrNoTVDBID)
	}
	start := time.Now()

	remote, err := s.src.Episodes(ctx, *series.TVDBID)
	if err != nil {
		return 0, fmt.Errorf("fetch episodes for %s: %w", series.Title, err)
	}

	episodes := make([]*library.Episode, 0, len(remote))
	for _, e := range remote {
		if e.Number <= 0 || e.Season < 0 {
			continue
		}
		episodes = append(episodes, &library.Episode{
			SeriesID: series.ID,
			Season:   e.Season,
			Episode:  e.Number,
			Title:    e.Name,
			AirDate:  e.Aired,
		})
	}

	added, err := s.store.BulkAddEpisodes(episodes)
	if err != nil {
		return added, fmt.Errorf("store episodes for %s: %w", series.Title, err)
	}

	s.log.Info("episodes synced",
		"series", series.Title,
		"tvdb_id", *series.TVDBID,
		"remote", len(remote),
		"added", added,
		"duration_ms", time.Since(start).Milliseconds())
	return added, nil
}
