// Package library is the series/episode catalog that search results resolve against.
package library

import (
	"fmt"
	"time"
)

// Catalog looks up episodes for a series. Store implements it against sqlite.
type Catalog interface {
	EpisodeByNumber(seriesID int64, season, episode int) (*Episode, error)
	SeasonEpisodes(seriesID int64, season int) ([]*Episode, error)
}

// Series is a show tracked in the catalog.
type Series struct {
	ID      int64
	Title   string
	Year    int
	TVDBID  *int64
	AddedAt time.Time

	catalog Catalog
}

// NewSeries returns a series bound to catalog for episode lookups.
func NewSeries(id int64, title string, year int, catalog Catalog) *Series {
	return &Series{ID: id, Title: title, Year: year, catalog: catalog}
}

// Bind attaches the catalog used by GetEpisode and GetAllEpisodes.
func (s *Series) Bind(catalog Catalog) *Series {
	s.catalog = catalog
	return s
}

// GetEpisode returns the episode with the given season and number.
// Returns ErrNotFound if the catalog has no such episode.
func (s *Series) GetEpisode(season, episode int) (*Episode, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("series %d: %w", s.ID, ErrNoCatalog)
	}
	ep, err := s.catalog.EpisodeByNumber(s.ID, season, episode)
	if err != nil {
		return nil, err
	}
	ep.Series = s
	return ep, nil
}

// GetAllEpisodes returns every episode of a season ordered by episode number.
// Returns ErrNotFound if the season has no episodes.
func (s *Series) GetAllEpisodes(season int) ([]*Episode, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("series %d: %w", s.ID, ErrNoCatalog)
	}
	eps, err := s.catalog.SeasonEpisodes(s.ID, season)
	if err != nil {
		return nil, err
	}
	for _, ep := range eps {
		ep.Series = s
	}
	return eps, nil
}

// Episode represents a single episode of a series.
type Episode struct {
	ID       int64
	SeriesID int64
	Season   int
	Episode  int
	Title    string
	AirDate  *time.Time

	// Series is the owning show. Set by Series lookups.
	Series *Series
}

// SameAs reports whether e and other refer to the same catalog episode.
func (e *Episode) SameAs(other *Episode) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.ID == other.ID && e.SeriesID == other.SeriesID &&
		e.Season == other.Season && e.Episode == other.Episode
}

func (e *Episode) String() string {
	title := ""
	if e.Series != nil {
		title = e.Series.Title
	}
	if e.Title != "" {
		return fmt.Sprintf("%s - S%02dE%02d - %s", title, e.Season, e.Episode, e.Title)
	}
	return fmt.Sprintf("%s - S%02dE%02d", title, e.Season, e.Episode)
}
