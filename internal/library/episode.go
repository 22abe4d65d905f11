package library

import (
	"fmt"
)

const episodeColumns = "id, series_id, season, episode, title, air_date"

func addEpisode(q querier, e *Episode) error {
	result, err := q.Exec(`
		INSERT INTO episodes (series_id, season, episode, title, air_date)
		VALUES (?, ?, ?, ?, ?)`,
		e.SeriesID, e.Season, e.Episode, e.Title, e.AirDate,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// AddEpisode inserts a new episode into the database.
// Sets ID on the struct.
func (s *Store) AddEpisode(e *Episode) error { return addEpisode(s.db, e) }

// AddEpisode inserts a new episode within a transaction.
func (t *Tx) AddEpisode(e *Episode) error { return addEpisode(t.tx, e) }

// EpisodeByNumber returns a single episode by its season and episode number.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) EpisodeByNumber(seriesID int64, season, episode int) (*Episode, error) {
	e := &Episode{}
	err := s.db.QueryRow(`
		SELECT `+episodeColumns+`
		FROM episodes WHERE series_id = ? AND season = ? AND episode = ?`,
		seriesID, season, episode,
	).Scan(&e.ID, &e.SeriesID, &e.Season, &e.Episode, &e.Title, &e.AirDate)
	if err != nil {
		return nil, fmt.Errorf("get episode S%02dE%02d of series %d: %w", season, episode, seriesID, mapSQLiteError(err))
	}
	return e, nil
}

// SeasonEpisodes returns all episodes of a season ordered by episode number.
// Returns ErrNotFound if the season has no episodes.
func (s *Store) SeasonEpisodes(seriesID int64, season int) ([]*Episode, error) {
	rows, err := s.db.Query(`
		SELECT `+episodeColumns+`
		FROM episodes WHERE series_id = ? AND season = ?
		ORDER BY episode`,
		seriesID, season,
	)
	if err != nil {
		return nil, fmt.Errorf("list season %d of series %d: %w", season, seriesID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.SeriesID, &e.Season, &e.Episode, &e.Title, &e.AirDate); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("season %d of series %d: %w", season, seriesID, ErrNotFound)
	}

	return results, nil
}

// BulkAddEpisodes inserts multiple episodes efficiently.
// Skips episodes that already exist (by series_id, season, episode).
// Returns the count of newly inserted episodes.
func (s *Store) BulkAddEpisodes(episodes []*Episode) (int, error) {
	if len(episodes) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO episodes (series_id, season, episode, title, air_date)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, e := range episodes {
		result, err := stmt.Exec(e.SeriesID, e.Season, e.Episode, e.Title, e.AirDate)
		if err != nil {
			return inserted, fmt.Errorf("insert episode S%02dE%02d: %w", e.Season, e.Episode, mapSQLiteError(err))
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}
