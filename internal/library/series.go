package library

import (
	"fmt"
	"time"
)

func addSeries(q querier, s *Series) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO series (title, year, tvdb_id, added_at)
		VALUES (?, ?, ?, ?)`,
		s.Title, s.Year, s.TVDBID, now,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.AddedAt = now
	return nil
}

// AddSeries inserts a new series and binds it to the store.
// Sets ID and AddedAt on the struct.
func (s *Store) AddSeries(series *Series) error {
	if err := addSeries(s.db, series); err != nil {
		return err
	}
	series.Bind(s)
	return nil
}

// AddSeries inserts a new series within a transaction.
func (t *Tx) AddSeries(series *Series) error { return addSeries(t.tx, series) }

// GetSeries retrieves a series by ID, bound to the store for episode lookups.
// Returns ErrNotFound if the series does not exist.
func (s *Store) GetSeries(id int64) (*Series, error) {
	series := &Series{}
	err := s.db.QueryRow(`
		SELECT id, title, year, tvdb_id, added_at
		FROM series WHERE id = ?`, id,
	).Scan(&series.ID, &series.Title, &series.Year, &series.TVDBID, &series.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return series.Bind(s), nil
}

// ListSeries returns all series ordered by title.
func (s *Store) ListSeries() ([]*Series, error) {
	rows, err := s.db.Query(`SELECT id, title, year, tvdb_id, added_at FROM series ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		series := &Series{}
		if err := rows.Scan(&series.ID, &series.Title, &series.Year, &series.TVDBID, &series.AddedAt); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, series.Bind(s))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return results, nil
}
