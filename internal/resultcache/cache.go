// Package resultcache persists search results so later searches can reuse them.
package resultcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vmunix/snatch/internal/search"
)

// ErrNotFound indicates no cached result matched.
var ErrNotFound = errors.New("no cached results")

// Entry is a cached result as stored.
type Entry struct {
	ID       int64
	Provider string
	Name     string
	URL      string
	Seeders  int
	Leechers int
	Size     int64
	PubDate  *time.Time
	// Parsed is the JSON encoding of the result's parsed payload, nil if it had none.
	Parsed  json.RawMessage
	AddedAt time.Time
}

// Cache stores results in the results table. Repeated inserts of the same
// provider and URL within the recent window are skipped.
type Cache struct {
	db     *sql.DB
	recent *gocache.Cache
	log    *slog.Logger
	now    func() time.Time
}

var _ search.Cache = (*Cache)(nil)

// New creates a cache over db. A non-positive recentWindow disables the
// duplicate guard.
func New(db *sql.DB, recentWindow time.Duration, log *slog.Logger) *Cache {
	c := &Cache{
		db:  db,
		log: log.With("component", "resultcache"),
		now: time.Now,
	}
	if recentWindow > 0 {
		c.recent = gocache.New(recentWindow, 2*recentWindow)
	}
	return c
}

func recentKey(provider, url string) string {
	return provider + "\x00" + url
}

// AddEntry stores e, replacing any earlier entry for the same provider and URL.
// Returns false without touching the database when the same entry was added
// within the recent window.
func (c *Cache) AddEntry(ctx context.Context, e search.CacheEntry) (bool, error) {
	key := recentKey(e.Provider, e.URL)
	if c.recent != nil {
		if err := c.recent.Add(key, struct{}{}, gocache.DefaultExpiration); err != nil {
			c.log.Debug("skipping recently cached result", "provider", e.Provider, "release", fmt.Sprintf("%q", e.Name))
			return false, nil
		}
	}

	var parsed []byte
	if e.ParsedResult != nil {
		var err error
		parsed, err = json.Marshal(e.ParsedResult)
		if err != nil {
			c.forget(key)
			return false, fmt.Errorf("encode parsed result: %w", err)
		}
	}

	var pubDate sql.NullTime
	if e.PubDate != nil {
		pubDate = sql.NullTime{Time: e.PubDate.UTC(), Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO results (provider, name, url, seeders, leechers, size, pubdate, parsed, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, url) DO UPDATE SET
			name = excluded.name,
			seeders = excluded.seeders,
			leechers = excluded.leechers,
			size = excluded.size,
			pubdate = excluded.pubdate,
			parsed = excluded.parsed,
			added_at = excluded.added_at`,
		e.Provider, e.Name, e.URL, e.Seeders, e.Leechers, e.Size, pubDate, nullString(parsed), c.now().UTC(),
	)
	if err != nil {
		c.forget(key)
		return false, fmt.Errorf("insert result: %w", err)
	}

	c.log.Debug("cached result", "provider", e.Provider, "release", fmt.Sprintf("%q", e.Name), "size", e.Size)
	return true, nil
}

func (c *Cache) forget(key string) {
	if c.recent != nil {
		c.recent.Delete(key)
	}
}

func nullString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// Lookup returns the cached results a provider returned under name, newest first.
// Returns ErrNotFound if there are none.
func (c *Cache) Lookup(ctx context.Context, provider, name string) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, provider, name, url, seeders, leechers, size, pubdate, parsed, added_at
		FROM results WHERE provider = ? AND name = ?
		ORDER BY added_at DESC, id DESC`,
		provider, name,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			pubDate sql.NullTime
			parsed  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.Name, &e.URL, &e.Seeders, &e.Leechers, &e.Size, &pubDate, &parsed, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if pubDate.Valid {
			t := pubDate.Time
			e.PubDate = &t
		}
		if parsed.Valid {
			e.Parsed = json.RawMessage(parsed.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s %q: %w", provider, name, ErrNotFound)
	}
	return entries, nil
}

// Prune deletes results added more than olderThan ago and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := c.now().Add(-olderThan).UTC()
	res, err := c.db.ExecContext(ctx, `DELETE FROM results WHERE added_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	c.log.Info("pruned result cache", "removed", n, "older_than", olderThan.String())
	return n, nil
}
