package search

import (
	"context"
	"fmt"
	"time"
)

// CacheEntry is what a result submits to the result cache.
type CacheEntry struct {
	Provider     string
	Name         string
	URL          string
	Seeders      int
	Leechers     int
	Size         int64
	PubDate      *time.Time
	ParsedResult any
}

// Cache stores results so later searches can reuse them without querying indexers.
//
//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/snatch/internal/search Cache,Provider,Indexer
type Cache interface {
	// AddEntry stores entry and reports whether it was added.
	AddEntry(ctx context.Context, entry CacheEntry) (bool, error)
}

// AddToCache offers the result to c. It does nothing and returns false when
// AddCacheEntry is unset; otherwise it returns the cache's answer.
func (r *Result) AddToCache(ctx context.Context, c Cache) (bool, error) {
	if !r.AddCacheEntry {
		return false, nil
	}

	entry := CacheEntry{
		Provider:     providerName(r.Provider),
		Name:         r.Name,
		URL:          r.URL,
		Seeders:      r.Seeders,
		Leechers:     r.Leechers,
		Size:         r.size,
		PubDate:      r.PubDate,
		ParsedResult: r.ParsedResult,
	}
	// Release names come straight from indexers; quote so control bytes stay escaped.
	r.logger().Debug("adding result to cache", "provider", entry.Provider, "release", fmt.Sprintf("%q", r.Name))

	return c.AddEntry(ctx, entry)
}
