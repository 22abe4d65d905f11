package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/snatch/pkg/newznab"
	"github.com/vmunix/snatch/pkg/release"
	"golang.org/x/sync/errgroup"
)

// Indexer is a Provider that can be searched. *newznab.Client implements it.
type Indexer interface {
	Provider
	Protocol() newznab.Protocol
	Search(ctx context.Context, req newznab.SearchRequest) ([]newznab.Item, error)
}

// IndexerPool searches several indexers in parallel.
type IndexerPool struct {
	indexers []Indexer
	log      *slog.Logger
}

// NewIndexerPool creates a pool from the given indexers.
func NewIndexerPool(indexers []Indexer, log *slog.Logger) *IndexerPool {
	return &IndexerPool{indexers: indexers, log: log.With("component", "indexer_pool")}
}

// Search queries all indexers in parallel and merges their results.
// A failing indexer does not stop the others; its error is returned alongside
// whatever the rest produced.
func (p *IndexerPool) Search(ctx context.Context, q Query) ([]*Result, []error) {
	if len(p.indexers) == 0 {
		return nil, []error{ErrNoIndexers}
	}
	req, err := q.request()
	if err != nil {
		return nil, []error{err}
	}
	p.log.Debug("search started", "query", req.Query, "season", req.Season, "episode", req.Episode, "indexers", len(p.indexers))
	start := time.Now()

	perIndexer := make([][]*Result, len(p.indexers))
	perErrs := make([][]error, len(p.indexers))

	var g errgroup.Group
	for i, idx := range p.indexers {
		g.Go(func() error {
			indexerStart := time.Now()
			items, err := idx.Search(ctx, req)
			if err != nil {
				p.log.Warn("indexer failed", "indexer", idx.Name(), "error", err, "duration_ms", time.Since(indexerStart).Milliseconds())
				perErrs[i] = []error{fmt.Errorf("search %s: %w", idx.Name(), err)}
				return nil
			}
			p.log.Debug("indexer returned", "indexer", idx.Name(), "results", len(items), "duration_ms", time.Since(indexerStart).Milliseconds())
			perIndexer[i], perErrs[i] = p.buildResults(ctx, idx, items, q)
			return nil
		})
	}
	_ = g.Wait()

	var all []*Result
	var errs []error
	for i := range p.indexers {
		all = append(all, perIndexer[i]...)
		errs = append(errs, perErrs[i]...)
	}

	p.log.Info("search complete", "query", req.Query, "results", len(all), "errors", len(errs), "duration_ms", time.Since(start).Milliseconds())
	return all, errs
}

// buildResults turns feed items into results for the queried episodes.
func (p *IndexerPool) buildResults(ctx context.Context, idx Indexer, items []newznab.Item, q Query) ([]*Result, []error) {
	kind := KindNZB
	if idx.Protocol() == newznab.Torrent {
		kind = KindTorrent
	}

	results := make([]*Result, 0, len(items))
	var errs []error
	for _, item := range items {
		info := release.Parse(item.Title)
		r, err := NewResult(q.Episodes,
			WithProvider(idx),
			WithName(item.Title),
			WithURL(item.DownloadURL()),
			WithQuality(info.Quality()),
			WithReleaseGroup(info.Group),
			WithVersion(info.Version),
			WithProperTags(info.ProperTags),
			WithKind(kind),
			WithLogger(p.log),
		)
		if err != nil {
			return nil, []error{err}
		}
		r.Item = item
		r.ParsedResult = info
		r.SearchType = q.Type
		r.ManuallySearched = q.Type == SearchManual
		r.ForcedSearch = q.Type == SearchForced
		r.Seeders = item.Seeders()
		r.Leechers = item.Leechers()
		if kind == KindTorrent {
			r.Hash = item.InfoHash()
		}

		if err := r.Finish(ctx, idx); err != nil {
			p.log.Warn("dropping result", "indexer", idx.Name(), "release", fmt.Sprintf("%q", item.Title), "error", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, r)
	}
	return results, errs
}
