package search

import (
	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/pkg/newznab"
	"github.com/vmunix/snatch/pkg/release"
)

// SearchType is the search mode that produced a result.
type SearchType string

const (
	SearchManual  SearchType = "manual"
	SearchForced  SearchType = "forced"
	SearchDaily   SearchType = "daily"
	SearchProper  SearchType = "proper"
	SearchBacklog SearchType = "backlog"
)

// Query specifies which episodes to search for.
type Query struct {
	// Episodes are the wanted episodes, all of one series.
	Episodes []*library.Episode
	// Text overrides the series title as the free text query.
	Text string
	Type SearchType
}

func (q Query) request() (newznab.SearchRequest, error) {
	if len(q.Episodes) == 0 {
		return newznab.SearchRequest{}, ErrNoEpisodes
	}
	first := q.Episodes[0]
	req := newznab.SearchRequest{
		Query:      q.Text,
		Season:     first.Season,
		Categories: newznab.TVCategories,
	}
	if s := first.Series; s != nil {
		if req.Query == "" {
			req.Query = s.Title
		}
		if s.TVDBID != nil {
			req.TVDBID = *s.TVDBID
		}
	}
	if len(q.Episodes) == 1 {
		req.Episode = first.Episode
	}
	req.Query = release.NormalizeSearchQuery(req.Query)
	return req, nil
}
