package search

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vmunix/snatch/internal/library"
)

// ActualSeason returns the season parsed from the release name, falling back
// to the season of the first episode when none was set.
func (r *Result) ActualSeason() int {
	if r.actualSeason != nil {
		return *r.actualSeason
	}
	return r.episodes[0].Season
}

// SetActualSeason stores the parsed season. Strings are read as base 10
// integers, surrounding space ignored. Returns ErrInvalidSeason when v is not
// a number.
func (r *Result) SetActualSeason(v any) error {
	if v == nil {
		return fmt.Errorf("%w: <nil>", ErrInvalidSeason)
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty string", ErrInvalidSeason)
	}
	n, err := toInt64(v)
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return fmt.Errorf("%w: %v", ErrInvalidSeason, v)
	}
	season := int(n)
	r.actualSeason = &season
	return nil
}

// ActualEpisode returns the single parsed episode number, if one was set.
func (r *Result) ActualEpisode() (int, bool) {
	if r.actualEpisode == nil {
		return 0, false
	}
	return *r.actualEpisode, true
}

// SetActualEpisode stores a single parsed episode number.
func (r *Result) SetActualEpisode(n int) {
	r.actualEpisode = &n
}

// ActualEpisodes returns the parsed episode numbers in release order.
func (r *Result) ActualEpisodes() []int {
	return slices.Clone(r.actualEpisodes)
}

// SetActualEpisodes stores the parsed episode numbers. A single number is
// also stored as the actual episode; other lengths leave it untouched.
func (r *Result) SetActualEpisodes(eps []int) {
	r.actualEpisodes = slices.Clone(eps)
	if len(eps) == 1 {
		r.SetActualEpisode(eps[0])
	}
}

// ResolveEpisodes replaces the result's episodes with the catalog episodes
// matching the actual season and episodes, and returns them. With no actual
// episodes the whole season is used. When the season is 0 or the result has
// no series, the episodes are returned unchanged.
//
// An empty season listing is returned as library.ErrNotFound, so a result
// never ends up without episodes. Catalog errors are returned wrapped and
// leave the episodes unchanged.
func (r *Result) ResolveEpisodes() ([]*library.Episode, error) {
	season := r.ActualSeason()
	series := r.Series()
	if season == 0 || series == nil {
		return slices.Clone(r.episodes), nil
	}

	var resolved []*library.Episode
	if len(r.actualEpisodes) > 0 {
		resolved = make([]*library.Episode, 0, len(r.actualEpisodes))
		for _, n := range r.actualEpisodes {
			ep, err := series.GetEpisode(season, n)
			if err != nil {
				return nil, fmt.Errorf("resolve %s S%02dE%02d: %w", series.Title, season, n, err)
			}
			resolved = append(resolved, ep)
		}
	} else {
		eps, err := series.GetAllEpisodes(season)
		if err != nil {
			return nil, fmt.Errorf("resolve %s season %d: %w", series.Title, season, err)
		}
		if len(eps) == 0 {
			return nil, fmt.Errorf("resolve %s season %d: %w", series.Title, season, library.ErrNotFound)
		}
		resolved = eps
	}

	r.episodes = resolved
	return slices.Clone(resolved), nil
}
