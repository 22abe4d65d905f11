package library

import (
	"github.com/vmunix/snatch/pkg/release"
)

// MinMatchScore is the title similarity below which MatchSeries reports no match.
const MinMatchScore = 0.85

// SeriesMatch is the outcome of a fuzzy series lookup.
type SeriesMatch struct {
	Series     *Series
	Score      float64
	Confidence release.MatchConfidence
}

// MatchSeries finds the series whose title is most similar to title.
// Returns ErrNotFound when no candidate reaches MinMatchScore.
func MatchSeries(title string, candidates []*Series) (SeriesMatch, error) {
	var best SeriesMatch
	for _, s := range candidates {
		score := release.Similarity(title, s.Title)
		if score > best.Score {
			best = SeriesMatch{Series: s, Score: score}
		}
	}

	if best.Series == nil || best.Score < MinMatchScore {
		return SeriesMatch{}, ErrNotFound
	}
	best.Confidence = release.ConfidenceOf(best.Score)
	return best, nil
}
