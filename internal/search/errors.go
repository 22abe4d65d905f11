// Package search models candidate releases returned by indexers and resolves
// them to the catalog episodes they satisfy.
package search

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates malformed structural input to a Result.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoEpisodes is returned when a Result is built without episodes.
	ErrNoEpisodes = fmt.Errorf("result needs at least one episode: %w", ErrInvalidArgument)

	// ErrMixedSeries is returned when a Result's episodes belong to different series.
	ErrMixedSeries = fmt.Errorf("episodes belong to different series: %w", ErrInvalidArgument)

	// ErrInvalidSeason is returned when an actual season is not numeric.
	ErrInvalidSeason = fmt.Errorf("season is not a number: %w", ErrInvalidArgument)

	// ErrNoIndexers is returned when no indexers are configured.
	ErrNoIndexers = errors.New("no indexers configured")
)
