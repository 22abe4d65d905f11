package search

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/pkg/quality"
)

// Result is one candidate release an indexer returned for one or more episodes.
//
// Quality, size, version and proper tags are only changed through their
// setters, which normalize untyped provider values. A Result is owned by a
// single search and is not safe for concurrent mutation.
type Result struct {
	Provider     Provider
	Name         string
	URL          string
	ReleaseGroup string
	Kind         Kind
	SearchType   SearchType

	// Date is when the result was created.
	Date time.Time
	// PubDate is when the indexer published the release, nil until known.
	PubDate *time.Time
	// Hash is the torrent info hash, empty for usenet results.
	Hash string

	// Seeders and Leechers are -1 unless a torrent indexer reported them.
	Seeders  int
	Leechers int

	ExtraInfo    []string
	Content      []byte
	Item         any
	ParsedResult any

	ManuallySearched       bool
	ForcedSearch           bool
	DownloadCurrentQuality bool
	AddCacheEntry          bool
	SameDaySpecial         bool
	ResultWanted           bool

	episodes   []*library.Episode
	quality    quality.Code
	size       int64
	version    int
	properTags []string

	actualSeason   *int
	actualEpisode  *int
	actualEpisodes []int

	log *slog.Logger
}

// Option configures a Result at construction.
type Option func(*Result)

// WithProvider sets the indexer that returned the result.
func WithProvider(p Provider) Option { return func(r *Result) { r.Provider = p } }

// WithName sets the release name.
func WithName(name string) Option { return func(r *Result) { r.Name = name } }

// WithURL sets the download URL.
func WithURL(u string) Option { return func(r *Result) { r.URL = u } }

// WithQuality sets the quality; see SetQuality.
func WithQuality(q any) Option { return func(r *Result) { r.SetQuality(q) } }

// WithSize sets the size in bytes; see SetSize.
func WithSize(size any) Option { return func(r *Result) { r.SetSize(size) } }

// WithReleaseGroup sets the release group.
func WithReleaseGroup(group string) Option { return func(r *Result) { r.ReleaseGroup = group } }

// WithVersion sets the release version; see SetVersion.
func WithVersion(v any) Option { return func(r *Result) { r.SetVersion(v) } }

// WithProperTags sets the proper tags; see SetProperTags.
func WithProperTags(tags any) Option { return func(r *Result) { r.SetProperTags(tags) } }

// WithDate overrides the creation time.
func WithDate(t time.Time) Option { return func(r *Result) { r.Date = t } }

// WithKind sets the transport kind.
func WithKind(k Kind) Option { return func(r *Result) { r.Kind = k } }

// WithLogger sets the logger used by AddToCache.
func WithLogger(log *slog.Logger) Option {
	return func(r *Result) {
		if log != nil {
			r.log = log.With("component", "search")
		}
	}
}

// NewResult creates a result for episodes, which must be non-empty and all
// belong to the same series.
func NewResult(episodes []*library.Episode, opts ...Option) (*Result, error) {
	if len(episodes) == 0 {
		return nil, ErrNoEpisodes
	}
	for i, ep := range episodes {
		if ep == nil {
			return nil, fmt.Errorf("episode %d is nil: %w", i, ErrInvalidArgument)
		}
	}
	if !sameSeries(episodes) {
		return nil, ErrMixedSeries
	}

	r := &Result{
		Date:          time.Now(),
		Seeders:       -1,
		Leechers:      -1,
		AddCacheEntry: true,
		episodes:      slices.Clone(episodes),
		quality:       quality.Unknown,
		size:          -1,
		version:       -1,
		properTags:    []string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func seriesKey(ep *library.Episode) int64 {
	if ep.Series != nil {
		return ep.Series.ID
	}
	return ep.SeriesID
}

func sameSeries(episodes []*library.Episode) bool {
	first := episodes[0]
	for _, ep := range episodes[1:] {
		if first.Series != nil && ep.Series == first.Series {
			continue
		}
		if seriesKey(ep) != seriesKey(first) {
			return false
		}
	}
	return true
}

// Episodes returns the episodes the result satisfies, in order.
func (r *Result) Episodes() []*library.Episode {
	return slices.Clone(r.episodes)
}

// Series returns the series of the first episode.
func (r *Result) Series() *library.Series {
	return r.episodes[0].Series
}

// Quality returns the quality code, never quality.None.
func (r *Result) Quality() quality.Code {
	return r.quality
}

// SetQuality stores v as a quality code. Zero or unconvertible values become quality.Unknown.
func (r *Result) SetQuality(v any) {
	var q quality.Code
	switch t := v.(type) {
	case quality.Code:
		q = t
	default:
		if n, err := toInt64(v); err == nil && n > 0 && n <= math.MaxUint32 {
			q = quality.Code(n)
		}
	}
	if q == quality.None {
		q = quality.Unknown
	}
	r.quality = q
}

// Size returns the size in bytes, or -1 when not available.
func (r *Result) Size() int64 {
	return r.size
}

// SetSize stores v as a byte count. Zero or unconvertible values become -1.
func (r *Result) SetSize(v any) {
	n, _ := toInt64(v)
	if n == 0 {
		n = -1
	}
	r.size = n
}

// Version returns the release version, or -1 when not available.
func (r *Result) Version() int {
	return r.version
}

// SetVersion stores v as a release version. Zero or unconvertible values become -1.
func (r *Result) SetVersion(v any) {
	n, _ := toInt64(v)
	if n == 0 || n > math.MaxInt32 || n < math.MinInt32 {
		n = -1
	}
	r.version = int(n)
}

// toInt64 converts numeric values with cast. Strings are read as base 10
// after trimming, so zero-padded values such as "08" keep their decimal value.
func toInt64(v any) (int64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return cast.ToInt64E(v)
}

// ProperTags returns the proper/repack tags in the order given.
func (r *Result) ProperTags() []string {
	return slices.Clone(r.properTags)
}

// SetProperTags accepts a "|" separated string or a sequence of tags.
// Strings are split with empty segments kept; sequences are stored as given.
// Nil and "" clear the tags.
func (r *Result) SetProperTags(v any) {
	switch t := v.(type) {
	case nil:
		r.properTags = []string{}
	case string:
		if t == "" {
			r.properTags = []string{}
			return
		}
		r.properTags = strings.Split(t, "|")
	case []string:
		if t == nil {
			t = []string{}
		}
		r.properTags = t
	default:
		r.properTags = cast.ToStringSlice(v)
	}
}

// IsProper reports whether the result carries at least one non-empty proper tag.
func (r *Result) IsProper() bool {
	return slices.ContainsFunc(r.properTags, func(tag string) bool { return tag != "" })
}

// AddExtraInfo appends provider specific values.
func (r *Result) AddExtraInfo(info ...string) {
	r.ExtraInfo = append(r.ExtraInfo, info...)
}

// Equal reports whether every stored attribute of r and other is equal.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, b := *r, *other
	a.log, b.log = nil, nil
	return reflect.DeepEqual(a, b)
}

func (r *Result) logger() *slog.Logger {
	if r.log == nil {
		return slog.Default().With("component", "search")
	}
	return r.log
}
