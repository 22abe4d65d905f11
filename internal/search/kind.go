package search

import (
	"fmt"
	"strings"

	"github.com/vmunix/snatch/internal/library"
)

// Kind identifies how a result's payload is fetched.
type Kind string

const (
	// KindNZB is an NZB fetched from the result URL.
	KindNZB Kind = "nzb"
	// KindNZBData is an NZB whose document travels in the result's ExtraInfo.
	KindNZBData Kind = "nzbdata"
	// KindTorrent is a torrent fetched from the result URL or magnet.
	KindTorrent Kind = "torrent"
)

// ParseKind converts a stored kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindNZB, KindNZBData, KindTorrent:
		return k, nil
	}
	return "", fmt.Errorf("unknown result kind %q: %w", s, ErrInvalidArgument)
}

// Extension is the file extension used when saving the payload. Results
// without a kind have none.
func (k Kind) Extension() string {
	return string(k)
}

func (k Kind) typeName() string {
	switch k {
	case KindNZB:
		return "NZBSearchResult"
	case KindNZBData:
		return "NZBDataSearchResult"
	case KindTorrent:
		return "TorrentSearchResult"
	}
	return "SearchResult"
}

// NewNZBResult builds a result for an NZB downloaded from its URL.
func NewNZBResult(episodes []*library.Episode, opts ...Option) (*Result, error) {
	return NewResult(episodes, withFixedKind(opts, KindNZB)...)
}

// NewNZBDataResult builds a result carrying its NZB document in ExtraInfo.
func NewNZBDataResult(episodes []*library.Episode, opts ...Option) (*Result, error) {
	return NewResult(episodes, withFixedKind(opts, KindNZBData)...)
}

// NewTorrentResult builds a result for a torrent downloaded from its URL.
func NewTorrentResult(episodes []*library.Episode, opts ...Option) (*Result, error) {
	return NewResult(episodes, withFixedKind(opts, KindTorrent)...)
}

// withFixedKind appends the kind last so caller options cannot override it.
func withFixedKind(opts []Option, k Kind) []Option {
	return append(opts[:len(opts):len(opts)], WithKind(k))
}

// NZBData returns the NZB document embedded in an nzbdata result.
func (r *Result) NZBData() ([]byte, bool) {
	if r.Kind != KindNZBData || len(r.ExtraInfo) == 0 {
		return nil, false
	}
	return []byte(strings.Join(r.ExtraInfo, "")), true
}
