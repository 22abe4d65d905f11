package newznab

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anacrolix/torrent/metainfo"
)

// Item is a single release from an indexer feed, as returned by the API.
type Item struct {
	Title        string    `xml:"title"`
	GUID         string    `xml:"guid"`
	Link         string    `xml:"link"`
	Comments     string    `xml:"comments"`
	Size         int64     `xml:"size"`
	PubDate      string    `xml:"pubDate"`
	Enclosure    Enclosure `xml:"enclosure"`
	NewznabAttrs []Attr    `xml:"http://www.newznab.com/DTD/2010/feeds/attributes/ attr"`
	TorznabAttrs []Attr    `xml:"http://torznab.com/schemas/2015/feed attr"`

	// Indexer is the name of the client that returned the item.
	Indexer string `xml:"-"`
}

// Enclosure is the RSS enclosure carrying the download link.
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Attr is a newznab:attr or torznab:attr name/value pair.
type Attr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Attr returns the first attribute with the given name from either namespace.
func (it Item) Attr(name string) (string, bool) {
	for _, attrs := range [][]Attr{it.NewznabAttrs, it.TorznabAttrs} {
		for _, a := range attrs {
			if strings.EqualFold(a.Name, name) {
				return a.Value, true
			}
		}
	}
	return "", false
}

func (it Item) intAttr(name string) (int64, bool) {
	v, ok := it.Attr(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DownloadURL returns the link to fetch the release, falling back to the enclosure.
// Torznab items without either link use their magnet URI.
func (it Item) DownloadURL() string {
	if it.Link != "" {
		return it.Link
	}
	if it.Enclosure.URL != "" {
		return it.Enclosure.URL
	}
	if magnet, ok := it.Attr("magneturl"); ok {
		return magnet
	}
	return ""
}

// ContentLength returns the release size in bytes, or -1 when the feed has none.
func (it Item) ContentLength() int64 {
	switch {
	case it.Enclosure.Length > 0:
		return it.Enclosure.Length
	case it.Size > 0:
		return it.Size
	}
	if n, ok := it.intAttr("size"); ok && n > 0 {
		return n
	}
	return -1
}

var pubDateFormats = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04:05 MST",
	time.RFC1123,
	time.RFC3339,
}

// Published returns the publish date from pubDate or the usenetdate attribute.
// Returns nil when neither parses.
func (it Item) Published() *time.Time {
	candidates := []string{it.PubDate}
	if v, ok := it.Attr("usenetdate"); ok {
		candidates = append(candidates, v)
	}
	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, format := range pubDateFormats {
			if t, err := time.Parse(format, raw); err == nil {
				return &t
			}
		}
	}
	return nil
}

// Seeders returns the torznab seeders attribute, or -1 when absent.
func (it Item) Seeders() int {
	if n, ok := it.intAttr("seeders"); ok {
		return int(n)
	}
	return -1
}

// Leechers returns the leechers attribute, deriving it from peers minus
// seeders when only those are present. Returns -1 when unknown.
func (it Item) Leechers() int {
	if n, ok := it.intAttr("leechers"); ok {
		return int(n)
	}
	peers, ok := it.intAttr("peers")
	if !ok {
		return -1
	}
	seeders := it.Seeders()
	if seeders < 0 || int64(seeders) > peers {
		return int(peers)
	}
	return int(peers) - seeders
}

var (
	infoHashAttrKeys = []string{"infohash", "info_hash", "hash"}
	hexInfoHash      = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
)

// InfoHash returns the lower-case hex BitTorrent info hash of a torrent item,
// taken from its magnet URI or infohash attribute. Returns "" when the item
// carries neither.
func (it Item) InfoHash() string {
	magnets := []string{it.Link, it.Enclosure.URL}
	if v, ok := it.Attr("magneturl"); ok {
		magnets = append(magnets, v)
	}
	for _, m := range magnets {
		if !strings.HasPrefix(m, "magnet:") {
			continue
		}
		if mag, err := metainfo.ParseMagnetURI(m); err == nil && mag.InfoHash != (metainfo.Hash{}) {
			return mag.InfoHash.HexString()
		}
	}
	for _, key := range infoHashAttrKeys {
		v, ok := it.Attr(key)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if hexInfoHash.MatchString(v) {
			return metainfo.NewHashFromHex(v).HexString()
		}
	}
	return ""
}

// ItemSize returns the size of an Item or *Item. Sizes the feed omits are -1.
func (c *Client) ItemSize(_ context.Context, item any) (int64, error) {
	it, err := asItem(item)
	if err != nil {
		return 0, err
	}
	return it.ContentLength(), nil
}

// ItemPublishDate returns the publish date of an Item or *Item, nil if unknown.
func (c *Client) ItemPublishDate(_ context.Context, item any) (*time.Time, error) {
	it, err := asItem(item)
	if err != nil {
		return nil, err
	}
	return it.Published(), nil
}

func asItem(item any) (Item, error) {
	switch v := item.(type) {
	case Item:
		return v, nil
	case *Item:
		if v != nil {
			return *v, nil
		}
	}
	return Item{}, ErrUnsupportedItem
}
