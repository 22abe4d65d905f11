// Package newznab implements the Newznab (usenet) and Torznab (torrent) indexer API protocols.
package newznab

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Protocol is the transport an indexer serves releases over.
type Protocol string

const (
	Usenet  Protocol = "usenet"
	Torrent Protocol = "torrent"
)

// ParseProtocol converts a config value into a Protocol. Empty means usenet.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case "", Usenet:
		return Usenet, nil
	case Torrent:
		return Torrent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

// Client is a Newznab/Torznab API client for a single indexer.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	protocol   Protocol
	categories []int
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new indexer client.
func NewClient(name, baseURL, apiKey string, protocol Protocol, log *slog.Logger) *Client {
	var clientLog *slog.Logger
	if log != nil {
		clientLog = log.With("component", "newznab", "indexer", name, "protocol", string(protocol))
	}
	return &Client{
		name:     name,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		protocol: protocol,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: clientLog,
	}
}

// Name returns the indexer name.
func (c *Client) Name() string {
	return c.name
}

// URL returns the indexer base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// SetCategories restricts every search to cats, replacing the request's categories.
func (c *Client) SetCategories(cats []int) *Client {
	c.categories = cats
	return c
}

// Protocol reports whether the indexer serves NZBs or torrents.
func (c *Client) Protocol() Protocol {
	return c.protocol
}

// Caps performs a capabilities request to test connectivity.
func (c *Client) Caps(ctx context.Context) error {
	params := url.Values{}
	params.Set("t", "caps")
	params.Set("apikey", c.apiKey)

	resp, err := c.get(ctx, params)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return nil
}

// SearchRequest describes one indexer query. A positive Season or a TVDBID
// switches the request to the tvsearch function.
type SearchRequest struct {
	Query      string
	TVDBID     int64
	Season     int
	Episode    int
	Categories []int
	Limit      int
	Offset     int
}

func (r SearchRequest) function() string {
	if r.Season > 0 || r.TVDBID > 0 {
		return "tvsearch"
	}
	return "search"
}

// TV categories shared by Newznab and Torznab indexers.
var TVCategories = []int{5000, 5010, 5020, 5030, 5040, 5045, 5050, 5070}

// Search queries the indexer and returns the raw feed items.
func (c *Client) Search(ctx context.Context, sr SearchRequest) ([]Item, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", sr.function())
	if sr.Query != "" {
		params.Set("q", sr.Query)
	}
	if sr.TVDBID > 0 {
		params.Set("tvdbid", strconv.FormatInt(sr.TVDBID, 10))
	}
	if sr.Season > 0 {
		params.Set("season", strconv.Itoa(sr.Season))
		if sr.Episode > 0 {
			params.Set("ep", strconv.Itoa(sr.Episode))
		}
	}
	categories := sr.Categories
	if len(c.categories) > 0 {
		categories = c.categories
	}
	if len(categories) > 0 {
		cats := make([]string, len(categories))
		for i, cat := range categories {
			cats[i] = strconv.Itoa(cat)
		}
		params.Set("cat", strings.Join(cats, ","))
	}
	limit := sr.Limit
	if limit <= 0 {
		limit = 100
	}
	params.Set("limit", strconv.Itoa(limit))
	if sr.Offset > 0 {
		params.Set("offset", strconv.Itoa(sr.Offset))
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var feed rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if feed.Error != nil {
		return nil, feed.Error.asError()
	}

	items := feed.Channel.Items
	for i := range items {
		items[i].Indexer = c.name
	}

	if c.log != nil {
		c.log.Debug("search complete", "query", sr.Query, "season", sr.Season, "episode", sr.Episode,
			"results", len(items), "duration_ms", time.Since(start).Milliseconds())
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, params url.Values) (*http.Response, error) {
	reqURL, err := url.Parse(c.baseURL + "/api")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrInvalidAPIKey, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return resp, nil
}

type rssResponse struct {
	XMLName xml.Name
	Channel rssChannel `xml:"channel"`
	Error   *apiError  `xml:"-"`
}

// UnmarshalXML accepts both an <rss> feed and a bare <error> document.
func (r *rssResponse) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.XMLName = start.Name
	if start.Name.Local == "error" {
		var e apiError
		if err := d.DecodeElement(&e, &start); err != nil {
			return err
		}
		r.Error = &e
		return nil
	}
	type plain rssResponse
	var p plain
	if err := d.DecodeElement(&p, &start); err != nil {
		return err
	}
	p.XMLName = start.Name
	*r = rssResponse(p)
	return nil
}

type rssChannel struct {
	Items []Item `xml:"item"`
}

type apiError struct {
	Code        int    `xml:"code,attr"`
	Description string `xml:"description,attr"`
}

func (e *apiError) asError() error {
	// 100-102 are the credential errors in the Newznab API.
	if e.Code >= 100 && e.Code <= 102 {
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, e.Description)
	}
	return fmt.Errorf("%w: error %d: %s", ErrUnavailable, e.Code, e.Description)
}
