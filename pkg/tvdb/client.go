package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL = "https://api4.thetvdb.com/v4"
	// maxPages bounds episode pagination; TheTVDB pages hold 500 episodes.
	maxPages = 100
)

var (
	ErrNotFound     = errors.New("tvdb: not found")
	ErrUnauthorized = errors.New("tvdb: unauthorized")
	ErrRateLimited  = errors.New("tvdb: rate limited")
)

// Client talks to TheTVDB v4 API. It logs in lazily, refreshes the token once
// on a 401, and keeps responses in memory for the configured TTL.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	log        *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCacheTTL sets how long responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log.With("component", "tvdb") }
}

// New creates a client. Responses are cached for an hour unless WithCacheTTL says otherwise.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      gocache.New(time.Hour, 2*time.Hour),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Series fetches a series by TheTVDB ID.
func (c *Client) Series(ctx context.Context, id int64) (*Series, error) {
	key := "series:" + strconv.FormatInt(id, 10)
	if v, ok := c.cached(key); ok {
		return v.(*Series), nil
	}

	var resp seriesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/series/%d", id), &resp); err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}

	s := &Series{ID: resp.Data.ID, Name: resp.Data.Name, Status: resp.Data.Status.Name}
	if len(resp.Data.FirstAired) >= 4 {
		s.Year, _ = strconv.Atoi(resp.Data.FirstAired[:4])
	}
	c.store(key, s)
	return s, nil
}

// Episodes fetches every episode of a series in aired order, following pagination.
func (c *Client) Episodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	key := "episodes:" + strconv.FormatInt(seriesID, 10)
	if v, ok := c.cached(key); ok {
		return slices.Clone(v.([]Episode)), nil
	}

	start := time.Now()
	var all []Episode
	page := 0
	for ; page < maxPages; page++ {
		var resp episodesResponse
		endpoint := fmt.Sprintf("/series/%d/episodes/default?page=%d", seriesID, page)
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("episodes of %d: %w", seriesID, err)
		}

		for _, ep := range resp.Data.Episodes {
			e := Episode{ID: ep.ID, Season: ep.SeasonNumber, Number: ep.Number, Name: ep.Name}
			if t, err := time.Parse(time.DateOnly, ep.Aired); err == nil {
				e.Aired = &t
			}
			all = append(all, e)
		}

		if resp.Links.Next == nil || *resp.Links.Next == "" {
			break
		}
	}
	if page == maxPages {
		c.log.Warn("hit pagination limit", "series_id", seriesID, "pages", page)
	}

	c.log.Debug("fetched episodes", "series_id", seriesID, "count", len(all), "duration_ms", time.Since(start).Milliseconds())
	c.store(key, all)
	return slices.Clone(all), nil
}

func (c *Client) cached(key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, v any) {
	if c.cache != nil {
		c.cache.SetDefault(key, v)
	}
}

// getJSON performs an authenticated GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		c.log.Debug("token expired, refreshing")
		c.setToken("")
		if err := c.login(ctx); err != nil {
			return err
		}
		if resp, err = c.get(ctx, endpoint); err != nil {
			return err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.mu.RLock()
	req.Header.Set("Authorization", "Bearer "+c.token)
	c.mu.RUnlock()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) ensureToken(ctx context.Context) error {
	c.mu.RLock()
	has := c.token != ""
	c.mu.RUnlock()
	if has {
		return nil
	}
	return c.login(ctx)
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if lr.Data.Token == "" {
		return fmt.Errorf("login: %w: empty token", ErrUnauthorized)
	}
	c.setToken(lr.Data.Token)
	c.log.Debug("authenticated")
	return nil
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
}
