// Package download hands cached NZB results to a download client.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SABnzbdClient interacts with SABnzbd.
type SABnzbdClient struct {
	baseURL    string
	apiKey     string
	category   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSABnzbdClient creates a new SABnzbd client. category is applied to every
// added NZB unless empty.
func NewSABnzbdClient(baseURL, apiKey, category string, log *slog.Logger) *SABnzbdClient {
	if log == nil {
		log = slog.Default()
	}
	return &SABnzbdClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		category: category,
		log:      log.With("component", "sabnzbd"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Add sends an NZB URL to SABnzbd under the job name name and returns the nzo_id.
func (c *SABnzbdClient) Add(ctx context.Context, nzbURL, name string) (string, error) {
	c.log.Debug("adding nzb", "name", name, "category", c.category)

	params := c.params("addurl")
	params.Set("name", nzbURL)
	if name != "" {
		params.Set("nzbname", name)
	}
	if c.category != "" {
		params.Set("cat", c.category)
	}

	var resp addResponse
	if err := c.doRequest(ctx, "addurl", params, &resp); err != nil {
		return "", err
	}

	if !resp.Status {
		if isAPIKeyError(resp.Error) {
			return "", ErrInvalidAPIKey
		}
		return "", fmt.Errorf("sabnzbd add failed: %s", resp.Error)
	}

	if len(resp.NzoIDs) == 0 {
		return "", fmt.Errorf("sabnzbd returned no nzo_id")
	}

	c.log.Info("nzb added", "name", name, "nzo_id", resp.NzoIDs[0])
	return resp.NzoIDs[0], nil
}

// Version returns the SABnzbd version. It doubles as a connectivity check.
func (c *SABnzbdClient) Version(ctx context.Context) (string, error) {
	var resp versionResponse
	if err := c.doRequest(ctx, "version", c.params("version"), &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		if isAPIKeyError(resp.Error) {
			return "", ErrInvalidAPIKey
		}
		return "", fmt.Errorf("sabnzbd version failed: %s", resp.Error)
	}
	return resp.Version, nil
}

func (c *SABnzbdClient) params(mode string) url.Values {
	return url.Values{
		"apikey": {c.apiKey},
		"output": {"json"},
		"mode":   {mode},
	}
}

// doRequest performs an HTTP request to the SABnzbd API.
func (c *SABnzbdClient) doRequest(ctx context.Context, mode string, params url.Values, result any) error {
	start := time.Now()
	reqURL := c.baseURL + "/api?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "mode", mode, "error", err)
		return fmt.Errorf("%w: %v", ErrClientUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("api unexpected status", "mode", mode, "status", resp.StatusCode)
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.log.Debug("api request complete", "mode", mode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

type addResponse struct {
	Status bool     `json:"status"`
	NzoIDs []string `json:"nzo_ids"`
	Error  string   `json:"error"`
}

type versionResponse struct {
	Version string `json:"version"`
	Error   string `json:"error"`
}

// isAPIKeyError checks if the error message indicates an invalid API key.
func isAPIKeyError(errMsg string) bool {
	lower := strings.ToLower(errMsg)
	return strings.Contains(lower, "api key") || strings.Contains(lower, "apikey")
}
