package download

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeJSON is a helper that writes a JSON response, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

func TestSABnzbdClient_Add(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api", r.URL.Path)
		assert.Equal(t, "addurl", q.Get("mode"))
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "json", q.Get("output"))
		assert.Equal(t, "http://example.com/test.nzb", q.Get("name"))
		assert.Equal(t, "The.Office.US.S01E02.720p.HDTV.x264-GRP", q.Get("nzbname"))
		assert.Equal(t, "tv", q.Get("cat"))

		writeJSON(t, w, map[string]any{"status": true, "nzo_ids": []string{"nzo_abc123"}})
	}))
	defer server.Close()

	client := NewSABnzbdClient(server.URL+"/", "test-key", "tv", testLogger())
	id, err := client.Add(context.Background(), "http://example.com/test.nzb", "The.Office.US.S01E02.720p.HDTV.x264-GRP")
	require.NoError(t, err)
	assert.Equal(t, "nzo_abc123", id)
}

func TestSABnzbdClient_Add_NoCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("cat"))
		writeJSON(t, w, map[string]any{"status": true, "nzo_ids": []string{"nzo_1"}})
	}))
	defer server.Close()

	client := NewSABnzbdClient(server.URL, "test-key", "", testLogger())
	_, err := client.Add(context.Background(), "http://example.com/test.nzb", "")
	require.NoError(t, err)
}

func TestSABnzbdClient_Add_Errors(t *testing.T) {
	tests := []struct {
		name    string
		resp    map[string]any
		wantErr error
		wantMsg string
	}{
		{"invalid key", map[string]any{"status": false, "error": "API Key Incorrect"}, ErrInvalidAPIKey, ""},
		{"rejected", map[string]any{"status": false, "error": "bad url"}, nil, "sabnzbd add failed: bad url"},
		{"no id", map[string]any{"status": true, "nzo_ids": []string{}}, nil, "no nzo_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.resp)
			}))
			defer server.Close()

			client := NewSABnzbdClient(server.URL, "key", "", testLogger())
			_, err := client.Add(context.Background(), "http://example.com/test.nzb", "x")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSABnzbdClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewSABnzbdClient(server.URL, "test-key", "", testLogger())
	_, err := client.Add(context.Background(), "http://example.com/test.nzb", "x")
	assert.ErrorIs(t, err, ErrClientUnavailable)
}

func TestSABnzbdClient_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewSABnzbdClient(server.URL, "test-key", "", testLogger())
	_, err := client.Version(context.Background())
	assert.ErrorContains(t, err, "unexpected status: 502")
}

func TestSABnzbdClient_Version(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "version", r.URL.Query().Get("mode"))
		writeJSON(t, w, map[string]any{"version": "4.3.2"})
	}))
	defer server.Close()

	client := NewSABnzbdClient(server.URL, "test-key", "", testLogger())
	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.3.2", v)
}

func TestIsAPIKeyError(t *testing.T) {
	assert.True(t, isAPIKeyError("API Key Incorrect"))
	assert.True(t, isAPIKeyError("apikey required"))
	assert.False(t, isAPIKeyError("disk full"))
}
