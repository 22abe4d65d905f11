package tvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTVDB serves /login and whatever routes are given, requiring a bearer token.
type fakeTVDB struct {
	t      *testing.T
	token  string
	logins atomic.Int32
	calls  atomic.Int32
	routes map[string]http.HandlerFunc
}

func (f *fakeTVDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/login" {
		f.logins.Add(1)
		var body struct {
			APIKey string `json:"apikey"`
		}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		if body.APIKey != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"data": map[string]string{"token": f.token}})
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.calls.Add(1)
	if h, ok := f.routes[r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

func newFake(t *testing.T, routes map[string]http.HandlerFunc) (*fakeTVDB, *httptest.Server) {
	t.Helper()
	f := &fakeTVDB{t: t, token: "tok-1", routes: routes}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func seriesRoute(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"data": map[string]any{
		"id": 81189, "name": "Breaking Bad", "firstAired": "2008-01-20",
		"status": map[string]string{"name": "Ended"},
	}})
}

func TestClient_Series(t *testing.T) {
	f, srv := newFake(t, map[string]http.HandlerFunc{"/series/81189": seriesRoute})
	c := New("good-key", WithBaseURL(srv.URL))

	s, err := c.Series(context.Background(), 81189)
	require.NoError(t, err)
	assert.Equal(t, &Series{ID: 81189, Name: "Breaking Bad", Year: 2008, Status: "Ended"}, s)
	assert.Equal(t, int32(1), f.logins.Load())

	// Second call is served from cache.
	_, err = c.Series(context.Background(), 81189)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestClient_Series_NotFound(t *testing.T) {
	_, srv := newFake(t, nil)
	c := New("good-key", WithBaseURL(srv.URL))

	_, err := c.Series(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_BadAPIKey(t *testing.T) {
	_, srv := newFake(t, nil)
	c := New("bad-key", WithBaseURL(srv.URL))

	_, err := c.Series(context.Background(), 81189)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_RefreshesExpiredToken(t *testing.T) {
	f, srv := newFake(t, map[string]http.HandlerFunc{"/series/81189": seriesRoute})
	c := New("good-key", WithBaseURL(srv.URL), WithCacheTTL(0))

	_, err := c.Series(context.Background(), 81189)
	require.NoError(t, err)

	f.token = "tok-2"
	_, err = c.Series(context.Background(), 81189)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.logins.Load())
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestClient_Episodes_Pagination(t *testing.T) {
	f, srv := newFake(t, map[string]http.HandlerFunc{
		"/series/81189/episodes/default": func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			var next any
			eps := []map[string]any{}
			switch page {
			case "0":
				next = "https://api4.thetvdb.com/v4/series/81189/episodes/default?page=1"
				eps = append(eps,
					map[string]any{"id": 1, "seasonNumber": 1, "number": 1, "name": "Pilot", "aired": "2008-01-20"},
					map[string]any{"id": 2, "seasonNumber": 1, "number": 2, "name": "Cat's in the Bag...", "aired": ""},
				)
			case "1":
				eps = append(eps, map[string]any{"id": 3, "seasonNumber": 0, "number": 1, "name": "Special", "aired": "2009-02-17"})
			default:
				t.Errorf("unexpected page %s", page)
			}
			writeJSON(w, map[string]any{
				"data":  map[string]any{"episodes": eps},
				"links": map[string]any{"next": next},
			})
		},
	})
	c := New("good-key", WithBaseURL(srv.URL))

	eps, err := c.Episodes(context.Background(), 81189)
	require.NoError(t, err)
	require.Len(t, eps, 3)

	aired := time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Episode{ID: 1, Season: 1, Number: 1, Name: "Pilot", Aired: &aired}, eps[0])
	assert.Nil(t, eps[1].Aired)
	assert.Equal(t, 0, eps[2].Season)
	assert.Equal(t, int32(2), f.calls.Load())

	// Cached copies are independent.
	eps[0].Name = "changed"
	again, err := c.Episodes(context.Background(), 81189)
	require.NoError(t, err)
	assert.Equal(t, "Pilot", again[0].Name)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestClient_RateLimited(t *testing.T) {
	_, srv := newFake(t, map[string]http.HandlerFunc{
		"/series/5": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
	})
	c := New("good-key", WithBaseURL(srv.URL))

	_, err := c.Series(context.Background(), 5)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), fmt.Sprint(5))
}
