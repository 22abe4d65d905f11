package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write test config")
	return path
}

func TestLoad_AllFields(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[database]
path = "/var/lib/snatch/snatch.db"

[cache]
ttl = "24h"
recent_window = "90s"

[tvdb]
api_key = "tvdb-key"

[indexers.nzbgeek]
url = "https://api.nzbgeek.info"
api_key = "geek-key"
protocol = "usenet"
categories = [5030, 5040]

[indexers.jackett]
url = "http://localhost:9117/torznab"
api_key = "jackett-key"
protocol = "torrent"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/snatch/snatch.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 90*time.Second, cfg.Cache.RecentWindow)
	assert.Equal(t, "tvdb-key", cfg.TVDB.APIKey)

	require.Len(t, cfg.Indexers, 2)
	assert.Equal(t, []string{"jackett", "nzbgeek"}, cfg.Indexers.Names())

	geek := cfg.Indexers["nzbgeek"]
	assert.Equal(t, "https://api.nzbgeek.info", geek.URL)
	assert.Equal(t, "geek-key", geek.APIKey)
	assert.Equal(t, "usenet", geek.Protocol)
	assert.Equal(t, []int{5030, 5040}, geek.Categories)

	assert.Equal(t, "torrent", cfg.Indexers["jackett"].Protocol)
	assert.Empty(t, cfg.Indexers["jackett"].Categories)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[indexers.geek]
url = "https://api.nzbgeek.info"
api_key = "key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultRecentWindow, cfg.Cache.RecentWindow)
	assert.Equal(t, "usenet", cfg.Indexers["geek"].Protocol, "protocol defaults to usenet")
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Indexers)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
}

func TestIndexersConfig_Names_Empty(t *testing.T) {
	var ic IndexersConfig
	assert.Empty(t, ic.Names())
}
