package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "snatch", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Set required env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("NZBGEEK_API_KEY", "test-nzbgeek-key")
	t.Setenv("JACKETT_API_KEY", "test-jackett-key")
	t.Setenv("SNATCH_DB", "")

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked for indexers
	nzbgeek, ok := cfg.Indexers["nzbgeek"]
	if !ok {
		t.Fatalf("expected nzbgeek indexer to be configured")
	}
	if nzbgeek.APIKey != "test-nzbgeek-key" {
		t.Errorf("expected nzbgeek key substituted, got %q", nzbgeek.APIKey)
	}
	if cfg.Indexers["jackett"].Protocol != "torrent" {
		t.Errorf("expected jackett to be a torrent indexer, got %q", cfg.Indexers["jackett"].Protocol)
	}

	// 5. Verify defaults applied
	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("expected default database path, got %q", cfg.Database.Path)
	}
	if cfg.Cache.RecentWindow != DefaultRecentWindow {
		t.Errorf("expected recent window %s, got %s", DefaultRecentWindow, cfg.Cache.RecentWindow)
	}
}
