// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	TVDB     TVDBConfig     `toml:"tvdb"`
	SABnzbd  SABnzbdConfig  `toml:"sabnzbd"`
	Indexers IndexersConfig `toml:"indexers"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CacheConfig controls the search result cache.
type CacheConfig struct {
	// TTL is how long results are kept before `cache prune` removes them.
	TTL time.Duration `toml:"ttl"`
	// RecentWindow suppresses re-inserting the same result within this window.
	RecentWindow time.Duration `toml:"recent_window"`
}

// TVDBConfig holds credentials for episode catalog sync. An empty APIKey
// disables `episodes sync`. URL overrides the public API endpoint.
type TVDBConfig struct {
	APIKey string `toml:"api_key"`
	URL    string `toml:"url"`
}

// SABnzbdConfig is the download client used by `grab`. Leave URL empty to disable.
type SABnzbdConfig struct {
	URL      string `toml:"url"`
	APIKey   string `toml:"api_key"`
	Category string `toml:"category"`
}

// IndexersConfig maps indexer name to its settings.
type IndexersConfig map[string]*IndexerConfig

// IndexerConfig is one Newznab or Torznab endpoint.
type IndexerConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Protocol   string `toml:"protocol"`
	Categories []int  `toml:"categories"`
}

// Names returns the configured indexer names in sorted order.
func (ic IndexersConfig) Names() []string {
	names := make([]string, 0, len(ic))
	for name := range ic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultDatabasePath = "./data/snatch.db"
	DefaultCacheTTL     = 7 * 24 * time.Hour
	DefaultRecentWindow = 10 * time.Minute
)

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation failures are returned as *ConfigError.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.RecentWindow == 0 {
		c.Cache.RecentWindow = DefaultRecentWindow
	}
	for _, ic := range c.Indexers {
		if ic == nil {
			continue
		}
		if ic.Protocol == "" {
			ic.Protocol = "usenet"
		}
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces environment references and reports the ones that
// could not be resolved. Unresolved references are left in place. Comment
// lines are not expanded.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = expandLine(line, &missing)
	}
	return strings.Join(lines, "\n"), missing
}

func expandLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				*missing = append(*missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		}

		if !ok {
			*missing = append(*missing, name)
			return match
		}
		return value
	})
}
