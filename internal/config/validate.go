// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/vmunix/snatch/pkg/newznab"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Sprintf("cache.ttl: must not be negative, got %s", c.Cache.TTL))
	}
	if c.Cache.RecentWindow < 0 {
		errs = append(errs, fmt.Sprintf("cache.recent_window: must not be negative, got %s", c.Cache.RecentWindow))
	}

	if c.TVDB.URL != "" {
		if u, err := url.Parse(c.TVDB.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tvdb.url: not an absolute URL: %q", c.TVDB.URL))
		}
	}

	if c.SABnzbd.URL != "" {
		if u, err := url.Parse(c.SABnzbd.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("sabnzbd.url: not an absolute URL: %q", c.SABnzbd.URL))
		}
		if c.SABnzbd.APIKey == "" {
			errs = append(errs, "sabnzbd.api_key: required when sabnzbd.url is set")
		}
	}

	for _, name := range c.Indexers.Names() {
		indexer := c.Indexers[name]
		if indexer == nil {
			errs = append(errs, fmt.Sprintf("indexers.%s: empty section", name))
			continue
		}
		if indexer.URL == "" {
			errs = append(errs, fmt.Sprintf("indexers.%s.url: required", name))
		} else if u, err := url.Parse(indexer.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("indexers.%s.url: not an absolute URL: %q", name, indexer.URL))
		}
		if indexer.APIKey == "" {
			errs = append(errs, fmt.Sprintf("indexers.%s.api_key: required", name))
		}
		if _, err := newznab.ParseProtocol(indexer.Protocol); err != nil {
			errs = append(errs, fmt.Sprintf("indexers.%s.protocol: must be usenet or torrent; got %q", name, indexer.Protocol))
		}
		for _, cat := range indexer.Categories {
			if cat <= 0 {
				errs = append(errs, fmt.Sprintf("indexers.%s.categories: invalid category %d", name, cat))
				break
			}
		}
	}

	return errs
}
