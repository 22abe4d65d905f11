// Package release parses scene-style TV release names into their parts.
package release

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/snatch/pkg/quality"
)

// Info contains parsed information from a release name.
type Info struct {
	Title      string             `json:"title"`
	Season     int                `json:"season"`
	Episodes   []int              `json:"episodes,omitempty"`
	Resolution quality.Resolution `json:"resolution"`
	Source     quality.Source     `json:"source"`
	Group      string             `json:"group,omitempty"`
	// ProperTags holds PROPER, REPACK, REAL and RERIP markers in the order they appear.
	ProperTags []string `json:"proper_tags,omitempty"`
	// Version is the anime-style release version (v2, v3), -1 when absent.
	Version    int    `json:"version"`
	CleanTitle string `json:"clean_title"`
}

// Quality composes the quality code from the parsed resolution and source.
func (i *Info) Quality() quality.Code {
	return quality.FromResolutionSource(i.Resolution, i.Source)
}

// IsProper reports whether the release replaces an earlier one.
func (i *Info) IsProper() bool {
	return len(i.ProperTags) > 0
}

var (
	episodeRe    = regexp.MustCompile(`(?i)\bS(\d{1,2})((?:[ -]?E\d{1,3})+)`)
	episodeNumRe = regexp.MustCompile(`(?i)E(\d{1,3})`)
	crossRe      = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	seasonPackRe = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)
	resolutionRe = regexp.MustCompile(`(?i)\b(4320p|8k|2160p|4k|uhd|1080p|720p|576p|480p|sdtv)\b`)
	properRe     = regexp.MustCompile(`(?i)\b(proper|repack|real|rerip)\b`)
	versionRe    = regexp.MustCompile(`(?i)(?:^|[\s\d])v(\d{1,2})\b`)
	yearRe       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	bracketRe    = regexp.MustCompile(`^\[([^\]]+)\]`)
	extensionRe  = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|m4v|ts|nzb|torrent)$`)
	suffixRe     = regexp.MustCompile(`\[[^\]]*\]$`)
)

var sources = []struct {
	re  *regexp.Regexp
	src quality.Source
}{
	{regexp.MustCompile(`(?i)\b(blu-?ray|bdrip|brrip|bd)\b`), quality.SourceBluRay},
	{regexp.MustCompile(`(?i)\bweb-?rip\b`), quality.SourceWEBRip},
	{regexp.MustCompile(`(?i)\b(web-?dl|web)\b`), quality.SourceWEBDL},
	{regexp.MustCompile(`(?i)\braw-?hd\b`), quality.SourceRawHDTV},
	{regexp.MustCompile(`(?i)\b(hdtv|pdtv|dsr|tvrip|sdtv)\b`), quality.SourceHDTV},
	{regexp.MustCompile(`(?i)\b(dvdrip|dvd)\b`), quality.SourceDVD},
}

// Parse extracts information from a release name. Parts it cannot find are left at
// their zero value, except Version which is -1.
func Parse(name string) *Info {
	info := &Info{Version: -1}

	raw := strings.TrimSpace(name)
	raw = extensionRe.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(suffixRe.ReplaceAllString(raw, ""))

	if m := bracketRe.FindStringSubmatch(raw); m != nil {
		info.Group = strings.TrimSpace(m[1])
		raw = strings.TrimSpace(raw[len(m[0]):])
	} else {
		info.Group = trailingGroup(raw)
	}

	s := strings.NewReplacer(".", " ", "_", " ").Replace(raw)

	titleEnd, tailStart := len(s), 0
	if loc := episodeRe.FindStringSubmatchIndex(s); loc != nil {
		info.Season, _ = strconv.Atoi(s[loc[2]:loc[3]])
		for _, m := range episodeNumRe.FindAllStringSubmatch(s[loc[4]:loc[5]], -1) {
			n, _ := strconv.Atoi(m[1])
			info.Episodes = append(info.Episodes, n)
		}
		titleEnd, tailStart = loc[0], loc[1]
	} else if loc := crossRe.FindStringSubmatchIndex(s); loc != nil {
		info.Season, _ = strconv.Atoi(s[loc[2]:loc[3]])
		n, _ := strconv.Atoi(s[loc[4]:loc[5]])
		info.Episodes = []int{n}
		titleEnd, tailStart = loc[0], loc[1]
	} else if loc := seasonPackRe.FindStringSubmatchIndex(s); loc != nil {
		info.Season, _ = strconv.Atoi(s[loc[2]:loc[3]])
		titleEnd, tailStart = loc[0], loc[1]
	} else {
		for _, re := range []*regexp.Regexp{yearRe, resolutionRe} {
			if loc := re.FindStringIndex(s); loc != nil && loc[0] > 0 && loc[0] < titleEnd {
				titleEnd = loc[0]
			}
		}
		tailStart = titleEnd
	}

	info.Title = strings.Trim(strings.TrimSpace(s[:titleEnd]), " -")
	info.CleanTitle = CleanTitle(info.Title)

	tail := s[tailStart:]
	info.Resolution = parseResolution(tail)
	info.Source = parseSource(tail)
	if info.Resolution == quality.ResolutionUnknown &&
		(info.Source == quality.SourceHDTV || info.Source == quality.SourceDVD) {
		info.Resolution = quality.ResolutionSD
	}

	for _, m := range properRe.FindAllString(tail, -1) {
		info.ProperTags = append(info.ProperTags, strings.ToUpper(m))
	}
	if info.ProperTags == nil {
		info.ProperTags = []string{}
	}
	if m := versionRe.FindStringSubmatch(tail); m != nil {
		info.Version, _ = strconv.Atoi(m[1])
	}

	return info
}

// trailingGroup returns the text after the last hyphen when it looks like a group tag.
func trailingGroup(name string) string {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	group := name[idx+1:]
	if strings.ContainsAny(group, " .") {
		return ""
	}
	// "WEB-DL" without a group tag
	if strings.EqualFold(group, "dl") {
		return ""
	}
	return group
}

func parseResolution(s string) quality.Resolution {
	m := resolutionRe.FindString(s)
	switch strings.ToLower(m) {
	case "4320p", "8k":
		return quality.Resolution4320p
	case "2160p", "4k", "uhd":
		return quality.Resolution2160p
	case "1080p":
		return quality.Resolution1080p
	case "720p":
		return quality.Resolution720p
	case "576p", "480p", "sdtv":
		return quality.ResolutionSD
	default:
		return quality.ResolutionUnknown
	}
}

func parseSource(s string) quality.Source {
	for _, c := range sources {
		if c.re.MatchString(s) {
			return c.src
		}
	}
	return quality.SourceUnknown
}
