package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/config"
	"github.com/vmunix/snatch/internal/library"
	"github.com/vmunix/snatch/internal/resultcache"
	"github.com/vmunix/snatch/internal/search"
	"github.com/vmunix/snatch/pkg/newznab"
	"github.com/vmunix/snatch/pkg/quality"
	"github.com/vmunix/snatch/pkg/release"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <series>",
	Short: "Search indexers for episodes of a series",
	Long: `Search every configured indexer for episodes of a tracked series.
<series> is a series ID or a title, matched fuzzily against the catalog.

Each release is resolved to the catalog episodes it contains, using the season
and episodes in its name unless --actual-season/--actual-episodes override them.

Examples:
  snatch search "Breaking Bad" --season 2 --episode 3
  snatch search 4 --season 1 --verbose
  snatch search "Severance" --season 2 --quality "1080p webdl,2160p webdl"
  snatch search "The Office" --season 3 --episode 14 --actual-season 3 --actual-episodes 14,15`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int("season", 0, "Season to search (required)")
	searchCmd.Flags().IntSlice("episode", nil, "Episode number(s); omit for the whole season")
	searchCmd.Flags().String("query", "", "Override the search text (defaults to the series title)")
	searchCmd.Flags().String("type", string(search.SearchManual), "Search type: manual, forced, daily, proper, backlog")
	searchCmd.Flags().String("actual-season", "", "Season the releases actually contain")
	searchCmd.Flags().IntSlice("actual-episodes", nil, "Episodes the releases actually contain")
	searchCmd.Flags().StringSlice("quality", nil, `Accepted qualities, e.g. "720p hdtv,1080p webdl"`)
	searchCmd.Flags().Bool("no-cache", false, "Do not record results in the result cache")
	searchCmd.Flags().BoolP("verbose", "v", false, "Print full result descriptors")
	_ = searchCmd.MarkFlagRequired("season")
}

// overrides replace what release names say about their season and episodes.
type overrides struct {
	season   string
	episodes []int
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	season, _ := cmd.Flags().GetInt("season")
	episodeNums, _ := cmd.Flags().GetIntSlice("episode")
	text, _ := cmd.Flags().GetString("query")
	searchType, _ := cmd.Flags().GetString("type")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	verbose, _ := cmd.Flags().GetBool("verbose")
	qualities, _ := cmd.Flags().GetStringSlice("quality")
	var o overrides
	o.season, _ = cmd.Flags().GetString("actual-season")
	o.episodes, _ = cmd.Flags().GetIntSlice("actual-episodes")

	st, err := parseSearchType(searchType)
	if err != nil {
		return err
	}
	profile, err := qualityProfile(qualities)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	series, err := findSeries(a.store, args[0])
	if err != nil {
		return err
	}
	episodes, err := wantedEpisodes(series, season, episodeNums)
	if err != nil {
		return err
	}

	indexers, err := buildIndexers(a.cfg.Indexers, a.log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := search.NewIndexerPool(indexers, a.log)
	results, errs := pool.Search(ctx, search.Query{Episodes: episodes, Text: text, Type: st})

	resolved := make([]*search.Result, 0, len(results))
	for _, r := range results {
		if profile != quality.None && !profile.Has(r.Quality()) {
			a.log.Debug("skipping unwanted quality", "release", fmt.Sprintf("%q", r.Name), "quality", r.Quality().String())
			continue
		}
		if err := resolveResult(r, o); err != nil {
			a.log.Warn("skipping unresolved result", "release", fmt.Sprintf("%q", r.Name), "error", err)
			continue
		}
		resolved = append(resolved, r)
	}

	if !noCache {
		cache := resultcache.New(a.db, a.cfg.Cache.RecentWindow, a.log)
		added := 0
		for _, r := range resolved {
			ok, err := r.AddToCache(ctx, cache)
			if err != nil {
				a.log.Warn("cache add failed", "release", fmt.Sprintf("%q", r.Name), "error", err)
				continue
			}
			if ok {
				added++
			}
		}
		a.log.Debug("results cached", "added", added, "total", len(resolved))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, toJSONResults(resolved))
	}
	printResults(out, series, resolved, verbose)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		fmt.Fprintf(out, "\nWarnings: %s\n", strings.Join(msgs, "; "))
	}
	return nil
}

func parseSearchType(s string) (search.SearchType, error) {
	switch st := search.SearchType(strings.ToLower(s)); st {
	case search.SearchManual, search.SearchForced, search.SearchDaily, search.SearchProper, search.SearchBacklog:
		return st, nil
	}
	return "", fmt.Errorf("unknown search type %q", s)
}

// qualityProfile combines quality specs into one mask. No specs means None,
// which accepts everything.
func qualityProfile(specs []string) (quality.Code, error) {
	profile := quality.None
	for _, spec := range specs {
		q := quality.ParseSpec(spec)
		if q == quality.Unknown && !strings.EqualFold(strings.TrimSpace(spec), "unknown") {
			return quality.None, fmt.Errorf("unrecognized quality %q", spec)
		}
		profile |= q
	}
	return profile, nil
}

// wantedEpisodes looks up the requested episodes, or the whole season when none are given.
func wantedEpisodes(series *library.Series, season int, numbers []int) ([]*library.Episode, error) {
	if len(numbers) == 0 {
		eps, err := series.GetAllEpisodes(season)
		if err != nil {
			return nil, err
		}
		if len(eps) == 0 {
			return nil, fmt.Errorf("%s season %d: %w", series.Title, season, library.ErrNotFound)
		}
		return eps, nil
	}
	eps := make([]*library.Episode, 0, len(numbers))
	for _, n := range numbers {
		ep, err := series.GetEpisode(season, n)
		if err != nil {
			return nil, fmt.Errorf("%s S%02dE%02d: %w", series.Title, season, n, err)
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

func buildIndexers(cfg config.IndexersConfig, log *slog.Logger) ([]search.Indexer, error) {
	indexers := make([]search.Indexer, 0, len(cfg))
	for _, name := range cfg.Names() {
		ic := cfg[name]
		protocol, err := newznab.ParseProtocol(ic.Protocol)
		if err != nil {
			return nil, fmt.Errorf("indexer %s: %w", name, err)
		}
		client := newznab.NewClient(name, ic.URL, ic.APIKey, protocol, log).SetCategories(ic.Categories)
		indexers = append(indexers, client)
	}
	if len(indexers) == 0 {
		return nil, search.ErrNoIndexers
	}
	return indexers, nil
}

// resolveResult points r at the catalog episodes it contains. Overrides win over
// the season and episodes parsed from the release name. Results with neither
// keep the episodes they were searched for.
func resolveResult(r *search.Result, o overrides) error {
	info, _ := r.ParsedResult.(*release.Info)

	switch {
	case o.season != "":
		if err := r.SetActualSeason(o.season); err != nil {
			return err
		}
	case info != nil && info.Season > 0:
		if err := r.SetActualSeason(info.Season); err != nil {
			return err
		}
	default:
		return nil
	}

	switch {
	case len(o.episodes) > 0:
		r.SetActualEpisodes(o.episodes)
	case info != nil:
		r.SetActualEpisodes(info.Episodes)
	}

	_, err := r.ResolveEpisodes()
	return err
}

type resultJSON struct {
	Provider     string     `json:"provider"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Kind         string     `json:"kind"`
	Quality      string     `json:"quality"`
	Size         int64      `json:"size"`
	Seeders      int        `json:"seeders"`
	Leechers     int        `json:"leechers"`
	Hash         string     `json:"hash,omitempty"`
	PubDate      *time.Time `json:"pub_date,omitempty"`
	ReleaseGroup string     `json:"release_group,omitempty"`
	ProperTags   []string   `json:"proper_tags,omitempty"`
	Version      int        `json:"version"`
	Episodes     []string   `json:"episodes"`
	FileName     string     `json:"file_name"`
}

func toJSONResults(results []*search.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		eps := r.Episodes()
		names := make([]string, len(eps))
		for i, ep := range eps {
			names[i] = ep.PrettyName()
		}
		provider := ""
		if r.Provider != nil {
			provider = r.Provider.Name()
		}
		out = append(out, resultJSON{
			Provider:     provider,
			Name:         r.Name,
			URL:          r.URL,
			Kind:         string(r.Kind),
			Quality:      r.Quality().String(),
			Size:         r.Size(),
			Seeders:      r.Seeders,
			Leechers:     r.Leechers,
			Hash:         r.Hash,
			PubDate:      r.PubDate,
			ReleaseGroup: r.ReleaseGroup,
			ProperTags:   r.ProperTags(),
			Version:      r.Version(),
			Episodes:     names,
			FileName:     r.FileName(),
		})
	}
	return out
}

func printResults(w io.Writer, series *library.Series, results []*search.Result, verbose bool) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No releases found for %s\n", series.Title)
		return
	}

	if verbose {
		for i, r := range results {
			fmt.Fprintf(w, "%2d %#v\n%s\n", i+1, r, r)
		}
		return
	}

	fmt.Fprintf(w, "Found %d releases for %s:\n\n", len(results), series.Title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRELEASE\tSIZE\tQUALITY\tINDEXER\tEPISODES")
	for i, r := range results {
		title := r.Name
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		size := "?"
		if r.Size() >= 0 {
			size = formatSize(r.Size())
		}
		indexer := ""
		if r.Provider != nil {
			indexer = r.Provider.Name()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, title, size, r.Quality(), indexer, episodeCodes(r.Episodes()))
	}
	_ = tw.Flush()
}

func episodeCodes(eps []*library.Episode) string {
	codes := make([]string, len(eps))
	for i, ep := range eps {
		codes[i] = fmt.Sprintf("S%02dE%02d", ep.Season, ep.Episode)
	}
	return strings.Join(codes, ",")
}
