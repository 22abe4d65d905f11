package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/library"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "Manage the episodes of a series",
}

var episodesAddCmd = &cobra.Command{
	Use:   "add [flags] <series> <season> <episode>...",
	Short: "Add episodes to a series",
	Long: `Add episodes to a series. <series> is an ID or a title.

Examples:
  snatch episodes add "Breaking Bad" 1 1 2 3
  snatch episodes add 4 2 5 --title "Breakage" --aired 2009-04-05`,
	Args: cobra.MinimumNArgs(3),
	RunE: runEpisodesAdd,
}

var episodesListCmd = &cobra.Command{
	Use:   "list <series> <season>",
	Short: "List the episodes of a season",
	Args:  cobra.ExactArgs(2),
	RunE:  runEpisodesList,
}

func init() {
	rootCmd.AddCommand(episodesCmd)
	episodesCmd.AddCommand(episodesAddCmd)
	episodesCmd.AddCommand(episodesListCmd)
	episodesAddCmd.Flags().String("title", "", "Episode title (single episode only)")
	episodesAddCmd.Flags().String("aired", "", "Air date as YYYY-MM-DD (single episode only)")
}

func runEpisodesAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	aired, _ := cmd.Flags().GetString("aired")

	season, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[1])
	}
	numbers, err := parseInts(args[2:])
	if err != nil {
		return err
	}
	if len(numbers) > 1 && (title != "" || aired != "") {
		return fmt.Errorf("--title and --aired apply to a single episode")
	}

	var airDate *time.Time
	if aired != "" {
		d, err := time.Parse(time.DateOnly, aired)
		if err != nil {
			return fmt.Errorf("invalid air date %q: %w", aired, err)
		}
		airDate = &d
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

	eps := make([]*library.Episode, 0, len(numbers))
	for _, n := range numbers {
		eps = append(eps, &library.Episode{SeriesID: series.ID, Season: season, Episode: n, Title: title, AirDate: airDate})
	}
	added, err := a.store.BulkAddEpisodes(eps)
	if err != nil {
		return err
	}
	a.log.Info("episodes added", "series", series.Title, "season", season, "added", added, "skipped", len(eps)-added)

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d episode(s) to %s season %d\n", added, series.Title, season)
	return nil
}

func runEpisodesList(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[1])
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
	eps, err := series.GetAllEpisodes(season)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), eps)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEPISODE\tTITLE\tAIRED")
	for _, ep := range eps {
		aired := "-"
		if ep.AirDate != nil {
			aired = ep.AirDate.Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", ep.ID, ep.PrettyName(), ep.Title, aired)
	}
	return tw.Flush()
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid episode number %q", s)
		}
		out = append(out, n)
	}
	return out, nil
}
