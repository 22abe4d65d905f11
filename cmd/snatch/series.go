package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/library"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage tracked series",
}

var seriesAddCmd = &cobra.Command{
	Use:   "add [flags] <title>",
	Short: "Add a series to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesAdd,
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked series",
	Args:  cobra.NoArgs,
	RunE:  runSeriesList,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(seriesAddCmd)
	seriesCmd.AddCommand(seriesListCmd)
	seriesAddCmd.Flags().Int("year", 0, "First air year")
	seriesAddCmd.Flags().Int64("tvdb", 0, "TheTVDB series ID (fills --year from TheTVDB when tvdb.api_key is set)")
}

func runSeriesAdd(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	tvdb, _ := cmd.Flags().GetInt64("tvdb")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s := &library.Series{Title: args[0], Year: year}
	if tvdb > 0 {
		s.TVDBID = &tvdb
		if year == 0 {
			s.Year = a.lookupYear(cmd.Context(), tvdb)
		}
	}
	if err := a.store.AddSeries(s); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			return fmt.Errorf("series with TVDB ID %d already exists", tvdb)
		}
		return err
	}
	a.log.Info("series added", "id", s.ID, "title", s.Title)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), s)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added series %d: %s\n", s.ID, s.Title)
	return nil
}

// lookupYear asks TheTVDB for the first air year, returning 0 when unavailable.
func (a *app) lookupYear(ctx context.Context, id int64) int {
	client, err := a.tvdbClient()
	if err != nil {
		return 0
	}
	remote, err := client.Series(ctx, id)
	if err != nil {
		a.log.Warn("tvdb lookup failed", "tvdb_id", id, "error", err)
		return 0
	}
	return remote.Year
}

func runSeriesList(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	all, err := a.store.ListSeries()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), all)
	}
	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No series tracked")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tTVDB")
	for _, s := range all {
		tvdb := "-"
		if s.TVDBID != nil {
			tvdb = strconv.FormatInt(*s.TVDBID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", s.ID, s.Title, s.Year, tvdb)
	}
	return tw.Flush()
}

// findSeries resolves ref as a numeric series ID, falling back to a fuzzy title match.
func findSeries(store *library.Store, ref string) (*library.Series, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return store.GetSeries(id)
	}
	all, err := store.ListSeries()
	if err != nil {
		return nil, err
	}
	m, err := library.MatchSeries(ref, all)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", ref, err)
	}
	return m.Series, nil
}
