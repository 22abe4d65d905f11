package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/resultcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached results older than the cache TTL",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var cacheLookupCmd = &cobra.Command{
	Use:   "lookup <provider> <release-name>",
	Short: "Show cached results for a release",
	Args:  cobra.ExactArgs(2),
	RunE:  runCacheLookup,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheLookupCmd)
	cachePruneCmd.Flags().Duration("older-than", 0, "Override the configured cache.ttl")
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if olderThan <= 0 {
		olderThan = a.cfg.Cache.TTL
	}
	n, err := resultcache.New(a.db, a.cfg.Cache.RecentWindow, a.log).Prune(context.Background(), olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached result(s) older than %s\n", n, olderThan)
	return nil
}

func runCacheLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	entries, err := resultcache.New(a.db, a.cfg.Cache.RecentWindow, a.log).Lookup(context.Background(), args[0], args[1])
	if errors.Is(err, resultcache.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not cached")
		return nil
	}
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDED\tSIZE\tSEEDERS\tURL")
	for _, e := range entries {
		size := "?"
		if e.Size >= 0 {
			size = formatSize(e.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.AddedAt.Format(time.DateTime), size, e.Seeders, e.URL)
	}
	return tw.Flush()
}
