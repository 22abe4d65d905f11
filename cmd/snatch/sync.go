package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/metadata"
	"github.com/vmunix/snatch/pkg/tvdb"
)

// ErrNoTVDBKey is returned by commands that need TheTVDB when tvdb.api_key is unset.
var ErrNoTVDBKey = errors.New("tvdb.api_key is not configured")

var episodesSyncCmd = &cobra.Command{
	Use:   "sync <series>...",
	Short: "Fetch missing episodes from TheTVDB",
	Long: `Fetch the episode list of each series from TheTVDB and add the
episodes missing from the catalog. Series need a TVDB ID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEpisodesSync,
}

func init() {
	episodesCmd.AddCommand(episodesSyncCmd)
}

func (a *app) tvdbClient() (*tvdb.Client, error) {
	if a.cfg.TVDB.APIKey == "" {
		return nil, ErrNoTVDBKey
	}
	opts := []tvdb.Option{tvdb.WithLogger(a.log)}
	if a.cfg.TVDB.URL != "" {
		opts = append(opts, tvdb.WithBaseURL(a.cfg.TVDB.URL))
	}
	return tvdb.New(a.cfg.TVDB.APIKey, opts...), nil
}

func runEpisodesSync(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	client, err := a.tvdbClient()
	if err != nil {
		return err
	}
	syncer := metadata.NewSyncer(client, a.store, a.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, ref := range args {
		series, err := findSeries(a.store, ref)
		if err != nil {
			return err
		}
		added, err := syncer.Sync(ctx, series)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: added %d episode(s)\n", series.Title, added)
	}
	return nil
}
