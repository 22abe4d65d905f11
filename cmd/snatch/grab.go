package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/snatch/internal/download"
	"github.com/vmunix/snatch/internal/resultcache"
)

var (
	// ErrNoDownloader is returned by grab when no [sabnzbd] section is configured.
	ErrNoDownloader = errors.New("sabnzbd.url is not configured")
	// ErrNotNZB is returned when a cached result points at a torrent.
	ErrNotNZB = errors.New("result is not an nzb")
)

var grabCmd = &cobra.Command{
	Use:   "grab <provider> <release-name>",
	Short: "Send a cached result to SABnzbd",
	Long: `Send the newest cached result a provider returned under <release-name>
to SABnzbd. Run a search first to populate the cache.`,
	Args: cobra.ExactArgs(2),
	RunE: runGrab,
}

func init() {
	rootCmd.AddCommand(grabCmd)
}

func runGrab(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.cfg.SABnzbd.URL == "" {
		return ErrNoDownloader
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := resultcache.New(a.db, a.cfg.Cache.RecentWindow, a.log).Lookup(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	e := entries[0]
	if isTorrentURL(e.URL) {
		return fmt.Errorf("%s: %w", e.Name, ErrNotNZB)
	}

	sab := download.NewSABnzbdClient(a.cfg.SABnzbd.URL, a.cfg.SABnzbd.APIKey, a.cfg.SABnzbd.Category, a.log)
	version, err := sab.Version(ctx)
	if err != nil {
		return fmt.Errorf("sabnzbd: %w", err)
	}
	a.log.Debug("sabnzbd reachable", "version", version)

	id, err := sab.Add(ctx, e.URL, e.Name)
	if err != nil {
		return fmt.Errorf("grab %s: %w", e.Name, err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"name": e.Name, "nzo_id": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to SABnzbd (%s)\n", e.Name, id)
	return nil
}

func isTorrentURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "magnet:") || strings.HasSuffix(lower, ".torrent")
}
