package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tasktriage/pkg/gtasks"
	"tasktriage/pkg/source"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the Google Tasks snapshot",
	Long: `Fetches the configured Google Tasks list and writes it to the local
snapshot that recommend, list, and status read from. Run this whenever
you want fresh cloud data; everything else works offline.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Google.Enabled {
		return fmt.Errorf("google tasks is disabled in the config; nothing to sync")
	}
	if cfg.Google.CachePath == "" {
		return fmt.Errorf("google.cache_path is not configured")
	}

	client, err := gtasks.NewClient(cmd.Context(), cfg.Google.Tasklist)
	if err != nil {
		return err
	}

	records, err := client.FetchAll(cmd.Context())
	if err != nil {
		return err
	}

	if err := source.WriteSnapshot(cfg.Google.CachePath, records); err != nil {
		return err
	}
	fmt.Printf("Synced %d task(s) from list %q to %s\n", len(records), cfg.Google.Tasklist, cfg.Google.CachePath)
	return nil
}
