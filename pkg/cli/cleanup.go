package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupThresholdDays int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Flag stale tasks and prune the completion journal",
	Long: `Lists incomplete tasks with no activity beyond the stale threshold,
stalest first, and prunes settled completion-journal entries older than
the same threshold. Flagging is read-only; archiving or completing a
stale task is up to you.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupThresholdDays, "stale-threshold", 0, "Days without activity before a task is stale (default from config)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	threshold := cleanupThresholdDays
	if threshold <= 0 {
		threshold = cfg.Cleanup.StaleThresholdDays
	}

	report, err := eng.Cleanup(cmd.Context(), threshold)
	if err != nil {
		return err
	}

	if len(report.Stale) == 0 {
		fmt.Println("No stale tasks.")
	} else {
		fmt.Printf("%d stale task(s) (no activity in %d days):\n", len(report.Stale), threshold)
		for _, t := range report.Stale {
			fmt.Printf("  %s  %-40s  last activity %s\n", t.ID, t.Title, t.LastActivityAt.Format("2006-01-02"))
		}
	}
	if report.Pruned > 0 {
		fmt.Printf("Pruned %d settled completion journal entries.\n", report.Pruned)
	}
	return nil
}
