// Package cli wires the engine behind the tasktriage command surface.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktriage/pkg/config"
	"tasktriage/pkg/dedup"
	"tasktriage/pkg/engine"
	"tasktriage/pkg/gtasks"
	"tasktriage/pkg/model"
	"tasktriage/pkg/reconcile"
	"tasktriage/pkg/source"
	"tasktriage/pkg/vault"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "tasktriage",
		Short: "Unify, rank, and reconcile tasks across your task systems",
		Long: `tasktriage pulls tasks from Google Tasks and a markdown note vault
into one deduplicated set, scores each task by its Attention Tax, and
recommends what to work on given today's energy and attention. Completing
a task here completes it everywhere it lives.`,
		RunE:          runRecommend, // bare invocation answers "what now?"
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/tasktriage/config.yaml)")
}

// Execute runs the root command.
func Execute() error {
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// buildEngine assembles providers (and, when asked, completion sinks)
// from the configuration. Aggregation reads the Google snapshot rather
// than the live API so recommend/list/status never block on the
// network; `tasktriage sync` refreshes the snapshot.
func buildEngine(ctx context.Context, cfg *config.Config, withSinks bool) (*engine.Engine, error) {
	var providers []source.Provider
	var sinks []source.Sink
	var capacity engine.CapacityReader

	if cfg.Google.Enabled && cfg.Google.CachePath != "" {
		providers = append(providers, source.NewSnapshotProvider(gtasks.SourceName, cfg.Google.CachePath))
	}

	if cfg.Vault.Path != "" {
		db := vault.NewTaskDatabase(cfg.Vault.Path, cfg.Vault.TaskDatabase)
		daily := vault.NewDailyNotes(cfg.Vault.Path, cfg.Vault.DailyNotesPath, cfg.Vault.DailyNoteFormat)
		providers = append(providers, db, daily)
		capacity = daily
		if withSinks {
			sinks = append(sinks, db, daily)
		}
	}

	if withSinks && cfg.Google.Enabled {
		client, err := gtasks.NewClient(ctx, cfg.Google.Tasklist)
		if err != nil {
			// Completion still proceeds for the other systems; the
			// journal keeps gtasks pending for a later retry.
			log.Printf("Warning: Google Tasks unavailable for completion, will retry later: %v", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}

	params := engine.Params{
		Providers: providers,
		Capacity:  capacity,
		Policy:    policy,
		DedupOpts: dedup.Options{
			SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
			CreationWindow:      time.Duration(cfg.Dedup.WindowDays) * 24 * time.Hour,
		},
		FetchTimeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
	}

	journalPath, err := reconcile.DefaultJournalPath()
	if err == nil {
		journal, jerr := reconcile.NewJournal(journalPath)
		if jerr != nil {
			return nil, fmt.Errorf("failed to load completion journal: %w", jerr)
		}
		params.Journal = journal
		if withSinks {
			params.Reconciler = reconcile.New(journal, sinks)
		}
	}

	return engine.New(params), nil
}

func printTask(t model.Task) {
	due := ""
	if t.DueAt != nil {
		due = "  due " + t.DueAt.Format("2006-01-02")
	}
	fmt.Printf("  %s  [%s] %-40s  score %.2f%s\n", t.ID, t.Priority, t.Title, t.Score, due)
}

func printSourceWarnings(statuses []engine.SourceStatus) {
	for _, s := range statuses {
		if s.Err != nil {
			fmt.Printf("  (source %s unavailable, results may be partial)\n", s.Name)
		}
	}
}
