package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tasktriage/pkg/reconcile"
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task complete in every system it lives in",
	Long: `Marks the task complete in every source system listed in its
provenance. Systems that fail stay queued in the completion journal and
are retried the next time complete runs for the same task; systems that
already acknowledged are never re-dispatched.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}

	result, err := eng.Complete(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if result.AlreadySettled {
		fmt.Printf("Task %s was already completed everywhere.\n", result.TaskID)
		return nil
	}

	for _, o := range result.Succeeded {
		fmt.Printf("  %-8s done (%s)\n", o.System, o.Status)
	}
	for _, o := range result.Failed {
		fmt.Printf("  %-8s FAILED: %s\n", o.System, o.Err)
	}

	if result.State == reconcile.StateSettled {
		fmt.Printf("Task %s completed everywhere.\n", result.TaskID)
	} else {
		fmt.Printf("Task %s partially settled; run complete again to retry the failed system(s).\n", result.TaskID)
	}
	return nil
}
