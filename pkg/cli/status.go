package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the unified task set and source health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	st, err := eng.Status(cmd.Context(), cfg.Cleanup.StaleThresholdDays)
	if err != nil {
		return err
	}

	fmt.Printf("Tasks: %d total, %d open, %d completed\n", st.Total, st.Open, st.Completed)
	fmt.Printf("Overdue: %d   Stale: %d   Pending completions: %d\n", st.Overdue, st.Stale, st.Pending)
	fmt.Println("Sources:")
	for _, s := range st.Statuses {
		if s.Err != nil {
			fmt.Printf("  %-8s unavailable: %v\n", s.Name, s.Err)
			continue
		}
		line := fmt.Sprintf("  %-8s %d task(s)", s.Name, s.Fetched)
		if s.Skipped > 0 {
			line += fmt.Sprintf(", %d malformed skipped", s.Skipped)
		}
		fmt.Println(line)
	}
	return nil
}
