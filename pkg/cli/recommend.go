package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendMaxTasks int

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend what to work on given today's capacity",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendMaxTasks, "max-tasks", 0, "Maximum tasks to recommend (default from config)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	maxTasks := recommendMaxTasks
	if maxTasks <= 0 {
		maxTasks = cfg.Recommendations.MaxTasks
	}

	rec, err := eng.Recommend(cmd.Context(), maxTasks)
	if err != nil {
		return err
	}

	fmt.Printf("Today's capacity: energy %s, attention %s\n", rec.Capacity.Energy, rec.Capacity.Attention)
	if len(rec.Tasks) == 0 {
		fmt.Println("Nothing fits right now. Rest, or lower the bar with a capacity tag in today's note.")
	} else {
		fmt.Println("Work on:")
		for _, t := range rec.Tasks {
			printTask(t)
		}
	}
	printSourceWarnings(rec.Statuses)
	return nil
}
