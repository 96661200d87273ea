package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tasktriage/pkg/engine"
	"tasktriage/pkg/model"
)

var (
	listSource   string
	listPriority string
	listAll      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the unified task set, ranked by score",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "Only tasks known to this source (gtasks, vault, daily)")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Only tasks at this priority (P1-P4)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	filter := engine.ListFilter{
		Source: listSource,
		All:    listAll,
	}
	if listPriority != "" {
		p := model.Priority(strings.ToUpper(listPriority))
		if p.Rank() > model.P4.Rank() {
			return fmt.Errorf("unknown priority %q (want P1-P4)", listPriority)
		}
		filter.Priority = p
	}

	tasks, statuses, err := eng.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks match.")
	}
	for _, t := range tasks {
		printTask(t)
		systems := make([]string, 0, len(t.Provenance))
		for system := range t.Provenance {
			systems = append(systems, system)
		}
		sort.Strings(systems)
		if t.Completed {
			systems = append(systems, "done")
		}
		fmt.Printf("      from %s\n", strings.Join(systems, ", "))
	}
	printSourceWarnings(statuses)
	return nil
}
