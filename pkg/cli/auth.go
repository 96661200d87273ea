package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tasktriage/pkg/auth"
)

var authReset bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to Google Tasks",
	Long: `Runs the Google OAuth flow and stores the token under
~/.config/tasktriage/. Requires a credentials.json in the same
directory, downloaded from the Google Cloud console.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authReset, "reset", false, "Discard the stored token and re-authorize")
}

func runAuth(cmd *cobra.Command, args []string) error {
	if authReset {
		if err := auth.RemoveToken(); err != nil {
			return fmt.Errorf("failed to remove stored token: %w", err)
		}
		fmt.Println("Stored token removed.")
	}

	if _, err := auth.GetTasksService(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Authorization successful.")
	return nil
}
