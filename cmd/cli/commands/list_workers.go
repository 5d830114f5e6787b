package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ListWorkersCmd creates the listWorkers command
func ListWorkersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listWorkers",
		Short: "List all workers from the configured roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fetch workers
			workers, err := app.Roster.ListWorkers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list workers: %w", err)
			}

			// Print workers
			fmt.Printf("\nFound %d workers:\n\n", len(workers))
			for _, w := range workers {
				status := "Active"
				if !w.Active {
					status = "Inactive"
				}

				details := ""
				if len(w.Skills) > 0 {
					details += fmt.Sprintf(" [Skills: %s]", strings.Join(w.Skills, ", "))
				}
				if len(w.FixedRoles) > 0 {
					details += fmt.Sprintf(" [Fixed: %s]", strings.Join(w.FixedRoles, ", "))
				}

				fmt.Printf("- %s %s (%s) - %s%s\n", w.FirstName, w.LastName, w.ID, status, details)
			}

			return nil
		},
	}
}
