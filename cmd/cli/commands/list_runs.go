package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List persisted generation runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Database.GetGenerationRuns(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list generation runs: %w", err)
			}

			fmt.Printf("\nFound %d generation runs:\n\n", len(runs))
			for _, r := range runs {
				replaced := ""
				if r.Replaced {
					replaced = " (replaced earlier run)"
				}
				fmt.Printf("- %s  %d-%02d  seed=%d  events=%d  warnings=%d  %s%s\n",
					r.ID, r.Year, r.Month, r.Seed, r.EventCount, r.WarningCount, r.CreatedAt, replaced)
			}

			return nil
		},
	}
}
