package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asanahu/Calendario/pkg/core/model"
	"github.com/asanahu/Calendario/pkg/core/services"
)

// ViewBalanceCmd creates the viewBalance command
func ViewBalanceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewBalance",
		Short: "Show how many duties each worker held in a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = time.Now().Year()
			}

			cal, err := services.BuildCalendar(app.Cfg)
			if err != nil {
				return err
			}

			report, err := services.ViewBalance(app.Ctx, app.Database, app.Roster, cal, app.Logger, year)
			if err != nil {
				return fmt.Errorf("failed to build balance report: %w", err)
			}

			fmt.Printf("\n⚖️  Duty balance for %d (%d workers)\n\n", report.Year, len(report.Workers))

			fmt.Printf("%-8s %-28s", "ID", "Name")
			for _, role := range model.RotatingRoles {
				fmt.Printf(" %13s", role)
			}
			fmt.Printf(" %6s\n", "Total")

			for _, row := range report.Workers {
				fmt.Printf("%-8s %-28s", row.WorkerID, row.Name)
				for _, role := range model.RotatingRoles {
					fmt.Printf(" %13d", row.Counts[role])
				}
				fmt.Printf(" %6d\n", row.Total)
			}

			fmt.Printf("%-8s %-28s", "", "All workers")
			total := 0
			for _, role := range model.RotatingRoles {
				fmt.Printf(" %13d", report.RoleTotals[role])
				total += report.RoleTotals[role]
			}
			fmt.Printf(" %6d\n\n", total)

			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Year to report (default: current year)")

	return cmd
}
