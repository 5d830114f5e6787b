package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/services"
)

// ListHolidaysCmd creates the listHolidays command
func ListHolidaysCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listHolidays",
		Short: "List the configured holidays of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = time.Now().Year()
			}

			holidays, err := services.ListHolidays(app.Cfg, year)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d holidays in %d:\n\n", len(holidays), year)
			for _, h := range holidays {
				day, err := calendar.ParseDate(h.Date)
				if err != nil {
					return fmt.Errorf("failed to parse holiday date: %w", err)
				}
				fmt.Printf("- %s (%s) %s\n", h.Date, day.Weekday(), h.Name)
			}

			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Year to list (default: current year)")

	return cmd
}
