package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/services"
)

// SyncRosterCmd creates the syncRoster command
func SyncRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "syncRoster",
		Short: "Copy the roster spreadsheet into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.SheetsRoster == nil {
				return fmt.Errorf("syncRoster needs rosterSource: sheets in the configuration")
			}

			app.Logger.Debug("syncRoster command", zap.String("sheet_id", app.Cfg.RosterSheetID))

			result, err := services.SyncRoster(app.Ctx, app.SheetsRoster, app.Database, app.Logger)
			if err != nil {
				return fmt.Errorf("roster sync failed: %w", err)
			}

			fmt.Printf("\n✓ Synced %d workers (%d inactive)\n", result.Upserted, result.Inactive)
			if len(result.UnknownFixedRoles) > 0 {
				fmt.Printf("\n⚠️  Unknown fixed roles (ignored during allocation):\n")
				for workerID, roles := range result.UnknownFixedRoles {
					fmt.Printf("  • %s: %v\n", workerID, roles)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
