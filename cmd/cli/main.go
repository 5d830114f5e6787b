package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/cmd/cli/commands"
	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/clients/gmailclient"
	"github.com/asanahu/Calendario/pkg/clients/sheetsclient"
	"github.com/asanahu/Calendario/pkg/postgres"
	"github.com/asanahu/Calendario/pkg/utils"
	"github.com/asanahu/Calendario/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{Ctx: context.Background()}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "calendario",
		Short: "Calendario CLI - Monthly shift allocation",
		Long:  `A CLI tool that allocates the rotating duties of a month while respecting absences and fixed roles.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.GenerateShiftsCmd(app))
	rootCmd.AddCommand(commands.ViewBalanceCmd(app))
	rootCmd.AddCommand(commands.ListWorkersCmd(app))
	rootCmd.AddCommand(commands.ListHolidaysCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.SyncRosterCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger, database and Google clients
func initApp() error {
	var err error

	// Load configuration first: it decides the log level
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, app.Cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("roster_source", app.Cfg.RosterSource),
		zap.Int("staffing_overrides", len(app.Cfg.StaffingOverrides)),
		zap.Int("holiday_rules", len(app.Cfg.Holidays.Rules)))

	// Initialize database
	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Roster = database
	app.Logger.Debug("Database connected successfully")

	// Initialize sheets roster
	if app.Cfg.UsesSheetsRoster() {
		app.Logger.Info("Initializing sheets client")
		httpClient, err := utils.GoogleHTTPClient(app.Ctx, app.Cfg.GoogleCredentialsFile, "", utils.ScopeSheetsReadonly)
		if err != nil {
			return fmt.Errorf("failed to create sheets credentials: %w", err)
		}
		sheetsClient, err := sheetsclient.NewClient(app.Ctx, httpClient)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.SheetsRoster = sheetsclient.NewRoster(sheetsClient, app.Cfg.RosterSheetID, app.Cfg.RosterTab)
		app.Roster = app.SheetsRoster
		app.Logger.Debug("Sheets client initialized successfully", zap.String("sheet_id", app.Cfg.RosterSheetID))
	}

	// Initialize gmail client, impersonating the sender
	if len(app.Cfg.Notify.Recipients) > 0 {
		app.Logger.Info("Initializing gmail client")
		httpClient, err := utils.GoogleHTTPClient(app.Ctx, app.Cfg.GoogleCredentialsFile, app.Cfg.Notify.Sender, utils.ScopeGmailSend)
		if err != nil {
			return fmt.Errorf("failed to create gmail credentials: %w", err)
		}
		app.GmailClient, err = gmailclient.NewClient(app.Ctx, httpClient, app.Cfg.Notify.Sender)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		app.Logger.Debug("Gmail client initialized successfully")
	}

	return nil
}
