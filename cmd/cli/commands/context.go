package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/clients/gmailclient"
	"github.com/asanahu/Calendario/pkg/clients/sheetsclient"
	"github.com/asanahu/Calendario/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg *config.Config

	// Roster is the configured worker directory: the spreadsheet or the database
	Roster db.WorkerDirectory

	// SheetsRoster is set when the roster is read from a spreadsheet
	SheetsRoster *sheetsclient.Roster

	// GmailClient is set when shortage notifications are configured
	GmailClient *gmailclient.Client

	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}
