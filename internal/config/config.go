package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/asanahu/Calendario/pkg/core/calendar"
)

// Roster sources
const (
	RosterSourcePostgres = "postgres"
	RosterSourceSheets   = "sheets"
)

// Requirements are the daily headcounts per role.
// A nil field keeps the built-in default.
type Requirements struct {
	CoverageA *int `yaml:"coverageA,omitempty" validate:"omitempty,min=0"`
	CoverageB *int `yaml:"coverageB,omitempty" validate:"omitempty,min=0"`
	Afternoon *int `yaml:"afternoon,omitempty" validate:"omitempty,min=0"`
	Mail      *int `yaml:"mail,omitempty" validate:"omitempty,min=0"`
}

// StaffingOverride replaces headcounts on every date matching the rrule
type StaffingOverride struct {
	RRule        string `yaml:"rrule" validate:"required"`
	Requirements `yaml:",inline"`
}

// HolidayRule is a recurring holiday, e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
type HolidayRule struct {
	Name  string `yaml:"name,omitempty"`
	RRule string `yaml:"rrule" validate:"required"`
}

// Holidays lists the non-business dates besides weekends
type Holidays struct {
	Dates []string      `yaml:"dates,omitempty" validate:"dive,datetime=2006-01-02"`
	Rules []HolidayRule `yaml:"rules,omitempty" validate:"dive"`
}

// Notify configures the shortage digest email
type Notify struct {
	Recipients []string `yaml:"recipients,omitempty" validate:"dive,email"`
	Sender     string   `yaml:"sender,omitempty" validate:"omitempty,email"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	RosterSource  string `yaml:"rosterSource,omitempty" validate:"omitempty,oneof=postgres sheets"`
	RosterSheetID string `yaml:"rosterSheetID,omitempty" validate:"required_if=RosterSource sheets"`
	RosterTab     string `yaml:"rosterTab,omitempty" validate:"required_if=RosterSource sheets"`

	// GoogleCredentialsFile is a service account key used for Sheets and Gmail
	GoogleCredentialsFile string `yaml:"googleCredentialsFile,omitempty"`

	Requirements      Requirements       `yaml:"requirements,omitempty"`
	StaffingOverrides []StaffingOverride `yaml:"staffingOverrides,omitempty" validate:"dive"`
	Holidays          Holidays           `yaml:"holidays,omitempty"`
	Notify            Notify             `yaml:"notify,omitempty"`

	// Debug enables verbose allocation narration
	Debug bool `yaml:"debug,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// UsesSheetsRoster returns true if the roster is read from the spreadsheet
func (c *Config) UsesSheetsRoster() bool {
	return c.RosterSource == RosterSourceSheets
}

// NeedsGoogle returns true if any configured feature talks to Google APIs
func (c *Config) NeedsGoogle() bool {
	return c.UsesSheetsRoster() || len(c.Notify.Recipients) > 0
}

// LoadWithEnv loads calendario_config.<env>.yaml from the current or home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("calendario_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each override and holiday rule
	for i, override := range cfg.StaffingOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in staffingOverrides[%d]: %w", i, err)
		}
	}
	for i, rule := range cfg.Holidays.Rules {
		if _, err := calendar.ParseRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidays.rules[%d]: %w", i, err)
		}
	}

	if cfg.NeedsGoogle() && cfg.GoogleCredentialsFile == "" {
		return fmt.Errorf("config validation failed: googleCredentialsFile is required for the sheets roster or notifications")
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
