package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
	"github.com/asanahu/Calendario/pkg/core/services"
	"github.com/asanahu/Calendario/pkg/core/shifts"
)

// GenerateShiftsCmd creates the generateShifts command
func GenerateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateShifts",
		Short: "Generate the rotating shifts of a month",
		Long: "Allocate Afternoon, Reinforcement, Coverage A, Coverage B and Mail for every business day of a month.\n" +
			"Manual events are respected. Shortages are reported as warnings.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			year, _ := flags.GetInt("year")
			month, _ := flags.GetInt("month")
			seedRaw, _ := flags.GetString("seed")
			dryRun, _ := flags.GetBool("dry-run")
			replace, _ := flags.GetBool("replace")
			force, _ := flags.GetBool("force")
			notify, _ := flags.GetBool("notify")

			defaultYear, defaultMonth := nextMonth(time.Now())
			if year == 0 {
				year = defaultYear
			}
			if month == 0 {
				month = int(defaultMonth)
			}

			seed, err := parseSeed(seedRaw)
			if err != nil {
				return err
			}

			var requirements config.Requirements
			for name, target := range map[string]**int{
				"coverage-a": &requirements.CoverageA,
				"coverage-b": &requirements.CoverageB,
				"afternoon":  &requirements.Afternoon,
				"mail":       &requirements.Mail,
			} {
				if *target, err = optionalInt(flags, name); err != nil {
					return err
				}
			}

			app.Logger.Debug("generateShifts command",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Bool("dry_run", dryRun),
				zap.Bool("replace", replace),
				zap.Bool("force", force),
				zap.Bool("notify", notify))

			// A nil client must stay a nil interface
			var notifier services.Notifier
			if app.GmailClient != nil {
				notifier = app.GmailClient
			}

			outcome, err := services.GenerateShifts(
				app.Ctx,
				app.Database,
				app.Roster,
				notifier,
				app.Cfg,
				app.Logger,
				services.GenerateShiftsOptions{
					Year:         year,
					Month:        time.Month(month),
					DryRun:       dryRun,
					Replace:      replace,
					Force:        force,
					Notify:       notify,
					Seed:         seed,
					Requirements: requirements,
				},
			)
			if err != nil {
				return fmt.Errorf("shift generation failed: %w", err)
			}

			printGenerationOutcome(outcome, dryRun)
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Year to generate (default: year of next month)")
	cmd.Flags().Int("month", 0, "Month to generate, 1-12 (default: next month)")
	cmd.Flags().String("seed", "", "Seed for tie-breaking (default: random, recorded with the run)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("replace", false, "Replace previously generated shifts of the month")
	cmd.Flags().Bool("force", false, "Save even if validation fails")
	cmd.Flags().Bool("notify", false, "Email the shortage digest to the configured recipients")
	cmd.Flags().Int("coverage-a", shifts.DefaultCoverageA, "Coverage A headcount for this run")
	cmd.Flags().Int("coverage-b", shifts.DefaultCoverageB, "Coverage B headcount for this run")
	cmd.Flags().Int("afternoon", shifts.DefaultAfternoon, "Afternoon headcount for this run")
	cmd.Flags().Int("mail", shifts.DefaultMail, "Mail headcount for this run")

	return cmd
}

func printGenerationOutcome(outcome *services.GenerateShiftsResult, dryRun bool) {
	result := outcome.Result

	fmt.Printf("\n📅 Shifts for %s %d\n\n", result.Month, result.Year)
	fmt.Printf("Run ID:   %s\n", outcome.RunID)
	fmt.Printf("Seed:     %d\n", outcome.Seed)
	switch {
	case dryRun:
		fmt.Printf("Mode:     🧪 DRY RUN (not saved)\n")
	case outcome.Saved && len(outcome.Violations) > 0:
		fmt.Printf("Status:   ⚠️  FORCED (saved despite validation errors)\n")
	case outcome.Saved:
		fmt.Printf("Status:   ✅ SAVED\n")
	default:
		fmt.Printf("Status:   ❌ NOT SAVED (use --force to save anyway)\n")
	}
	if outcome.Notified > 0 {
		fmt.Printf("Notified: %d recipients\n", outcome.Notified)
	}
	fmt.Println()

	if len(outcome.Violations) > 0 {
		fmt.Printf("⚠️  Validation Errors (%d):\n", len(outcome.Violations))
		for _, v := range outcome.Violations {
			fmt.Printf("  • %s [%s]: %s\n", v.Date, v.Kind, v.Description)
		}
		fmt.Println()
	}

	// One line per business day, roles in phase order
	for _, day := range outcome.Snapshot.Days {
		date := day.Format(calendar.DateLayout)
		byRole := make(map[model.Role][]string)
		for _, e := range result.EventsOn(date) {
			byRole[e.Role] = append(byRole[e.Role], e.WorkerName)
		}

		var parts []string
		for _, role := range model.RotatingRoles {
			if names := byRole[role]; len(names) > 0 {
				parts = append(parts, fmt.Sprintf("%s: %s", role, strings.Join(names, ", ")))
			}
		}
		fmt.Printf("%s %s  %s\n", date, day.Weekday().String()[:3], strings.Join(parts, " | "))
	}
	fmt.Println()

	counts := result.CountByRole()
	fmt.Printf("Totals:")
	for _, role := range model.RotatingRoles {
		fmt.Printf("  %s=%d", role, counts[role])
	}
	fmt.Println()

	if len(result.Warnings) == 0 {
		fmt.Printf("\n✅ Every role was fully staffed\n\n")
		return
	}

	fmt.Printf("\n⚠️  Shortages (%d, %d critical):\n", len(result.Warnings), result.CriticalCount())
	for _, w := range result.Warnings {
		marker := "•"
		if w.Severity == shifts.SeverityCritical {
			marker = "❗"
		}
		fmt.Printf("  %s %s\n", marker, w.Message)
	}
	fmt.Println()
}
