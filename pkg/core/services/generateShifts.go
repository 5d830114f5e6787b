package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/shifts"
	"github.com/asanahu/Calendario/pkg/db"
)

// Notifier sends the shortage digest
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// GenerateShiftsOptions controls a single generation run
type GenerateShiftsOptions struct {
	Year  int
	Month time.Month

	// DryRun allocates and validates without persisting or notifying
	DryRun bool

	// Replace discards the month's previously generated events instead of failing
	Replace bool

	// Force persists a result even when validation finds violations
	Force bool

	// Notify mails the shortage digest to the configured recipients
	Notify bool

	// Seed fixes the tie-break order. Nil draws a random seed.
	Seed *uint64

	// Requirements override the configured headcounts for this run only
	Requirements config.Requirements
}

// GenerateShiftsResult contains the outcome of a generation run
type GenerateShiftsResult struct {
	RunID      string
	Seed       uint64
	Snapshot   *shifts.MonthSnapshot
	Result     *shifts.Result
	Violations []shifts.Violation

	// Saved is true if the run was persisted
	Saved bool

	// Notified is the number of digest emails sent
	Notified int
}

// GenerateShiftsStore defines the event store operations needed to generate a month
type GenerateShiftsStore interface {
	FindEvents(ctx context.Context, from, to string) ([]db.Event, error)
	CountGeneratedEvents(ctx context.Context, from, to string) (int, error)
	SaveGenerationRun(ctx context.Context, run *db.GenerationRun, events []db.Event, warnings []db.ShortageWarning) error
}

// GenerateShifts allocates the rotating roles of a month.
// It loads the roster and existing events, seeds fairness from the rest of the year,
// runs the engine, validates the result and persists it unless this is a dry run.
// A month that already has generated events is refused unless Replace is set.
func GenerateShifts(
	ctx context.Context,
	store GenerateShiftsStore,
	directory db.WorkerDirectory,
	notifier Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	opts GenerateShiftsOptions,
) (*GenerateShiftsResult, error) {
	if opts.Month < time.January || opts.Month > time.December {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", opts.Month)
	}
	if opts.Notify && notifier == nil {
		return nil, fmt.Errorf("notifications requested but no mail client is configured")
	}

	logger.Debug("Starting generateShifts",
		zap.Int("year", opts.Year),
		zap.String("month", opts.Month.String()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("replace", opts.Replace),
		zap.Bool("force", opts.Force))

	// Step 1: Build the holiday calendar
	cal, err := BuildCalendar(cfg)
	if err != nil {
		return nil, err
	}

	// Step 2: Fetch the roster
	workers, err := loadActiveWorkers(ctx, directory, logger)
	if err != nil {
		return nil, err
	}

	// Step 3: Refuse to stack a second run on top of an existing one
	first, last := monthRange(opts.Year, opts.Month)
	existingCount, err := store.CountGeneratedEvents(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to count generated events: %w", err)
	}
	logger.Debug("Found previously generated events", zap.Int("count", existingCount))

	if existingCount > 0 && !opts.Replace {
		return nil, fmt.Errorf("month %d-%02d already has %d generated events - use replace to regenerate it",
			opts.Year, opts.Month, existingCount)
	}

	source := &storeEventSource{store: store}
	if opts.Replace {
		source.skipFrom, source.skipTo = first, last
	}

	// Step 4: Load the month and the fairness history outside it
	snapshot, err := shifts.LoadMonth(ctx, source, cal, workers, opts.Year, opts.Month, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded month",
		zap.Int("workers", len(snapshot.Workers)),
		zap.Int("business_days", len(snapshot.Days)))

	counters, err := shifts.LoadFairnessHistory(ctx, source, cal, workers, opts.Year, snapshot.Start, snapshot.End, logger)
	if err != nil {
		return nil, err
	}

	// Step 5: Resolve headcounts
	requirements := resolveRequirements(cfg.Requirements, opts.Requirements)
	dayRequirements, err := resolveDayRequirements(cfg.StaffingOverrides, requirements, snapshot.Days, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve staffing overrides: %w", err)
	}
	logger.Debug("Resolved requirements",
		zap.Int("coverage_a", requirements.CoverageA),
		zap.Int("coverage_b", requirements.CoverageB),
		zap.Int("afternoon", requirements.Afternoon),
		zap.Int("mail", requirements.Mail),
		zap.Int("override_days", len(dayRequirements)))

	// Step 6: Run the engine
	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	logger.Info("Running shift allocation", zap.Uint64("seed", seed))
	result := shifts.Allocate(shifts.AllocationConfig{
		Snapshot:        snapshot,
		Counters:        counters,
		Requirements:    requirements,
		DayRequirements: dayRequirements,
		Rand:            rand.New(rand.NewPCG(seed, seed)),
		Logger:          logger,
		Verbose:         cfg.Debug,
	})

	logger.Info("Allocation completed",
		zap.Int("events", len(result.Events)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("critical", result.CriticalCount()))

	// Step 7: Validate
	violations := shifts.Validate(snapshot, result, requirements, dayRequirements)
	for _, v := range violations {
		logger.Warn("Validation error",
			zap.String("kind", string(v.Kind)),
			zap.String("date", v.Date),
			zap.String("worker_id", v.WorkerID),
			zap.String("role", string(v.Role)),
			zap.String("description", v.Description))
	}

	outcome := &GenerateShiftsResult{
		RunID:      uuid.New().String(),
		Seed:       seed,
		Snapshot:   snapshot,
		Result:     result,
		Violations: violations,
	}

	// Step 8: Persist
	shouldSave := !opts.DryRun && (len(violations) == 0 || opts.Force)
	switch {
	case shouldSave:
		run := &db.GenerationRun{
			ID:           outcome.RunID,
			Year:         opts.Year,
			Month:        int(opts.Month),
			PeriodStart:  first,
			PeriodEnd:    last,
			Seed:         seed,
			Replaced:     opts.Replace && existingCount > 0,
			EventCount:   len(result.Events),
			WarningCount: len(result.Warnings),
		}

		logger.Info("Saving generation run",
			zap.String("run_id", run.ID),
			zap.Bool("replaced", run.Replaced),
			zap.Bool("forced", len(violations) > 0))
		events, warnings := convertToDBRecords(run.ID, result)
		if err := store.SaveGenerationRun(ctx, run, events, warnings); err != nil {
			return nil, fmt.Errorf("failed to save generation run: %w", err)
		}
		outcome.Saved = true
		logger.Info("Generation run saved", zap.Int("events", len(events)), zap.Int("warnings", len(warnings)))
	case opts.DryRun:
		logger.Info("Dry run mode - shifts not saved")
	default:
		logger.Warn("Validation failed - not saving to database (use force to save anyway)",
			zap.Int("violations", len(violations)))
	}

	// Step 9: Notify
	if opts.Notify && outcome.Saved && len(result.Warnings) > 0 {
		subject, body := buildShortageDigest(result)
		for _, recipient := range cfg.Notify.Recipients {
			if err := notifier.SendEmail(ctx, recipient, subject, body); err != nil {
				return outcome, fmt.Errorf("failed to send shortage digest to %s: %w", recipient, err)
			}
			outcome.Notified++
			logger.Debug("Sent shortage digest", zap.String("recipient", recipient))
		}
	}

	return outcome, nil
}

// monthRange returns the first and last calendar date of a month
func monthRange(year int, month time.Month) (string, string) {
	first, last := calendar.MonthBounds(year, month)
	return first.Format(calendar.DateLayout), last.Format(calendar.DateLayout)
}

// convertToDBRecords converts generated events and warnings to database records of a run
func convertToDBRecords(runID string, result *shifts.Result) ([]db.Event, []db.ShortageWarning) {
	events := make([]db.Event, 0, len(result.Events))
	for _, e := range result.Events {
		events = append(events, db.Event{
			ID:         uuid.New().String(),
			WorkerName: e.WorkerName,
			Start:      e.Date,
			End:        e.Date,
			Type:       string(e.Role),
			Source:     db.SourceGenerated,
			RunID:      runID,
		})
	}

	warnings := make([]db.ShortageWarning, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, db.ShortageWarning{
			ID:       uuid.New().String(),
			RunID:    runID,
			Date:     w.Date,
			Role:     string(w.Role),
			Severity: string(w.Severity),
			Missing:  w.Missing,
			Message:  w.Message,
		})
	}

	return events, warnings
}

// buildShortageDigest renders the warnings of a run as an email, critical ones first
func buildShortageDigest(result *shifts.Result) (string, string) {
	subject := fmt.Sprintf("Staffing shortages for %s %d (%d critical)",
		result.Month, result.Year, result.CriticalCount())

	var sb strings.Builder
	fmt.Fprintf(&sb, "The shift allocation for %s %d could not fill every role.\n", result.Month, result.Year)

	for _, severity := range []shifts.Severity{shifts.SeverityCritical, shifts.SeverityWarning} {
		var lines []string
		for _, w := range result.Warnings {
			if w.Severity == severity {
				lines = append(lines, fmt.Sprintf("- %s", w.Message))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s (%d):\n%s\n", strings.ToUpper(string(severity)), len(lines), strings.Join(lines, "\n"))
	}

	return subject, sb.String()
}
