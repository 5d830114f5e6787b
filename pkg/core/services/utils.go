package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
	"github.com/asanahu/Calendario/pkg/core/shifts"
	"github.com/asanahu/Calendario/pkg/db"
)

// eventFinder is the read side of db.EventStore
type eventFinder interface {
	FindEvents(ctx context.Context, from, to string) ([]db.Event, error)
}

// storeEventSource adapts the event store to the allocator's EventSource.
// Generated events overlapping [skipFrom, skipTo] are hidden, which lets a
// replacing run ignore the output of the run it replaces.
type storeEventSource struct {
	store    eventFinder
	skipFrom string
	skipTo   string
}

var _ shifts.EventSource = (*storeEventSource)(nil)

func (s *storeEventSource) FindEvents(ctx context.Context, from, to string) ([]shifts.ExistingEvent, error) {
	events, err := s.store.FindEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	existing := make([]shifts.ExistingEvent, 0, len(events))
	for _, e := range events {
		if s.hides(e) {
			continue
		}
		existing = append(existing, shifts.ExistingEvent{
			WorkerName: e.WorkerName,
			Start:      e.Start,
			End:        e.End,
			Type:       model.EventType(e.Type),
		})
	}
	return existing, nil
}

func (s *storeEventSource) hides(e db.Event) bool {
	if s.skipFrom == "" || e.Source != db.SourceGenerated {
		return false
	}
	end := e.End
	if end == "" {
		end = e.Start
	}
	return e.Start <= s.skipTo && end >= s.skipFrom
}

// filterActiveWorkers filters workers to only those marked active
func filterActiveWorkers(workers []db.Worker) []db.Worker {
	active := make([]db.Worker, 0, len(workers))
	for _, w := range workers {
		if w.Active {
			active = append(active, w)
		}
	}
	return active
}

// convertToModelWorkers converts worker records to the allocator's worker type
func convertToModelWorkers(workers []db.Worker) []model.Worker {
	result := make([]model.Worker, len(workers))
	for i, w := range workers {
		skills := make([]model.Skill, 0, len(w.Skills))
		for _, s := range w.Skills {
			skills = append(skills, model.Skill(s))
		}
		roles := make([]model.Role, 0, len(w.FixedRoles))
		for _, r := range w.FixedRoles {
			roles = append(roles, model.Role(r))
		}

		result[i] = model.Worker{
			ID:         w.ID,
			FirstName:  w.FirstName,
			LastName:   w.LastName,
			Skills:     skills,
			FixedRoles: roles,
		}
	}
	return shifts.NormalizeWorkers(result)
}

// loadActiveWorkers lists the roster and keeps the active workers
func loadActiveWorkers(ctx context.Context, directory db.WorkerDirectory, logger *zap.Logger) ([]model.Worker, error) {
	logger.Debug("Fetching workers")
	all, err := directory.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: roster: %w", shifts.ErrLoadFailed, err)
	}

	active := filterActiveWorkers(all)
	logger.Debug("Found workers", zap.Int("count", len(all)), zap.Int("active", len(active)))

	return convertToModelWorkers(active), nil
}

// BuildCalendar creates the holiday calendar described by the configuration
func BuildCalendar(cfg *config.Config) (*calendar.Calendar, error) {
	rules := make([]calendar.HolidayRule, len(cfg.Holidays.Rules))
	for i, r := range cfg.Holidays.Rules {
		rules[i] = calendar.HolidayRule{Name: r.Name, RRule: r.RRule}
	}

	cal, err := calendar.New(cfg.Holidays.Dates, rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday calendar: %w", err)
	}
	return cal, nil
}

// applyRequirements returns base with every non-nil field of override applied
func applyRequirements(base shifts.Requirements, override config.Requirements) shifts.Requirements {
	if override.CoverageA != nil {
		base.CoverageA = *override.CoverageA
	}
	if override.CoverageB != nil {
		base.CoverageB = *override.CoverageB
	}
	if override.Afternoon != nil {
		base.Afternoon = *override.Afternoon
	}
	if override.Mail != nil {
		base.Mail = *override.Mail
	}
	return base
}

// resolveRequirements layers the defaults, the config file and the invocation flags
func resolveRequirements(fromConfig, fromFlags config.Requirements) shifts.Requirements {
	return applyRequirements(applyRequirements(shifts.DefaultRequirements(), fromConfig), fromFlags)
}

// resolveDayRequirements matches each staffing override rrule against the given days.
// Later overrides win on days matched by several rules.
func resolveDayRequirements(
	overrides []config.StaffingOverride,
	base shifts.Requirements,
	days []time.Time,
	logger *zap.Logger,
) (map[string]shifts.Requirements, error) {
	byDate := make(map[string]shifts.Requirements)
	if len(overrides) == 0 || len(days) == 0 {
		return byDate, nil
	}

	searchStart := days[0]
	searchEnd := days[len(days)-1]

	for i, override := range overrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for override %d: %w", i, err)
		}

		// Anchor the rule at the first day so weekly and monthly rules line up with the month
		rule.DTStart(searchStart)

		matched := make(map[string]bool)
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			matched[occurrence.Format(calendar.DateLayout)] = true
		}

		applied := 0
		for _, day := range days {
			date := day.Format(calendar.DateLayout)
			if !matched[date] {
				continue
			}
			current, ok := byDate[date]
			if !ok {
				current = base
			}
			byDate[date] = applyRequirements(current, override.Requirements)
			applied++
		}

		logger.Debug("Applied staffing override",
			zap.Int("index", i),
			zap.String("rrule", override.RRule),
			zap.Int("days", applied))
	}

	return byDate, nil
}
