package shifts

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

// EventSource is the read side of the event store.
// FindEvents returns every event overlapping the inclusive [from, to] date range.
type EventSource interface {
	FindEvents(ctx context.Context, from, to string) ([]ExistingEvent, error)
}

// MonthSnapshot is the read-only input of one allocation run
type MonthSnapshot struct {
	Year  int
	Month time.Month

	// Start and End are the first and last calendar day of the month
	Start string
	End   string

	// Workers is the normalized roster, sorted by ID
	Workers []model.Worker

	// Days are the business days of the month in ascending order
	Days []time.Time

	// existing maps date -> worker ID -> event type for the month
	existing map[string]map[string]model.EventType
}

// LoadMonth loads existing events for the target month and classifies every
// (worker, business day) pair. Any source error aborts the load.
func LoadMonth(
	ctx context.Context,
	source EventSource,
	cal *calendar.Calendar,
	workers []model.Worker,
	year int,
	month time.Month,
	logger *zap.Logger,
) (*MonthSnapshot, error) {
	first, last := calendar.MonthBounds(year, month)
	from := first.Format(calendar.DateLayout)
	to := last.Format(calendar.DateLayout)

	logger.Debug("Loading existing events", zap.String("from", from), zap.String("to", to))
	events, err := source.FindEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: existing events %s..%s: %w", ErrLoadFailed, from, to, err)
	}
	logger.Debug("Loaded existing events", zap.Int("count", len(events)))

	return NewMonthSnapshot(cal, workers, year, month, events, logger), nil
}

// NewMonthSnapshot builds a snapshot from already fetched events
func NewMonthSnapshot(
	cal *calendar.Calendar,
	workers []model.Worker,
	year int,
	month time.Month,
	events []ExistingEvent,
	logger *zap.Logger,
) *MonthSnapshot {
	first, last := calendar.MonthBounds(year, month)

	snapshot := &MonthSnapshot{
		Year:     year,
		Month:    month,
		Start:    first.Format(calendar.DateLayout),
		End:      last.Format(calendar.DateLayout),
		Workers:  NormalizeWorkers(workers),
		Days:     cal.BusinessDays(year, month),
		existing: make(map[string]map[string]model.EventType),
	}

	nameToID := NameIndex(snapshot.Workers, logger)

	for _, e := range events {
		workerID, ok := nameToID[strings.TrimSpace(e.WorkerName)]
		if !ok {
			logger.Debug("Skipping event for unknown worker",
				zap.String("worker_name", e.WorkerName),
				zap.String("start", e.Start),
				zap.String("type", string(e.Type)))
			continue
		}

		start, end, err := parseRange(e.Start, e.End)
		if err != nil {
			logger.Warn("Skipping event with invalid dates",
				zap.String("worker_name", e.WorkerName),
				zap.String("start", e.Start),
				zap.String("end", e.End),
				zap.Error(err))
			continue
		}

		// Expand the range into single days, clipped to the month
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if day.Before(first) || day.After(last) {
				continue
			}
			snapshot.record(day.Format(calendar.DateLayout), workerID, e.Type)
		}
	}

	return snapshot
}

// record stores an event type for a worker on a date.
// When several events overlap the strongest one wins: absence, busy, duty, no-duty.
func (s *MonthSnapshot) record(date, workerID string, eventType model.EventType) {
	day, ok := s.existing[date]
	if !ok {
		day = make(map[string]model.EventType)
		s.existing[date] = day
	}

	if current, exists := day[workerID]; exists && eventPrecedence(current) >= eventPrecedence(eventType) {
		return
	}
	day[workerID] = eventType
}

func eventPrecedence(t model.EventType) int {
	switch {
	case t.IsAbsence():
		return 3
	case t.IsNoDuty():
		return 0
	case t.IsDuty():
		return 1
	}
	return 2
}

// EventOn returns the existing event type for a worker on a date ("" if none)
func (s *MonthSnapshot) EventOn(date, workerID string) model.EventType {
	return s.existing[date][workerID]
}

// IsAvailable returns true if the worker has no blocking event on the date.
// The no-duty marker does not block.
func (s *MonthSnapshot) IsAvailable(date, workerID string) bool {
	return !s.EventOn(date, workerID).BlocksAvailability()
}

// IsWorking returns true unless the worker has an absence on the date
func (s *MonthSnapshot) IsWorking(date, workerID string) bool {
	return !s.EventOn(date, workerID).IsAbsence()
}

// ManualDuties returns worker ID -> role for manually booked duties on a date
func (s *MonthSnapshot) ManualDuties(date string) map[string]model.Role {
	duties := make(map[string]model.Role)
	for workerID, eventType := range s.existing[date] {
		if eventType.IsDuty() {
			duties[workerID] = model.Role(eventType)
		}
	}
	return duties
}

// ManualCount returns the number of manually booked duties of a role on a date
func (s *MonthSnapshot) ManualCount(date string, role model.Role) int {
	count := 0
	for _, eventType := range s.existing[date] {
		if model.Role(eventType) == role {
			count++
		}
	}
	return count
}

// IsBusinessDay returns true if the date is one of the snapshot's business days
func (s *MonthSnapshot) IsBusinessDay(date string) bool {
	for _, d := range s.Days {
		if d.Format(calendar.DateLayout) == date {
			return true
		}
	}
	return false
}

// WorkerByID returns the roster entry for an ID
func (s *MonthSnapshot) WorkerByID(id string) (model.Worker, bool) {
	idx, found := sort.Find(len(s.Workers), func(i int) int {
		return strings.Compare(id, s.Workers[i].ID)
	})
	if !found {
		return model.Worker{}, false
	}
	return s.Workers[idx], true
}

// NormalizeWorkers trims names, drops empty and duplicate skills or fixed roles,
// and sorts the roster by ID
func NormalizeWorkers(workers []model.Worker) []model.Worker {
	normalized := make([]model.Worker, 0, len(workers))

	for _, w := range workers {
		n := model.Worker{
			ID:        strings.TrimSpace(w.ID),
			FirstName: strings.TrimSpace(w.FirstName),
			LastName:  strings.TrimSpace(w.LastName),
		}

		for _, skill := range w.Skills {
			skill = model.Skill(strings.ToLower(strings.TrimSpace(string(skill))))
			if skill != "" && !slices.Contains(n.Skills, skill) {
				n.Skills = append(n.Skills, skill)
			}
		}

		for _, role := range w.FixedRoles {
			role = model.Role(strings.TrimSpace(string(role)))
			if role != "" && !slices.Contains(n.FixedRoles, role) {
				n.FixedRoles = append(n.FixedRoles, role)
			}
		}

		normalized = append(normalized, n)
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].ID < normalized[j].ID
	})

	return normalized
}

// NameIndex builds the display name -> worker ID map used to resolve events.
// The first worker wins when two share a name.
func NameIndex(workers []model.Worker, logger *zap.Logger) map[string]string {
	index := make(map[string]string, len(workers))
	for _, w := range workers {
		name := w.Name()
		if existing, ok := index[name]; ok {
			logger.Warn("Duplicate worker name in roster",
				zap.String("name", name),
				zap.String("kept_id", existing),
				zap.String("ignored_id", w.ID))
			continue
		}
		index[name] = w.ID
	}
	return index
}

// parseRange parses an event's start and end dates; a missing end means a single day
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := calendar.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}

	if endStr == "" {
		return start, start, nil
	}

	end, err := calendar.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s before start %s", endStr, startStr)
	}

	return start, end, nil
}
