package shifts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

// LoadFairnessHistory counts every duty held in the year outside the exclusion window
// [excludeStart, excludeEnd], per rotating role and worker.
// Empty bounds disable the exclusion. Multi-day duty events count once per business day
// of cal, so weekends and holidays inside the range are skipped.
func LoadFairnessHistory(
	ctx context.Context,
	source EventSource,
	cal *calendar.Calendar,
	workers []model.Worker,
	year int,
	excludeStart string,
	excludeEnd string,
	logger *zap.Logger,
) (FairnessCounters, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	from := yearStart.Format(calendar.DateLayout)
	to := yearEnd.Format(calendar.DateLayout)

	logger.Debug("Loading fairness history",
		zap.Int("year", year),
		zap.String("exclude_start", excludeStart),
		zap.String("exclude_end", excludeEnd))

	events, err := source.FindEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: history for %d: %w", ErrLoadFailed, year, err)
	}

	nameToID := NameIndex(NormalizeWorkers(workers), logger)
	counters := NewFairnessCounters()

	for _, e := range events {
		if !e.Type.IsDuty() {
			continue
		}

		workerID, ok := nameToID[strings.TrimSpace(e.WorkerName)]
		if !ok {
			logger.Warn("Skipping history event for unknown worker",
				zap.String("worker_name", e.WorkerName),
				zap.String("date", e.Start),
				zap.String("type", string(e.Type)))
			continue
		}

		start, end, err := parseRange(e.Start, e.End)
		if err != nil {
			logger.Warn("Skipping history event with invalid dates",
				zap.String("worker_name", e.WorkerName),
				zap.String("start", e.Start),
				zap.String("end", e.End),
				zap.Error(err))
			continue
		}

		role := model.Role(e.Type)
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if day.Before(yearStart) || day.After(yearEnd) {
				continue
			}
			if !cal.IsBusinessDay(day) {
				continue
			}

			date := day.Format(calendar.DateLayout)
			if excludeStart != "" && excludeEnd != "" && date >= excludeStart && date <= excludeEnd {
				continue
			}

			counters.Increment(role, workerID)
		}
	}

	logger.Debug("Loaded fairness history", zap.Int("events", len(events)))

	return counters, nil
}
