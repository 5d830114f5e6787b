package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
	"github.com/asanahu/Calendario/pkg/core/shifts"
	"github.com/asanahu/Calendario/pkg/db"
)

// WorkerBalance is one row of the yearly balance report
type WorkerBalance struct {
	WorkerID string
	Name     string
	Counts   map[model.Role]int
	Total    int
}

// BalanceReport lists the yearly duty counts of every active worker
type BalanceReport struct {
	Year    int
	Workers []WorkerBalance

	// RoleTotals sums each rotating role over all workers
	RoleTotals map[model.Role]int
}

// ViewBalance counts the duties each active worker held in a year, per rotating role.
// Manual and generated duties are counted alike, once per business day of cal, so the
// report matches the fairness counters a generation run starts from.
func ViewBalance(
	ctx context.Context,
	store db.EventStore,
	directory db.WorkerDirectory,
	cal *calendar.Calendar,
	logger *zap.Logger,
	year int,
) (*BalanceReport, error) {
	logger.Debug("Starting viewBalance", zap.Int("year", year))

	workers, err := loadActiveWorkers(ctx, directory, logger)
	if err != nil {
		return nil, err
	}

	counters, err := shifts.LoadFairnessHistory(ctx, &storeEventSource{store: store}, cal, workers, year, "", "", logger)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{
		Year:       year,
		Workers:    make([]WorkerBalance, 0, len(workers)),
		RoleTotals: make(map[model.Role]int),
	}

	// Workers are already sorted by ID
	for _, w := range workers {
		row := WorkerBalance{
			WorkerID: w.ID,
			Name:     w.Name(),
			Counts:   make(map[model.Role]int, len(model.RotatingRoles)),
		}
		for _, role := range model.RotatingRoles {
			n := counters.Get(role, w.ID)
			row.Counts[role] = n
			row.Total += n
			report.RoleTotals[role] += n
		}
		report.Workers = append(report.Workers, row)
	}

	logger.Debug("Built balance report", zap.Int("workers", len(report.Workers)))

	return report, nil
}
