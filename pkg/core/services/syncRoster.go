package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/model"
	"github.com/asanahu/Calendario/pkg/db"
)

// SyncRosterResult summarizes a roster sync
type SyncRosterResult struct {
	Upserted int
	Inactive int

	// UnknownFixedRoles maps worker ID -> fixed roles that are not valid roles
	UnknownFixedRoles map[string][]string
}

// SyncRoster copies the roster from source into the worker table.
// Workers missing from the source are left untouched.
func SyncRoster(ctx context.Context, source db.WorkerDirectory, store db.WorkerStore, logger *zap.Logger) (*SyncRosterResult, error) {
	logger.Debug("Fetching roster from source")
	workers, err := source.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	logger.Debug("Found workers in source", zap.Int("count", len(workers)))

	result := &SyncRosterResult{UnknownFixedRoles: make(map[string][]string)}
	for _, w := range workers {
		if !w.Active {
			result.Inactive++
		}
		for _, role := range w.FixedRoles {
			if !model.Role(role).IsValid() {
				result.UnknownFixedRoles[w.ID] = append(result.UnknownFixedRoles[w.ID], role)
				logger.Warn("Unknown fixed role in roster",
					zap.String("worker_id", w.ID),
					zap.String("role", role))
			}
		}
	}

	if err := store.UpsertWorkers(ctx, workers); err != nil {
		return nil, fmt.Errorf("failed to save workers: %w", err)
	}
	result.Upserted = len(workers)

	logger.Debug("Roster synced",
		zap.Int("upserted", result.Upserted),
		zap.Int("inactive", result.Inactive))

	return result, nil
}
