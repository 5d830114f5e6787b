package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asanahu/Calendario/pkg/db"
)

// ListWorkers retrieves all worker records ordered by ID
func (d *DB) ListWorkers(ctx context.Context) ([]db.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, skills, fixed_roles, active
		FROM worker
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []db.Worker
	for rows.Next() {
		var w db.Worker
		if err := rows.Scan(&w.ID, &w.FirstName, &w.LastName, &w.Skills, &w.FixedRoles, &w.Active); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}

	return workers, nil
}

// UpsertWorkers inserts or updates worker records in a single transaction
func (d *DB) UpsertWorkers(ctx context.Context, workers []db.Worker) error {
	if len(workers) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, w := range workers {
		batch.Queue(`
			INSERT INTO worker (id, first_name, last_name, skills, fixed_roles, active, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				skills = EXCLUDED.skills,
				fixed_roles = EXCLUDED.fixed_roles,
				active = EXCLUDED.active,
				updated_at = NOW()
		`, w.ID, w.FirstName, w.LastName, nonNil(w.Skills), nonNil(w.FixedRoles), w.Active)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert workers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nonNil avoids writing NULL into NOT NULL array columns
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
