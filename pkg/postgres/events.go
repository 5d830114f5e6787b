package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asanahu/Calendario/pkg/db"
)

const dateLayout = "2006-01-02"

// FindEvents retrieves every event overlapping the inclusive [from, to] range
func (d *DB) FindEvents(ctx context.Context, from, to string) ([]db.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, worker_name, start_date, end_date, type, source, run_id
		FROM event
		WHERE start_date <= $2::date AND end_date >= $1::date
		ORDER BY start_date, worker_name
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		var e db.Event
		var start, end time.Time
		var runID *string
		if err := rows.Scan(&e.ID, &e.WorkerName, &start, &end, &e.Type, &e.Source, &runID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Start = start.Format(dateLayout)
		e.End = end.Format(dateLayout)
		if runID != nil {
			e.RunID = *runID
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// CountGeneratedEvents counts generated events overlapping the inclusive [from, to] range
func (d *DB) CountGeneratedEvents(ctx context.Context, from, to string) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM event
		WHERE source = $3 AND start_date <= $2::date AND end_date >= $1::date
	`, from, to, db.SourceGenerated).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generated events: %w", err)
	}
	return count, nil
}

// SaveGenerationRun writes a run, its warnings and its events in one transaction.
// When run.Replaced is set, earlier generated events of the period are deleted first.
func (d *DB) SaveGenerationRun(ctx context.Context, run *db.GenerationRun, events []db.Event, warnings []db.ShortageWarning) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if run.Replaced {
		_, err := tx.Exec(ctx, `
			DELETE FROM event
			WHERE source = $3 AND start_date <= $2::date AND end_date >= $1::date
		`, run.PeriodStart, run.PeriodEnd, db.SourceGenerated)
		if err != nil {
			return fmt.Errorf("failed to delete previously generated events: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO generation_run (id, year, month, period_start, period_end, seed, replaced, event_count, warning_count)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9)
	`, run.ID, run.Year, run.Month, run.PeriodStart, run.PeriodEnd, int64(run.Seed), run.Replaced, run.EventCount, run.WarningCount)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, w := range warnings {
		batch.Queue(`
			INSERT INTO shortage_warning (id, run_id, date, role, severity, missing, message)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		`, w.ID, run.ID, w.Date, w.Role, w.Severity, w.Missing, w.Message)
	}
	for _, e := range events {
		batch.Queue(`
			INSERT INTO event (id, worker_name, start_date, end_date, type, source, run_id)
			VALUES ($1, $2, $3::date, $4::date, $5, $6, $7)
		`, e.ID, e.WorkerName, e.Start, e.End, e.Type, db.SourceGenerated, run.ID)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert run events: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGenerationRuns retrieves all generation runs, most recent first
func (d *DB) GetGenerationRuns(ctx context.Context) ([]db.GenerationRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, year, month, period_start, period_end, seed, replaced, event_count, warning_count, created_at
		FROM generation_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation runs: %w", err)
	}
	defer rows.Close()

	var runs []db.GenerationRun
	for rows.Next() {
		var r db.GenerationRun
		var periodStart, periodEnd, createdAt time.Time
		var seed int64
		if err := rows.Scan(&r.ID, &r.Year, &r.Month, &periodStart, &periodEnd, &seed, &r.Replaced, &r.EventCount, &r.WarningCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		r.PeriodStart = periodStart.Format(dateLayout)
		r.PeriodEnd = periodEnd.Format(dateLayout)
		r.Seed = uint64(seed)
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation runs: %w", err)
	}

	return runs, nil
}
