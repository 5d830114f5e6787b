package db

import "context"

// EventStore defines the interface for calendar event operations
type EventStore interface {
	// FindEvents returns every event overlapping the inclusive [from, to] range
	FindEvents(ctx context.Context, from, to string) ([]Event, error)

	// CountGeneratedEvents counts generated events overlapping the inclusive [from, to] range
	CountGeneratedEvents(ctx context.Context, from, to string) (int, error)

	// SaveGenerationRun persists a run with its events and warnings atomically.
	// When run.Replaced is set, generated events of the run's period are deleted first.
	SaveGenerationRun(ctx context.Context, run *GenerationRun, events []Event, warnings []ShortageWarning) error

	// GetGenerationRuns returns all runs, most recent first
	GetGenerationRuns(ctx context.Context) ([]GenerationRun, error)
}

// WorkerDirectory is a read-only source of the worker roster
type WorkerDirectory interface {
	ListWorkers(ctx context.Context) ([]Worker, error)
}

// WorkerStore defines the interface for worker database operations
type WorkerStore interface {
	WorkerDirectory
	UpsertWorkers(ctx context.Context, workers []Worker) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	EventStore
	WorkerStore
	RunMigrations(ctx context.Context) ([]string, error)
	Close()
}
