package services

import (
	"context"
	"fmt"

	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/db"
)

// mockEventStore implements db.EventStore in memory
type mockEventStore struct {
	events []db.Event
	runs   []db.GenerationRun

	findErr  error
	countErr error
	saveErr  error

	savedEvents   []db.Event
	savedWarnings []db.ShortageWarning
}

func overlaps(e db.Event, from, to string) bool {
	end := e.End
	if end == "" {
		end = e.Start
	}
	return e.Start <= to && end >= from
}

func (m *mockEventStore) FindEvents(ctx context.Context, from, to string) ([]db.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var matched []db.Event
	for _, e := range m.events {
		if overlaps(e, from, to) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (m *mockEventStore) CountGeneratedEvents(ctx context.Context, from, to string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, e := range m.events {
		if e.Source == db.SourceGenerated && overlaps(e, from, to) {
			count++
		}
	}
	return count, nil
}

func (m *mockEventStore) SaveGenerationRun(ctx context.Context, run *db.GenerationRun, events []db.Event, warnings []db.ShortageWarning) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs = append(m.runs, *run)
	m.savedEvents = append(m.savedEvents, events...)
	m.savedWarnings = append(m.savedWarnings, warnings...)
	return nil
}

func (m *mockEventStore) GetGenerationRuns(ctx context.Context) ([]db.GenerationRun, error) {
	return m.runs, nil
}

// mockDirectory implements db.WorkerDirectory
type mockDirectory struct {
	workers []db.Worker
	err     error
}

func (m *mockDirectory) ListWorkers(ctx context.Context) ([]db.Worker, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.workers, nil
}

// mockWorkerStore implements db.WorkerStore
type mockWorkerStore struct {
	mockDirectory
	upserted  []db.Worker
	upsertErr error
}

func (m *mockWorkerStore) UpsertWorkers(ctx context.Context, workers []db.Worker) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, workers...)
	return nil
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

// mockNotifier records emails instead of sending them
type mockNotifier struct {
	sent []sentEmail
	err  error
}

func (m *mockNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// team returns n active workers w01..wNN. The first five can cover afternoons
// and the last two handle mail.
func team(n int) []db.Worker {
	workers := make([]db.Worker, 0, n)
	for i := 1; i <= n; i++ {
		w := db.Worker{
			ID:        fmt.Sprintf("w%02d", i),
			FirstName: "Worker",
			LastName:  fmt.Sprintf("%02d", i),
			Active:    true,
		}
		if i <= 5 {
			w.Skills = append(w.Skills, "afternoon")
		}
		if i > n-2 {
			w.Skills = append(w.Skills, "mail")
		}
		workers = append(workers, w)
	}
	return workers
}

func testConfig() *config.Config {
	return &config.Config{DatabaseURL: "postgres://localhost/test"}
}

func seed(v uint64) *uint64 {
	return &v
}

func intPtr(i int) *int {
	return &i
}
