package shifts

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

// mockEventSource serves events from memory using the same overlap rule as the store
type mockEventSource struct {
	events []ExistingEvent
	err    error
	calls  [][2]string
}

func (m *mockEventSource) FindEvents(ctx context.Context, from, to string) ([]ExistingEvent, error) {
	m.calls = append(m.calls, [2]string{from, to})
	if m.err != nil {
		return nil, m.err
	}

	var matched []ExistingEvent
	for _, e := range m.events {
		end := e.End
		if end == "" {
			end = e.Start
		}
		if e.Start <= to && end >= from {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func worker(id, first, last string, skills ...model.Skill) model.Worker {
	return model.Worker{ID: id, FirstName: first, LastName: last, Skills: skills}
}

func fixedWorker(id, first, last string, roles ...model.Role) model.Worker {
	return model.Worker{ID: id, FirstName: first, LastName: last, FixedRoles: roles}
}

// plainWorkers creates n workers without skills, IDs p01..pNN
func plainWorkers(n int) []model.Worker {
	workers := make([]model.Worker, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%02d", i)
		workers = append(workers, worker(id, "Plain", id))
	}
	return workers
}

// january builds a snapshot for January 2025 with optional one-off holidays
func january(t *testing.T, workers []model.Worker, events []ExistingEvent, holidays ...string) *MonthSnapshot {
	t.Helper()
	cal, err := calendar.New(holidays, nil)
	require.NoError(t, err)
	return NewMonthSnapshot(cal, workers, 2025, time.January, events, zap.NewNop())
}

func allocate(snapshot *MonthSnapshot, req Requirements) *Result {
	return Allocate(AllocationConfig{
		Snapshot:     snapshot,
		Requirements: req,
		Rand:         rand.New(rand.NewPCG(42, 7)),
		Logger:       zap.NewNop(),
	})
}

// holdersOn returns the IDs of workers generated for a role on a date
func holdersOn(result *Result, date string, role model.Role) map[string]bool {
	holders := make(map[string]bool)
	for _, e := range result.EventsOn(date) {
		if e.Role == role {
			holders[e.WorkerID] = true
		}
	}
	return holders
}

func eventsFor(result *Result, workerID string) []GeneratedEvent {
	var events []GeneratedEvent
	for _, e := range result.Events {
		if e.WorkerID == workerID {
			events = append(events, e)
		}
	}
	return events
}
