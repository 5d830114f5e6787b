package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

func TestLoadMonth_OverlappingEvents(t *testing.T) {
	source := &mockEventSource{
		events: []ExistingEvent{
			// Starts in December, still blocks the first January days
			{WorkerName: "Plain p01", Start: "2024-12-23", End: "2025-01-03", Type: model.EventVacation},
			{WorkerName: "Plain p02", Start: "2025-01-15", Type: model.EventType(model.RoleMail)},
			{WorkerName: "Plain p03", Start: "2025-01-30", End: "2025-02-05", Type: "Training"},
			{WorkerName: "Nobody Known", Start: "2025-01-10", Type: model.EventAbsent},
		},
	}
	cal, err := calendar.New(nil, nil)
	require.NoError(t, err)

	snapshot, err := LoadMonth(context.Background(), source, cal, plainWorkers(3), 2025, time.January, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, source.calls, 1)
	assert.Equal(t, [2]string{"2025-01-01", "2025-01-31"}, source.calls[0])

	assert.Equal(t, "2025-01-01", snapshot.Start)
	assert.Equal(t, "2025-01-31", snapshot.End)

	assert.Equal(t, model.EventVacation, snapshot.EventOn("2025-01-02", "p01"))
	assert.Equal(t, model.EventVacation, snapshot.EventOn("2025-01-03", "p01"))
	assert.False(t, snapshot.IsAvailable("2025-01-03", "p01"))
	assert.False(t, snapshot.IsWorking("2025-01-03", "p01"))
	assert.True(t, snapshot.IsAvailable("2025-01-06", "p01"))

	assert.Equal(t, map[string]model.Role{"p02": model.RoleMail}, snapshot.ManualDuties("2025-01-15"))
	assert.Equal(t, 1, snapshot.ManualCount("2025-01-15", model.RoleMail))
	assert.False(t, snapshot.IsAvailable("2025-01-15", "p02"))
	assert.True(t, snapshot.IsWorking("2025-01-15", "p02"))

	// Unknown types block availability without being an absence
	assert.False(t, snapshot.IsAvailable("2025-01-31", "p03"))
	assert.True(t, snapshot.IsWorking("2025-01-31", "p03"))
}

func TestLoadMonth_SourceFailure(t *testing.T) {
	source := &mockEventSource{err: errors.New("connection refused")}
	cal, err := calendar.New(nil, nil)
	require.NoError(t, err)

	snapshot, err := LoadMonth(context.Background(), source, cal, plainWorkers(1), 2025, time.January, zap.NewNop())
	assert.Nil(t, snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewMonthSnapshot_StrongestEventWins(t *testing.T) {
	events := []ExistingEvent{
		{WorkerName: "Plain p01", Start: "2025-01-02", Type: model.EventNoDuty},
		{WorkerName: "Plain p01", Start: "2025-01-02", Type: model.EventType(model.RoleCoverageA)},
		{WorkerName: "Plain p01", Start: "2025-01-02", Type: model.EventMedicalLeave},
		{WorkerName: "Plain p01", Start: "2025-01-02", Type: model.EventType(model.RoleMail)},
	}
	snapshot := january(t, plainWorkers(1), events)

	assert.Equal(t, model.EventMedicalLeave, snapshot.EventOn("2025-01-02", "p01"))
	assert.Empty(t, snapshot.ManualDuties("2025-01-02"))
}

func TestNewMonthSnapshot_InvalidDatesSkipped(t *testing.T) {
	events := []ExistingEvent{
		{WorkerName: "Plain p01", Start: "2025-01-xx", Type: model.EventVacation},
		{WorkerName: "Plain p01", Start: "2025-01-10", End: "2025-01-05", Type: model.EventVacation},
	}
	snapshot := january(t, plainWorkers(1), events)

	for _, day := range snapshot.Days {
		assert.True(t, snapshot.IsAvailable(day.Format(calendar.DateLayout), "p01"))
	}
}

func TestNormalizeWorkers(t *testing.T) {
	workers := []model.Worker{
		{
			ID:         " w2 ",
			FirstName:  " Luis ",
			LastName:   "Perez ",
			Skills:     []model.Skill{"Mail", " mail", "", "flexible"},
			FixedRoles: []model.Role{"", " Coverage A ", "Coverage A"},
		},
		{ID: "w1", FirstName: "Ana", LastName: "Gil"},
	}

	normalized := NormalizeWorkers(workers)
	require.Len(t, normalized, 2)

	assert.Equal(t, "w1", normalized[0].ID)
	assert.Equal(t, "w2", normalized[1].ID)
	assert.Equal(t, "Luis Perez", normalized[1].Name())
	assert.Equal(t, []model.Skill{model.SkillMail, model.SkillFlexible}, normalized[1].Skills)
	assert.Equal(t, []model.Role{model.RoleCoverageA}, normalized[1].FixedRoles)

	role, ok := normalized[1].MandatoryRole()
	assert.True(t, ok)
	assert.Equal(t, model.RoleCoverageA, role)
}

func TestMonthSnapshot_WorkerByID(t *testing.T) {
	snapshot := january(t, plainWorkers(5), nil)

	w, ok := snapshot.WorkerByID("p03")
	assert.True(t, ok)
	assert.Equal(t, "Plain p03", w.Name())

	_, ok = snapshot.WorkerByID("missing")
	assert.False(t, ok)
}

func TestNameIndex_DuplicateNames(t *testing.T) {
	workers := []model.Worker{
		worker("w1", "Ana", "Gil"),
		worker("w2", "Ana", "Gil"),
	}

	index := NameIndex(workers, zap.NewNop())
	assert.Equal(t, map[string]string{"Ana Gil": "w1"}, index)
}
