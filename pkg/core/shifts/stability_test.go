package shifts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asanahu/Calendario/pkg/core/model"
)

func TestStability_DominantRole(t *testing.T) {
	s := newStability()
	s.endDay(map[string]model.Role{"w1": model.RoleCoverageA, "w2": model.RoleMail})
	s.endDay(map[string]model.Role{"w1": model.RoleCoverageA, "w2": model.RoleAfternoon})
	s.endDay(map[string]model.Role{"w1": model.RoleCoverageB})

	assert.True(t, s.heldYesterday("w1", model.RoleCoverageB))
	assert.False(t, s.heldYesterday("w2", model.RoleAfternoon), "w2 held nothing on the last day")

	s.rollWeek()

	assert.Empty(t, s.lastDay)
	assert.True(t, s.heldLastWeek("w1", model.RoleCoverageA))
	// Tie between Mail and Afternoon: the most recent wins
	assert.True(t, s.heldLastWeek("w2", model.RoleAfternoon))
}

func TestStability_RollWithoutHistory(t *testing.T) {
	s := newStability()
	s.rollWeek()
	s.rollWeek()

	assert.Empty(t, s.lastWeek)
	assert.False(t, s.heldLastWeek("w1", model.RoleCoverageA))
}

func TestRankKey_Compare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     rankKey
		expected int
	}{
		{"constrained first", rankKey{constrained: 0, yesterday: 1, count: 9}, rankKey{constrained: 1, yesterday: 0}, -1},
		{"continuity before count", rankKey{constrained: 1, yesterday: 0, count: 9}, rankKey{constrained: 1, yesterday: 1}, -1},
		{"last week pushes back", rankKey{lastWeek: 1}, rankKey{lastWeek: 0, count: 5}, 1},
		{"count breaks remaining ties", rankKey{count: 2}, rankKey{count: 3}, -1},
		{"equal", rankKey{count: 1}, rankKey{count: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.compare(tt.b))
		})
	}
}
