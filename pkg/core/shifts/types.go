package shifts

import (
	"errors"

	"github.com/asanahu/Calendario/pkg/core/model"
)

// ErrLoadFailed is returned when the roster or event history cannot be retrieved.
// No allocation is attempted after a load failure.
var ErrLoadFailed = errors.New("failed to load allocation inputs")

// Severity grades a staffing shortfall
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Default daily headcounts
const (
	DefaultCoverageA = 3
	DefaultCoverageB = 4
	DefaultAfternoon = 4
	DefaultMail      = 1

	// ReinforcementHeadcount is the number of reinforcement slots on a day that needs one
	ReinforcementHeadcount = 1
)

// Requirements are the configured daily headcount targets per rotating role
type Requirements struct {
	CoverageA int
	CoverageB int
	Afternoon int
	Mail      int
}

// DefaultRequirements returns the documented default headcounts
func DefaultRequirements() Requirements {
	return Requirements{
		CoverageA: DefaultCoverageA,
		CoverageB: DefaultCoverageB,
		Afternoon: DefaultAfternoon,
		Mail:      DefaultMail,
	}
}

// For returns the headcount target for a role. Reinforcement is not configurable.
func (r Requirements) For(role model.Role) int {
	switch role {
	case model.RoleCoverageA:
		return r.CoverageA
	case model.RoleCoverageB:
		return r.CoverageB
	case model.RoleAfternoon:
		return r.Afternoon
	case model.RoleMail:
		return r.Mail
	case model.RoleReinforcement:
		return ReinforcementHeadcount
	}
	return 0
}

// ExistingEvent is an event already present in the event store
type ExistingEvent struct {
	WorkerName string
	Start      string
	End        string
	Type       model.EventType
}

// GeneratedEvent is a single-day role assignment produced by the engine.
// A worker with no GeneratedEvent on a day is in the default unassigned state.
type GeneratedEvent struct {
	WorkerID   string
	WorkerName string
	Date       string
	Role       model.Role
}

// Warning records a role that could not be fully staffed on a date
type Warning struct {
	Date     string
	Role     model.Role
	Message  string
	Severity Severity

	// Missing is the exact shortfall
	Missing int
}

// FairnessCounters tracks cumulative assignments as role -> worker ID -> count
type FairnessCounters map[model.Role]map[string]int

// NewFairnessCounters creates empty counters for every rotating role
func NewFairnessCounters() FairnessCounters {
	counters := make(FairnessCounters, len(model.RotatingRoles))
	for _, role := range model.RotatingRoles {
		counters[role] = make(map[string]int)
	}
	return counters
}

// Get returns the count for a worker and role
func (fc FairnessCounters) Get(role model.Role, workerID string) int {
	return fc[role][workerID]
}

// Increment adds one assignment of role to a worker
func (fc FairnessCounters) Increment(role model.Role, workerID string) {
	if fc[role] == nil {
		fc[role] = make(map[string]int)
	}
	fc[role][workerID]++
}

// Clone returns a deep copy so a run never mutates its input snapshot
func (fc FairnessCounters) Clone() FairnessCounters {
	clone := make(FairnessCounters, len(fc))
	for role, counts := range fc {
		inner := make(map[string]int, len(counts))
		for id, n := range counts {
			inner[id] = n
		}
		clone[role] = inner
	}
	return clone
}
