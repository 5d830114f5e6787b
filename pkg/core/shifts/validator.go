package shifts

import (
	"fmt"
	"slices"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

// ViolationKind names the rule a generated result broke
type ViolationKind string

const (
	ViolationDoubleBooking       ViolationKind = "double_booking"
	ViolationAbsence             ViolationKind = "absence"
	ViolationConstraint          ViolationKind = "constraint"
	ViolationNonBusinessDay      ViolationKind = "non_business_day"
	ViolationOverRequirement     ViolationKind = "over_requirement"
	ViolationUnreportedShortfall ViolationKind = "unreported_shortfall"
	ViolationUnknownWorker       ViolationKind = "unknown_worker"
)

// Violation is a broken invariant found in a result
type Violation struct {
	Date        string
	WorkerID    string
	Role        model.Role
	Kind        ViolationKind
	Description string
}

// Validate checks a result against the snapshot it was generated from.
// overrides replaces requirements on specific dates, as in AllocationConfig.
// Returns an empty slice when the result is consistent.
func Validate(snapshot *MonthSnapshot, result *Result, requirements Requirements, overrides map[string]Requirements) []Violation {
	violations := []Violation{}

	// date -> worker ID -> number of generated events
	perWorker := make(map[string]map[string]int)
	// date -> role -> generated events not coming from a mandatory fixed role
	flexible := make(map[string]map[model.Role]int)
	// date -> role -> all generated events
	generated := make(map[string]map[model.Role]int)

	for _, e := range result.Events {
		if perWorker[e.Date] == nil {
			perWorker[e.Date] = make(map[string]int)
			flexible[e.Date] = make(map[model.Role]int)
			generated[e.Date] = make(map[model.Role]int)
		}
		perWorker[e.Date][e.WorkerID]++
		generated[e.Date][e.Role]++

		add := func(kind ViolationKind, format string, args ...any) {
			violations = append(violations, Violation{
				Date:        e.Date,
				WorkerID:    e.WorkerID,
				Role:        e.Role,
				Kind:        kind,
				Description: fmt.Sprintf(format, args...),
			})
		}

		if !snapshot.IsBusinessDay(e.Date) {
			add(ViolationNonBusinessDay, "%s assigned %s on non-business day %s", e.WorkerName, e.Role, e.Date)
		}

		if perWorker[e.Date][e.WorkerID] == 2 {
			add(ViolationDoubleBooking, "%s has more than one generated event on %s", e.WorkerName, e.Date)
		}

		existing := snapshot.EventOn(e.Date, e.WorkerID)
		switch {
		case existing.IsAbsence():
			add(ViolationAbsence, "%s assigned %s while on %s", e.WorkerName, e.Role, existing)
		case existing.BlocksAvailability():
			add(ViolationDoubleBooking, "%s assigned %s on top of existing %s", e.WorkerName, e.Role, existing)
		}

		worker, ok := snapshot.WorkerByID(e.WorkerID)
		if !ok {
			add(ViolationUnknownWorker, "worker %s is not in the roster", e.WorkerID)
			continue
		}

		mandatory, isMandatory := worker.MandatoryRole()
		switch {
		case isMandatory && mandatory != e.Role:
			add(ViolationConstraint, "%s must hold %s but was assigned %s", e.WorkerName, mandatory, e.Role)
		case !isMandatory && len(worker.PermittedRoles()) > 0 && !slices.Contains(worker.PermittedRoles(), e.Role):
			add(ViolationConstraint, "%s is not permitted %s", e.WorkerName, e.Role)
		}

		if !isMandatory {
			flexible[e.Date][e.Role]++
		}
	}

	// Headcount checks per business day
	for _, day := range snapshot.Days {
		date := day.Format(calendar.DateLayout)
		req := requirements
		if override, ok := overrides[date]; ok {
			req = override
		}

		for _, role := range []model.Role{model.RoleAfternoon, model.RoleCoverageA, model.RoleCoverageB, model.RoleMail} {
			target := req.For(role)
			filled := snapshot.ManualCount(date, role) + generated[date][role]

			if flexible[date][role] > 0 && filled > target {
				violations = append(violations, Violation{
					Date:        date,
					Role:        role,
					Kind:        ViolationOverRequirement,
					Description: fmt.Sprintf("%s has %d assigned for a requirement of %d on %s", role, filled, target, date),
				})
			}

			if filled < target && len(result.WarningsFor(date, role)) == 0 {
				violations = append(violations, Violation{
					Date:        date,
					Role:        role,
					Kind:        ViolationUnreportedShortfall,
					Description: fmt.Sprintf("%s is %d short on %s with no warning", role, target-filled, date),
				})
			}
		}

		reinforcements := snapshot.ManualCount(date, model.RoleReinforcement) + generated[date][model.RoleReinforcement]
		if flexible[date][model.RoleReinforcement] > 0 && reinforcements > ReinforcementHeadcount {
			violations = append(violations, Violation{
				Date:        date,
				Role:        model.RoleReinforcement,
				Kind:        ViolationOverRequirement,
				Description: fmt.Sprintf("%s has %d assigned on %s", model.RoleReinforcement, reinforcements, date),
			})
		}
	}

	return violations
}
