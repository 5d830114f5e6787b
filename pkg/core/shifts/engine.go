package shifts

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/asanahu/Calendario/pkg/core/calendar"
	"github.com/asanahu/Calendario/pkg/core/model"
)

// AllocationConfig contains everything a single allocation run needs
type AllocationConfig struct {
	// Snapshot is the loaded month: roster, business days and existing events
	Snapshot *MonthSnapshot

	// Counters are the fairness counters seeded from the yearly history.
	// They are cloned, the caller's map is never mutated.
	Counters FairnessCounters

	// Requirements are the default daily headcounts
	Requirements Requirements

	// DayRequirements replace Requirements on specific dates (YYYY-MM-DD)
	DayRequirements map[string]Requirements

	// Rand breaks ties between equally ranked candidates.
	// A nil Rand is replaced with a randomly seeded source.
	Rand *rand.Rand

	// Logger receives the run narration
	Logger *zap.Logger

	// Verbose enables per-decision narration at debug level. It never changes assignments.
	Verbose bool
}

// dayState holds the bookkeeping for the day being allocated
type dayState struct {
	date string
	req  Requirements

	// held is worker ID -> role held today, including manual duties and the no-duty sentinel
	held map[string]model.Role

	// constrained is worker ID -> permitted roles for workers with a multi-role directive
	constrained map[string][]model.Role

	// filled counts manual, fixed and generated assignments per role
	filled map[model.Role]int
}

// engine runs one allocation. It is not safe for concurrent use.
type engine struct {
	snapshot  *MonthSnapshot
	counters  FairnessCounters
	stability *stability
	rand      *rand.Rand
	logger    *zap.Logger
	verbose   bool

	baseReq Requirements
	dayReq  map[string]Requirements

	day    *dayState
	result *Result
}

// Allocate walks the business days of the snapshot in order and assigns rotating
// roles phase by phase. Shortfalls are reported as warnings, never as errors.
func Allocate(cfg AllocationConfig) *Result {
	e := newEngine(cfg)

	var previous time.Time
	for _, day := range e.snapshot.Days {
		// A new ISO week resets daily continuity and rolls the weekly memory
		if !previous.IsZero() && !calendar.SameWeek(previous, day) {
			e.stability.rollWeek()
		}
		previous = day

		e.allocateDay(day.Format(calendar.DateLayout))
	}

	e.result.Counters = e.counters

	e.logger.Debug("Allocation finished",
		zap.Int("year", e.snapshot.Year),
		zap.String("month", e.snapshot.Month.String()),
		zap.Int("events", len(e.result.Events)),
		zap.Int("warnings", len(e.result.Warnings)))

	return e.result
}

func newEngine(cfg AllocationConfig) *engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	counters := NewFairnessCounters()
	for role, counts := range cfg.Counters.Clone() {
		counters[role] = counts
	}

	return &engine{
		snapshot:  cfg.Snapshot,
		counters:  counters,
		stability: newStability(),
		rand:      rng,
		logger:    logger,
		verbose:   cfg.Verbose,
		baseReq:   cfg.Requirements,
		dayReq:    cfg.DayRequirements,
		result: &Result{
			Year:     cfg.Snapshot.Year,
			Month:    cfg.Snapshot.Month,
			Events:   []GeneratedEvent{},
			Warnings: []Warning{},
		},
	}
}

// narrate logs a decision when verbose output is enabled
func (e *engine) narrate(msg string, fields ...zap.Field) {
	if !e.verbose {
		return
	}
	e.logger.Debug(msg, append([]zap.Field{zap.String("date", e.day.date)}, fields...)...)
}

func (e *engine) requirementsFor(date string) Requirements {
	if req, ok := e.dayReq[date]; ok {
		return req
	}
	return e.baseReq
}

func (e *engine) allocateDay(date string) {
	e.day = &dayState{
		date:        date,
		req:         e.requirementsFor(date),
		held:        make(map[string]model.Role),
		constrained: make(map[string][]model.Role),
		filled:      make(map[model.Role]int),
	}

	// Manual duties fill their role and count towards fairness
	for workerID, role := range e.snapshot.ManualDuties(date) {
		e.day.held[workerID] = role
		e.day.filled[role]++
		e.counters.Increment(role, workerID)
	}

	e.narrate("Processing day", zap.Int("manual_duties", len(e.day.held)))

	e.fixedRolePhase()
	e.afternoonPhase()
	e.reinforcementPhase()
	e.residualPhases()

	e.stability.endDay(e.day.held)
}

// fixedRolePhase assigns mandatory roles and records multi-role constraints
func (e *engine) fixedRolePhase() {
	for _, w := range e.snapshot.Workers {
		if len(w.FixedRoles) == 0 || !e.isCandidate(w) {
			continue
		}

		role, mandatory := w.MandatoryRole()
		if !mandatory {
			e.day.constrained[w.ID] = w.PermittedRoles()
			continue
		}

		switch {
		case role == model.RoleNoDuty:
			// Consumed for the day without producing an event
			e.day.held[w.ID] = model.RoleNoDuty
			e.narrate("Fixed no-duty", zap.String("worker_id", w.ID))
		case role.IsRotating():
			e.assign(w, role)
			e.narrate("Fixed role assigned", zap.String("worker_id", w.ID), zap.String("role", string(role)))
		default:
			e.logger.Warn("Ignoring unknown fixed role",
				zap.String("worker_id", w.ID),
				zap.String("role", string(role)))
		}
	}
}

// afternoonPhase fills the afternoon requirement from skilled workers
func (e *engine) afternoonPhase() {
	needed := e.day.req.Afternoon - e.day.filled[model.RoleAfternoon]
	if needed <= 0 {
		return
	}

	var pool []model.Worker
	for _, w := range e.snapshot.Workers {
		if e.isCandidate(w) && w.HasSkill(model.SkillAfternoon) && e.allows(w.ID, model.RoleAfternoon) {
			pool = append(pool, w)
		}
	}

	e.shuffle(pool)
	e.rank(pool, model.RoleAfternoon, rankFair)

	chosen := pool[:min(needed, len(pool))]
	for _, w := range chosen {
		e.assign(w, model.RoleAfternoon)
	}

	e.narrate("Afternoon phase", zap.Int("needed", needed), zap.Int("pool", len(pool)), zap.Int("assigned", len(chosen)))

	if missing := needed - len(chosen); missing > 0 {
		e.warn(model.RoleAfternoon, missing, SeverityCritical,
			fmt.Sprintf("Missing %d workers for %s on %s (available: %d)",
				missing, model.RoleAfternoon, e.day.date, len(pool)))
	}
}

// reinforcementPhase assigns one reinforcement when a flexible or reduced-hours worker is working
func (e *engine) reinforcementPhase() {
	if !e.needsReinforcement() {
		return
	}

	if e.day.filled[model.RoleReinforcement] > 0 {
		e.narrate("Reinforcement already covered")
		return
	}

	var pool []model.Worker
	for _, w := range e.snapshot.Workers {
		if e.isCandidate(w) && e.allows(w.ID, model.RoleReinforcement) {
			pool = append(pool, w)
		}
	}

	if len(pool) == 0 {
		e.warn(model.RoleReinforcement, ReinforcementHeadcount, SeverityWarning,
			fmt.Sprintf("No candidate for %s on %s", model.RoleReinforcement, e.day.date))
		return
	}

	e.shuffle(pool)
	e.rank(pool, model.RoleReinforcement, rankFair)

	e.assign(pool[0], model.RoleReinforcement)
	e.narrate("Reinforcement assigned", zap.String("worker_id", pool[0].ID), zap.Int("pool", len(pool)))
}

// needsReinforcement returns true if any flexible or reduced-hours worker has no absence today
func (e *engine) needsReinforcement() bool {
	for _, w := range e.snapshot.Workers {
		if !w.HasSkill(model.SkillFlexible) && !w.HasSkill(model.SkillReduced) {
			continue
		}
		if e.snapshot.IsWorking(e.day.date, w.ID) {
			return true
		}
	}
	return false
}

// residualPhases fills Coverage A, Coverage B and Mail from one shared pool
func (e *engine) residualPhases() {
	var remaining []model.Worker
	for _, w := range e.snapshot.Workers {
		if e.isCandidate(w) {
			remaining = append(remaining, w)
		}
	}

	// Shuffled once, each phase re-sorts the survivors stably
	e.shuffle(remaining)

	for _, role := range []model.Role{model.RoleCoverageA, model.RoleCoverageB} {
		remaining = e.fillResidual(remaining, role, SeverityCritical)
	}

	e.fillMail(remaining)
}

func (e *engine) fillResidual(remaining []model.Worker, role model.Role, severity Severity) []model.Worker {
	target := e.day.req.For(role)
	needed := target - e.day.filled[role]

	e.rank(remaining, role, rankResidual)

	for e.day.filled[role] < target {
		idx := slices.IndexFunc(remaining, func(w model.Worker) bool {
			return e.allows(w.ID, role)
		})
		if idx < 0 {
			e.narrate("No valid candidate", zap.String("role", string(role)), zap.Int("remaining", len(remaining)))
			break
		}

		e.assign(remaining[idx], role)
		remaining = slices.Delete(remaining, idx, idx+1)
	}

	e.narrate("Residual phase",
		zap.String("role", string(role)),
		zap.Int("needed", needed),
		zap.Int("filled", e.day.filled[role]))

	if missing := target - e.day.filled[role]; missing > 0 {
		e.warn(role, missing, severity,
			fmt.Sprintf("Missing %d workers for %s on %s (covered: %d)",
				missing, role, e.day.date, e.day.filled[role]))
	}

	return remaining
}

func (e *engine) fillMail(remaining []model.Worker) {
	target := e.day.req.Mail

	for e.day.filled[model.RoleMail] < target {
		var candidates []model.Worker
		for _, w := range remaining {
			if isMailEligible(w) && e.allows(w.ID, model.RoleMail) {
				candidates = append(candidates, w)
			}
		}
		if len(candidates) == 0 {
			e.narrate("No mail candidates", zap.Int("remaining", len(remaining)))
			break
		}

		e.rank(candidates, model.RoleMail, rankContinuity)

		chosen := candidates[0]
		e.assign(chosen, model.RoleMail)
		remaining = slices.DeleteFunc(remaining, func(w model.Worker) bool {
			return w.ID == chosen.ID
		})
	}

	if missing := target - e.day.filled[model.RoleMail]; missing > 0 {
		e.warn(model.RoleMail, missing, SeverityWarning,
			fmt.Sprintf("Missing %d workers for %s on %s (covered: %d)",
				missing, model.RoleMail, e.day.date, e.day.filled[model.RoleMail]))
	}
}

// isMailEligible accepts the mail skill or Mail listed among the fixed roles
func isMailEligible(w model.Worker) bool {
	return w.HasSkill(model.SkillMail) || slices.Contains(w.FixedRoles, model.RoleMail)
}

// isCandidate returns true if the worker is free today and not yet assigned
func (e *engine) isCandidate(w model.Worker) bool {
	if _, taken := e.day.held[w.ID]; taken {
		return false
	}
	return e.snapshot.IsAvailable(e.day.date, w.ID)
}

// allows returns true if a worker's multi-role directive permits the role
func (e *engine) allows(workerID string, role model.Role) bool {
	permitted, constrained := e.day.constrained[workerID]
	if !constrained {
		return true
	}
	return slices.Contains(permitted, role)
}

// assign records a generated event and updates the day and fairness bookkeeping
func (e *engine) assign(w model.Worker, role model.Role) {
	e.result.Events = append(e.result.Events, GeneratedEvent{
		WorkerID:   w.ID,
		WorkerName: w.Name(),
		Date:       e.day.date,
		Role:       role,
	})
	e.day.held[w.ID] = role
	e.day.filled[role]++
	e.counters.Increment(role, w.ID)
}

func (e *engine) warn(role model.Role, missing int, severity Severity, message string) {
	e.result.Warnings = append(e.result.Warnings, Warning{
		Date:     e.day.date,
		Role:     role,
		Message:  message,
		Severity: severity,
		Missing:  missing,
	})

	e.logger.Debug("Staffing shortfall",
		zap.String("date", e.day.date),
		zap.String("role", string(role)),
		zap.Int("missing", missing),
		zap.String("severity", string(severity)))
}
