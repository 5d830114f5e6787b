package shifts

import (
	"time"

	"github.com/asanahu/Calendario/pkg/core/model"
)

// Result is the outcome of one allocation run. Nothing in it has been persisted.
type Result struct {
	Year  int
	Month time.Month

	// Events are the generated assignments, by date then phase
	Events []GeneratedEvent

	// Warnings are the unfilled requirements, by date then phase
	Warnings []Warning

	// Counters are the fairness counters after the run, manual duties of the month included
	Counters FairnessCounters
}

// EventsOn returns the generated events of a date
func (r *Result) EventsOn(date string) []GeneratedEvent {
	var events []GeneratedEvent
	for _, e := range r.Events {
		if e.Date == date {
			events = append(events, e)
		}
	}
	return events
}

// CountByRole returns the number of generated events per role
func (r *Result) CountByRole() map[model.Role]int {
	counts := make(map[model.Role]int)
	for _, e := range r.Events {
		counts[e.Role]++
	}
	return counts
}

// WarningsFor returns the warnings raised for a role on a date
func (r *Result) WarningsFor(date string, role model.Role) []Warning {
	var warnings []Warning
	for _, w := range r.Warnings {
		if w.Date == date && w.Role == role {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// CriticalCount returns the number of critical warnings
func (r *Result) CriticalCount() int {
	count := 0
	for _, w := range r.Warnings {
		if w.Severity == SeverityCritical {
			count++
		}
	}
	return count
}
