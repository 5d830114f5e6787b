package shifts

import "github.com/asanahu/Calendario/pkg/core/model"

// roleTally counts the roles a worker held during the current week
type roleTally struct {
	counts map[model.Role]int

	// seen records the sequence number of the last day each role was held
	seen map[model.Role]int
}

// dominant returns the most frequent role, the most recent one winning ties
func (t *roleTally) dominant() model.Role {
	var best model.Role
	bestCount, bestSeen := 0, -1

	for role, count := range t.counts {
		seen := t.seen[role]
		if count > bestCount || (count == bestCount && seen > bestSeen) {
			best, bestCount, bestSeen = role, count, seen
		}
	}
	return best
}

// stability is the continuity memory used by ranking.
// It is owned by a single allocation run and discarded afterwards.
type stability struct {
	// lastDay is worker ID -> role held on the previous business day of the week
	lastDay map[string]model.Role

	// lastWeek is worker ID -> dominant role of the previous week
	lastWeek map[string]model.Role

	week map[string]*roleTally
	seq  int
}

func newStability() *stability {
	return &stability{
		lastDay:  make(map[string]model.Role),
		lastWeek: make(map[string]model.Role),
		week:     make(map[string]*roleTally),
	}
}

// rollWeek clears daily continuity and promotes the week accumulator to lastWeek
func (s *stability) rollWeek() {
	s.lastDay = make(map[string]model.Role)

	lastWeek := make(map[string]model.Role, len(s.week))
	for workerID, tally := range s.week {
		if role := tally.dominant(); role != "" {
			lastWeek[workerID] = role
		}
	}
	s.lastWeek = lastWeek
	s.week = make(map[string]*roleTally)
}

// endDay replaces lastDay with the roles held today and folds them into the week
func (s *stability) endDay(held map[string]model.Role) {
	s.seq++

	lastDay := make(map[string]model.Role, len(held))
	for workerID, role := range held {
		lastDay[workerID] = role

		tally, ok := s.week[workerID]
		if !ok {
			tally = &roleTally{
				counts: make(map[model.Role]int),
				seen:   make(map[model.Role]int),
			}
			s.week[workerID] = tally
		}
		tally.counts[role]++
		tally.seen[role] = s.seq
	}
	s.lastDay = lastDay
}

func (s *stability) heldYesterday(workerID string, role model.Role) bool {
	return s.lastDay[workerID] == role
}

func (s *stability) heldLastWeek(workerID string, role model.Role) bool {
	return s.lastWeek[workerID] == role
}
