package shifts

import (
	"cmp"
	"sort"

	"github.com/asanahu/Calendario/pkg/core/model"
)

// rankMode selects which terms of the ranking key apply
type rankMode int

const (
	// rankFair orders by continuity then by fairness count
	rankFair rankMode = iota

	// rankResidual puts constrained workers first, then applies rankFair
	rankResidual

	// rankContinuity orders by continuity only
	rankContinuity
)

// rankKey is compared lexicographically, lower sorts first
type rankKey struct {
	constrained int
	yesterday   int
	lastWeek    int
	count       int
}

func (k rankKey) compare(other rankKey) int {
	return cmp.Or(
		cmp.Compare(k.constrained, other.constrained),
		cmp.Compare(k.yesterday, other.yesterday),
		cmp.Compare(k.lastWeek, other.lastWeek),
		cmp.Compare(k.count, other.count),
	)
}

// key builds the ranking key of a worker for a role.
// Holding the role yesterday pulls a worker forward; holding it as last week's
// dominant role pushes them back so roles rotate between weeks.
func (e *engine) key(w model.Worker, role model.Role, mode rankMode) rankKey {
	k := rankKey{yesterday: 1}

	if e.stability.heldYesterday(w.ID, role) {
		k.yesterday = 0
	}
	if e.stability.heldLastWeek(w.ID, role) {
		k.lastWeek = 1
	}

	switch mode {
	case rankResidual:
		if _, constrained := e.day.constrained[w.ID]; !constrained {
			k.constrained = 1
		}
		k.count = e.counters.Get(role, w.ID)
	case rankFair:
		k.count = e.counters.Get(role, w.ID)
	}

	return k
}

// shuffle randomizes the order of a pool so ties are broken randomly
func (e *engine) shuffle(pool []model.Worker) {
	e.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}

// rank stable-sorts a pool in place for a role
func (e *engine) rank(pool []model.Worker, role model.Role, mode rankMode) {
	sort.SliceStable(pool, func(i, j int) bool {
		return e.key(pool[i], role, mode).compare(e.key(pool[j], role, mode)) < 0
	})
}
