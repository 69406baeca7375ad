package cdcl

import (
	"sort"

	"github.com/benti/sidekick/cnf"
)

// reduceDB discards the lower half (by activity) of learnt clauses, per
// §4.4's clause-DB reduction. A clause is never reclaimed while it is
// somebody's assignment reason, mirroring the go-sat/minisat-family
// "locked" check (reason clauses of currently-assigned literals are
// skipped regardless of activity).
func (e *Engine) reduceDB() {
	e.stats.IncrReductions()

	sort.Slice(e.learnt, func(i, j int) bool {
		return e.learnt[i].Activity() > e.learnt[j].Activity()
	})

	keepCount := len(e.learnt) / 2
	survivors := e.learnt[:0]
	for i, c := range e.learnt {
		if i < keepCount || e.locked(c) || c.Len() <= 2 {
			survivors = append(survivors, c)
			continue
		}
		e.db.Detach(c)
	}
	e.learnt = survivors
}

// attachLearnt registers a freshly learned clause: it always gets
// attached (even unit clauses, which watch their sole literal), and it
// is tracked for reduction unless it has at most two literals (unit and
// binary clauses are cheap enough to keep forever, per the usual
// MiniSat-family convention).
func (e *Engine) attachLearnt(c *cnf.Clause) {
	if c.Len() == 0 {
		return
	}
	e.db.Attach(c)
	e.bumpClauseActivity(c)
	if c.Len() > 2 {
		e.learnt = append(e.learnt, c)
	} else {
		e.permanent = append(e.permanent, c)
	}
}

func (e *Engine) locked(c *cnf.Clause) bool {
	for _, a := range c.Atoms() {
		if a.IsTrue() && a.Var().Reason().Clause == c {
			return true
		}
	}
	return false
}
