package cdcl

import (
	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
)

// propagate drives BCP to a fixed point, forwarding every newly-asserted
// literal to the theory interface's partial check as it stabilizes, and
// running the final check once both BCP and the theory have nothing left
// to add. It returns the first conflict clause encountered, from either
// BCP or a theory-raised conflict (recovered by runTheoryCheck and
// materialized by materializeConflict).
func (e *Engine) propagate() *cnf.Clause {
	for {
		if conflict := e.bcp(); conflict != nil {
			return conflict
		}

		newLits := e.trail[e.theoryHead:]
		if len(newLits) == 0 {
			return e.runTheoryCheck(true, nil)
		}
		e.theoryHead = len(e.trail)

		if conflict := e.runTheoryCheck(false, newLits); conflict != nil {
			return conflict
		}
		// The theory may have enqueued new literals via Acts.Propagate;
		// loop back into BCP to chase them before checking again.
	}
}

// bcp propagates the unit-clause consequences of every trail entry from
// qhead onward using the two-watched-literal scheme (§4.2), returning
// the violated clause on conflict.
func (e *Engine) bcp() *cnf.Clause {
	for e.qhead < len(e.trail) {
		assigned := e.trail[e.qhead]
		e.qhead++
		falseAtom := assigned.Neg()

		watchers := falseAtom.TakeWatchers()
		for i := 0; i < len(watchers); i++ {
			c := watchers[i]

			if c.Len() == 1 {
				falseAtom.PushWatcher(c)
				e.restoreWatchers(falseAtom, watchers[i+1:])
				return c
			}

			c.EnsureWatchAt(0, falseAtom)
			other := c.Atoms()[1]
			if other.IsTrue() {
				falseAtom.PushWatcher(c)
				continue
			}

			if replacement := e.findReplacementWatch(c); replacement >= 0 {
				e.db.ReplaceWatch(c, 0, replacement)
				continue
			}

			falseAtom.PushWatcher(c)
			if other.IsFalse() {
				e.restoreWatchers(falseAtom, watchers[i+1:])
				return c
			}
			e.enqueue(other, cnf.Reason{Kind: cnf.ReasonBCP, Clause: c})
		}
	}
	return nil
}

// findReplacementWatch scans c's non-watched atoms (index 2 onward) for
// one that isn't currently false, returning its index or -1.
func (e *Engine) findReplacementWatch(c *cnf.Clause) int {
	atoms := c.Atoms()
	for k := 2; k < len(atoms); k++ {
		if !atoms[k].IsFalse() {
			return k
		}
	}
	return -1
}

// restoreWatchers pushes back clauses BCP had not yet examined when it
// hit a conflict, so falseAtom's watch list stays complete for the next
// time it becomes false.
func (e *Engine) restoreWatchers(falseAtom *cnf.Atom, rest []*cnf.Clause) {
	for _, c := range rest {
		falseAtom.PushWatcher(c)
	}
}

// runTheoryCheck dispatches to the theory interface and recovers a
// RaiseConflict panic into a conflict clause, per theory.Acts's "never
// returns" contract on RaiseConflict.
func (e *Engine) runTheoryCheck(final bool, newLits []*cnf.Atom) (conflict *cnf.Clause) {
	defer func() {
		if r := recover(); r != nil {
			signal, ok := r.(conflictSignal)
			if !ok {
				panic(r)
			}
			conflict = e.materializeConflict(signal)
		}
	}()

	lits := make([]literal.Literal, 0, len(newLits))
	for _, a := range newLits {
		lits = append(lits, literal.Make(a.Sign(), a.Term()))
	}
	e.si.AssertLits(final, lits, e)
	return nil
}
