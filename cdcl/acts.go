package cdcl

import (
	"github.com/google/uuid"

	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
)

// conflictSignal is the payload panicked by RaiseConflict. It is
// unexported so only this package's recover() sites can catch it;
// anything else propagates as a genuine panic.
type conflictSignal struct {
	lits  []*cnf.Atom
	token uuid.UUID
}

// RaiseConflict implements theory.Acts. Per the contract it never
// returns: it panics with the conflict payload, unwinding straight back
// to the runTheoryCheck call that is waiting to recover it.
func (e *Engine) RaiseConflict(lits []*cnf.Atom, proofToken uuid.UUID) {
	panic(conflictSignal{lits: lits, token: proofToken})
}

// materializeConflict turns a caught RaiseConflict payload into a
// conflict clause: the theory asserted that ¬∧lits holds under the
// trail, so the clause is the negation of each literal.
func (e *Engine) materializeConflict(s conflictSignal) *cnf.Clause {
	negated := make([]*cnf.Atom, len(s.lits))
	for i, a := range s.lits {
		negated[i] = a.Neg()
	}
	return e.db.MakeClause(negated, cnf.LemmaPremise(s.token))
}

// Propagate implements theory.Acts: lit is enqueued at the current
// decision level with a semantic reason. The thunk is only invoked if
// conflict analysis resolves through lit later.
func (e *Engine) Propagate(lit *cnf.Atom, thunk cnf.ReasonThunk) {
	if lit.IsTrue() {
		return
	}
	e.enqueue(lit, cnf.Reason{Kind: cnf.ReasonSemantic, Thunk: thunk})
}

// AddClause implements theory.Acts: install a clause against the current
// trail, permanent when keep is true and a disposable lemma otherwise.
// installClause backs off to level 0 on its own if the clause turns out
// to already be fully false, so a genuine conflict is never mistaken for
// one search will backtrack away from.
func (e *Engine) AddClause(lits []*cnf.Atom, keep bool, proofToken uuid.UUID) {
	premise := cnf.HypPremise()
	if !keep {
		premise = cnf.LemmaPremise(proofToken)
	}
	c := e.db.MakeClause(lits, premise)
	if keep {
		e.permanent = append(e.permanent, c)
	} else {
		e.learnt = append(e.learnt, c)
	}
	e.installClause(c)
	e.absorbNewVars()
}

// MkLit implements theory.Acts.
func (e *Engine) MkLit(lit literal.Literal) *cnf.Atom {
	return e.MkAtom(lit)
}

// IterAssumptions implements theory.Acts: iterate the current trail.
func (e *Engine) IterAssumptions(f func(*cnf.Atom)) {
	for _, a := range e.trail {
		f(a)
	}
}
