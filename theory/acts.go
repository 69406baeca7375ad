// Package theory implements the theory interface (C5, "Solver_internal"):
// the bidirectional bridge between the CDCL engine and theory plugins. It
// owns literal preprocessing/simplification, theory-assumption dispatch,
// propagation/conflict relay, and multi-level push/pop fan-out across
// plugins and the congruence closure.
package theory

import (
	"github.com/google/uuid"

	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
)

// Acts is the action handle passed to theory plugins and the congruence
// closure (§6.2). The concrete implementation is owned by the CDCL
// engine (package cdcl), which is the only thing that can legally mutate
// the trail.
type Acts interface {
	// RaiseConflict asserts that ¬∧lits holds under the trail. Per the
	// contract it never returns to its caller: the implementation
	// unwinds the call stack (via panic, recovered by the CDCL engine at
	// the call site that invoked theory dispatch) straight back into
	// conflict analysis.
	RaiseConflict(lits []*cnf.Atom, proofToken uuid.UUID)

	// Propagate enqueues lit with a semantic reason. thunk is only
	// invoked if conflict analysis later needs to resolve through this
	// propagation.
	Propagate(lit *cnf.Atom, thunk cnf.ReasonThunk)

	// AddClause installs a clause against the current trail, permanent if
	// keep is true. It backjumps to level 0 only when the clause is false
	// under the current assignment; a clause that is unit under the
	// current assignment is propagated at the current decision level,
	// not at level 0.
	AddClause(lits []*cnf.Atom, keep bool, proofToken uuid.UUID)

	// MkLit interns lit, invoking preprocessing if necessary.
	MkLit(lit literal.Literal) *cnf.Atom

	// IterAssumptions iterates the SAT-trail literals visible to the
	// current round of theory dispatch.
	IterAssumptions(f func(*cnf.Atom))
}
