package theory

import (
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/term"
)

// Node is an opaque congruence-closure node, analogous to an
// equivalence-class representative handle.
type Node interface {
	ID() int64
}

// Explanation is the opaque justification a congruence closure attaches
// to a merge, conflict, or propagation.
type Explanation interface {
	Literals() []literal.Literal
}

// CC is the congruence closure contract this module consumes (§6.3). A
// concrete congruence-closure implementation is explicitly out of scope
// (spec §1); only the SolverInternal is permitted to call AssertLits,
// PushLevel, and PopLevels on it (§5).
type CC interface {
	AddTerm(t term.Term) Node
	Find(n Node) Node
	Merge(n1, n2 Node, expl Explanation)

	AssertLits(lits []literal.Literal)
	Check(acts Acts)
	PushLevel()
	PopLevels(n int)

	SetAsLit(n Node, lit literal.Literal)
	RaiseConflictFromExpl(acts Acts, expl Explanation)

	OnNewTerm(f func(Node, term.Term))
	OnPreMerge(f func(n1, n2 Node))
	OnPostMerge(f func(n1, n2 Node))
	OnConflict(f func(Explanation))
	OnPropagate(f func(lit literal.Literal, expl Explanation))
}
