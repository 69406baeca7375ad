// Package cnf is the clause database (C2): hash-consed variables and
// atoms, clause records with watched literals, activity, and premise
// provenance. It owns the two-watched-literals mechanism; the CDCL engine
// (package cdcl) decides when clauses are attached, propagated over, or
// torn down.
package cnf

import (
	"github.com/google/uuid"

	"github.com/benti/sidekick/term"
)

// ReasonKind tags why a variable is assigned.
type ReasonKind uint8

const (
	ReasonNone ReasonKind = iota
	ReasonDecision
	ReasonBCP
	ReasonSemantic
)

// ReasonThunk lazily yields the literals that justify a semantic
// (theory) propagation, plus the proof token for the implied lemma. It
// is only ever invoked if conflict analysis needs to resolve through
// the propagation, per §4.4.
type ReasonThunk func() ([]*Atom, uuid.UUID)

// Reason records why a variable holds its current assignment.
type Reason struct {
	Kind   ReasonKind
	Clause *Clause     // valid when Kind == ReasonBCP
	Thunk  ReasonThunk // valid when Kind == ReasonSemantic
}

var noReason = Reason{Kind: ReasonNone}

// Variable owns a dual pair of atoms plus the bookkeeping the CDCL
// engine needs: decision level, VSIDS-style activity, heap position, the
// assignment reason, and conflict-analysis scratch flags.
type Variable struct {
	ID int32

	pos *Atom
	neg *Atom

	level     int // -1 if unassigned
	weight    float64
	heapIndex int // -1 if absent from the priority queue
	reason    Reason

	seenPos bool
	seenNeg bool

	// lastPolarity remembers the last sign this variable was assigned
	// under, for phase-saving decisions (§SPEC_FULL "supplemented
	// features").
	lastPolarity bool
	everAssigned bool
}

func newVariable(id int32, term term.Term) *Variable {
	v := &Variable{ID: id, level: -1, heapIndex: -1}
	v.pos = &Atom{v: v, positive: true, t: term}
	v.neg = &Atom{v: v, positive: false, t: term}
	v.pos.dual = v.neg
	v.neg.dual = v.pos
	return v
}

// Pos and Neg expose the dual atom pair.
func (v *Variable) Pos() *Atom { return v.pos }
func (v *Variable) Neg() *Atom { return v.neg }

// Level returns the decision level this variable was assigned at, or -1.
func (v *Variable) Level() int { return v.level }

// Assigned reports whether the variable currently has a value.
func (v *Variable) Assigned() bool { return v.level >= 0 }

// Weight returns the current VSIDS activity.
func (v *Variable) Weight() float64 { return v.weight }

// BumpWeight adds inc to the variable's activity, per §4.4's activity
// update rule.
func (v *Variable) BumpWeight(inc float64) { v.weight += inc }

// ScaleWeight multiplies the activity by factor (used for rescaling when
// activities risk overflow).
func (v *Variable) ScaleWeight(factor float64) { v.weight *= factor }

// HeapIndex and SetHeapIndex let the decision heap track this variable's
// position without a reverse map.
func (v *Variable) HeapIndex() int          { return v.heapIndex }
func (v *Variable) SetHeapIndex(idx int)    { v.heapIndex = idx }

func (v *Variable) Reason() Reason { return v.reason }

// LastPolarity returns the phase-saving hint: the sign this variable was
// last assigned to, and whether it has ever been assigned at all.
func (v *Variable) LastPolarity() (sign bool, known bool) {
	return v.lastPolarity, v.everAssigned
}

// Seen returns the conflict-analysis scratch flags for the given sign.
func (v *Variable) Seen(sign bool) bool {
	if sign {
		return v.seenPos
	}
	return v.seenNeg
}

// SetSeen sets the conflict-analysis scratch flag for the given sign.
func (v *Variable) SetSeen(sign bool, val bool) {
	if sign {
		v.seenPos = val
	} else {
		v.seenNeg = val
	}
}

// ClearSeen clears both scratch flags, done on exit from conflict
// analysis per §4.4.
func (v *Variable) ClearSeen() {
	v.seenPos = false
	v.seenNeg = false
}

// assign sets the variable's level, reason and phase, called only from
// the clause database's Assign/Unassign pair so invariants stay local.
func (v *Variable) assign(level int, reason Reason, sign bool) {
	v.level = level
	v.reason = reason
	v.lastPolarity = sign
	v.everAssigned = true
}

func (v *Variable) unassign() {
	v.level = -1
	v.reason = noReason
}
