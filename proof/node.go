// Package proof is the proof reconstructor (C6): given a clause database
// whose learned clauses carry History premises back to hypotheses and
// theory lemmas, it rebuilds a resolution DAG sufficient to derive the
// empty clause, extracts an unsat core, and serializes the DAG as
// GraphViz DOT via gonum.
//
// Grounded on the teacher's conflict-cache shape (go-sat's cH/cP sets
// keyed by literal) generalized from "analysis scratch state" to
// "permanent, memoized proof record keyed by clause identity" — the two
// are the same sorted-literal-set keying trick applied at different
// points in the solver's lifetime.
package proof

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/benti/sidekick/cnf"
)

// StepKind tags a proof DAG node's provenance (§3's "Proof DAG node").
type StepKind int

const (
	StepHypothesis StepKind = iota
	StepLemma
	StepResolution
)

// Node is a proof DAG node: a clause (represented by its literal
// content) plus how it was derived.
type Node struct {
	Kind  StepKind
	Atoms []*cnf.Atom

	Token uuid.UUID // valid when Kind == StepLemma

	Pivot             *cnf.Atom // valid when Kind == StepResolution
	Parent1, Parent2  *Node     // valid when Kind == StepResolution
}

func (n *Node) String() string {
	parts := make([]string, len(n.Atoms))
	for i, a := range n.Atoms {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, " ∨ ") + ")"
}

// signedID returns a literal identity that distinguishes polarity: v+1
// for the positive atom of variable v, -(v+1) for the negative one. The
// +1 offset keeps variable 0's negative atom from colliding with 0.
func signedID(a *cnf.Atom) int32 {
	id := a.Var().ID + 1
	if !a.Sign() {
		return -id
	}
	return id
}

// key returns the proof hash-table key for a clause's content: its
// sorted atom-id list (§4.6's "keyed by its sorted atom-id list").
func key(atoms []*cnf.Atom) string {
	ids := make([]int32, len(atoms))
	for i, a := range atoms {
		ids[i] = signedID(a)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

func signedSet(atoms []*cnf.Atom) map[int32]*cnf.Atom {
	m := make(map[int32]*cnf.Atom, len(atoms))
	for _, a := range atoms {
		m[signedID(a)] = a
	}
	return m
}
