package proof

import (
	"fmt"

	"github.com/benti/sidekick/cnf"
)

// maxGapCloseSteps bounds the unit-resolution gap-closing loop in
// closeGap; a well-formed clause history should close in a handful of
// steps, so a run past this is treated as non-convergence.
const maxGapCloseSteps = 64

// Reconstructor rebuilds a resolution DAG from a clause database's
// History-premise chains, memoizing proved clauses by content (§4.6's
// `is_proven`/`prove`).
type Reconstructor struct {
	proven map[string]*Node
}

func New() *Reconstructor {
	return &Reconstructor{proven: make(map[string]*Node)}
}

// isProven implements §4.6's is_proven: true and the memoized node if c
// is already recorded, or if c is a leaf (Hyp/Local/Lemma) — which gets
// inserted and memoized on the spot. False (with no node) means c has a
// History premise and its parents must be proved first.
func (r *Reconstructor) isProven(c *cnf.Clause) (*Node, bool) {
	k := key(c.Atoms())
	if n, ok := r.proven[k]; ok {
		return n, true
	}
	switch c.Premise().Kind {
	case cnf.PremiseHyp, cnf.PremiseLocal:
		n := &Node{Kind: StepHypothesis, Atoms: c.Atoms()}
		r.proven[k] = n
		return n, true
	case cnf.PremiseLemma:
		n := &Node{Kind: StepLemma, Atoms: c.Atoms(), Token: c.Premise().ProofToken}
		r.proven[k] = n
		return n, true
	default:
		return nil, false
	}
}

// Prove implements §4.6's prove: it recursively proves c's History
// parents, linearly resolved with add_res, with a unit-resolution
// gap-close if the fold doesn't land exactly on c's own content.
func (r *Reconstructor) Prove(c *cnf.Clause) (*Node, error) {
	if n, ok := r.isProven(c); ok {
		return n, nil
	}

	parents := c.Premise().History
	if len(parents) == 0 {
		return nil, fmt.Errorf("%w: clause %s has a History premise with no parents", ErrResolutionError, c)
	}

	cur, err := r.Prove(parents[0])
	if err != nil {
		return nil, err
	}
	for _, p := range parents[1:] {
		pn, err := r.Prove(p)
		if err != nil {
			return nil, err
		}
		cur, err = r.addRes(cur, pn)
		if err != nil {
			return nil, err
		}
	}

	cur, err = r.closeGap(cur, c.Atoms())
	if err != nil {
		return nil, err
	}

	r.proven[key(c.Atoms())] = cur
	return cur, nil
}

// addRes implements §4.6's add_res: the merge of two clauses' atom
// sets (the resulting atom order is unspecified), expecting exactly one
// cancelling literal-polarity pair (the pivot). Literals agreeing in sign on both sides are deduplicated;
// zero or multiple pivots is a ResolutionError.
func (r *Reconstructor) addRes(c, d *Node) (*Node, error) {
	left := signedSet(c.Atoms)
	merged := make(map[int32]*cnf.Atom, len(left))
	for id, a := range left {
		merged[id] = a
	}

	var pivot *cnf.Atom
	for _, a := range d.Atoms {
		id := signedID(a)
		if _, same := merged[id]; same {
			continue
		}
		if _, opposite := merged[-id]; opposite {
			if pivot != nil {
				return nil, fmt.Errorf("%w: multiple cancelling literals resolving %s against %s", ErrResolutionError, c, d)
			}
			if id > 0 {
				pivot = a // a is already the positive atom of the pivot variable
			} else {
				pivot = a.Neg() // canonicalize the pivot to its positive atom
			}
			delete(merged, -id)
			continue
		}
		merged[id] = a
	}
	if pivot == nil {
		return nil, fmt.Errorf("%w: no cancelling literal resolving %s against %s", ErrResolutionError, c, d)
	}

	out := make([]*cnf.Atom, 0, len(merged))
	for _, a := range merged {
		out = append(out, a)
	}
	return &Node{Kind: StepResolution, Atoms: out, Pivot: pivot, Parent1: c, Parent2: d}, nil
}

// closeGap reconciles cur against target's exact content, resolving in
// level-0 unit reasons for any literal present in cur but absent from
// target until they match (§4.6's unit-resolution gap closing, the
// reversal of learned-clause minimization for proof-checking purposes).
// A literal present only in target is not resolved in; it ends the
// attempt with ErrInsufficientHypotheses.
func (r *Reconstructor) closeGap(cur *Node, target []*cnf.Atom) (*Node, error) {
	targetKey := signedSet(target)
	for i := 0; i < maxGapCloseSteps; i++ {
		curKey := signedSet(cur.Atoms)
		if len(curKey) == len(targetKey) && sameKeys(curKey, targetKey) {
			return cur, nil
		}

		extra, ok := firstMissing(curKey, targetKey)
		if !ok {
			return nil, fmt.Errorf("%w: resolution fold %s does not reconcile with stored clause content", ErrInsufficientHypotheses, cur)
		}

		unit, err := r.levelZeroUnitFor(extra)
		if err != nil {
			return nil, err
		}
		cur, err = r.addRes(cur, unit)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: gap closing did not converge after %d steps", ErrInsufficientHypotheses, maxGapCloseSteps)
}

func sameKeys(a, b map[int32]*cnf.Atom) bool {
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// firstMissing returns a literal present in cur but absent from target
// (cur's side of the symmetric difference), so the caller can resolve it
// away against a level-0 fact.
func firstMissing(cur, target map[int32]*cnf.Atom) (*cnf.Atom, bool) {
	for id, a := range cur {
		if _, ok := target[id]; !ok {
			return a, true
		}
	}
	return nil, false
}

// levelZeroUnitFor finds the unit clause that forces a's negation true
// at level 0 and proves it, so it can be resolved against a to cancel
// it out of a fold.
func (r *Reconstructor) levelZeroUnitFor(a *cnf.Atom) (*Node, error) {
	v := a.Var()
	if v.Level() != 0 {
		return nil, fmt.Errorf("%w: %s has no level-0 unit reason", ErrInsufficientHypotheses, a)
	}
	reason := v.Reason()
	if reason.Kind != cnf.ReasonBCP || reason.Clause == nil || reason.Clause.Len() != 1 {
		return nil, fmt.Errorf("%w: %s is not justified by a level-0 unit clause", ErrInsufficientHypotheses, a)
	}
	if reason.Clause.Atoms()[0] != a.Neg() {
		return nil, fmt.Errorf("%w: %s's level-0 reason does not cancel it", ErrInsufficientHypotheses, a)
	}
	return r.Prove(reason.Clause)
}

// ProveUnsat implements §4.6's prove_unsat: prove conflict, then resolve
// it against level-0 unit reasons of its remaining literals until the
// empty clause is derived.
func (r *Reconstructor) ProveUnsat(conflict *cnf.Clause) (*Node, error) {
	n, err := r.Prove(conflict)
	if err != nil {
		return nil, err
	}
	for i := 0; i < maxGapCloseSteps && len(n.Atoms) > 0; i++ {
		a := n.Atoms[0]
		unit, err := r.levelZeroUnitFor(a)
		if err != nil {
			return n, err
		}
		n, err = r.addRes(n, unit)
		if err != nil {
			return n, err
		}
	}
	if len(n.Atoms) > 0 {
		return n, fmt.Errorf("%w: could not derive the empty clause from %s", ErrInsufficientHypotheses, n)
	}
	return n, nil
}

// UnsatCore implements §4.6's unsat_core: a depth-first traversal of the
// resolution DAG collecting the conclusions of every Hypothesis and
// Lemma leaf, deduplicated by content.
func UnsatCore(root *Node) []*Node {
	seen := make(map[string]bool)
	var out []*Node
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case StepHypothesis, StepLemma:
			k := key(n.Atoms)
			if !seen[k] {
				seen[k] = true
				out = append(out, n)
			}
		case StepResolution:
			visit(n.Parent1)
			visit(n.Parent2)
		}
	}
	visit(root)
	return out
}
