package cdcl

import "github.com/benti/sidekick/cnf"

// analyze implements first-UIP conflict analysis (§4.4), a direct
// generalization of the teacher's cH/cP/cL/cN conflict cache
// (applyConflict/applyExplain/applyExplainUIP in solver.go) from
// DIMACS literals to watched-literal atoms with lazily materialized
// semantic reasons. nIP ("number of implication points") is the
// teacher's cN; the pending literal set at the current level is walked
// off the trail instead of an explicit cH/cP map pair.
//
// It returns the learned clause (UIP literal at index 0, others sorted
// by decreasing level for two-watched-literal re-attachment) and the
// decision level to backjump to.
func (e *Engine) analyze(conflict *cnf.Clause) (*cnf.Clause, int) {
	var touched []*cnf.Variable
	defer func() {
		for _, v := range touched {
			v.ClearSeen()
		}
	}()

	seen := func(v *cnf.Variable) bool { return v.Seen(true) || v.Seen(false) }
	mark := func(a *cnf.Atom) bool {
		v := a.Var()
		if seen(v) {
			return false
		}
		v.SetSeen(a.Sign(), true)
		touched = append(touched, v)
		return true
	}

	nIP := 0
	backjumpLevel := 0
	learned := []*cnf.Atom{nil} // index 0 reserved for the UIP
	var parents []*cnf.Clause

	resolve := func(lits []*cnf.Atom) {
		for _, a := range lits {
			if !mark(a) {
				continue
			}
			e.bumpVarActivity(a.Var())
			if a.Level() == e.decisionLevel() {
				nIP++
			} else if a.Level() > 0 {
				learned = append(learned, a)
				if a.Level() > backjumpLevel {
					backjumpLevel = a.Level()
				}
			}
			// Level-0 literals are omitted: they hold unconditionally
			// and contribute nothing to the learned clause.
		}
	}

	resolve(conflict.Atoms())
	if conflict.Learnt() {
		e.bumpClauseActivity(conflict)
	}
	parents = append(parents, conflict)

	idx := len(e.trail) - 1
	var uip *cnf.Atom
	for {
		for !seen(e.trail[idx].Var()) {
			idx--
		}
		uip = e.trail[idx]
		idx--
		nIP--
		if nIP == 0 {
			break
		}

		c, lits := e.reasonExplanation(uip)
		parents = append(parents, c)
		if c.Learnt() {
			e.bumpClauseActivity(c)
		}
		resolve(lits)
	}

	learned[0] = uip.Neg()
	sortBySecondHighestLevel(learned)
	minimized := e.minimize(learned)
	return e.db.MakeClause(minimized, cnf.HistoryPremise(parents)), backjumpLevel
}

// reasonExplanation returns the clause justifying uip's assignment and
// the literals to resolve against (every other literal in that clause).
// A semantic reason's thunk is materialized into an ad hoc clause here,
// lazily, exactly per §4.4's "only invoked if conflict analysis needs to
// resolve through the propagation".
func (e *Engine) reasonExplanation(uip *cnf.Atom) (*cnf.Clause, []*cnf.Atom) {
	r := uip.Var().Reason()
	switch r.Kind {
	case cnf.ReasonBCP:
		c := r.Clause
		lits := make([]*cnf.Atom, 0, c.Len()-1)
		for _, a := range c.Atoms() {
			if a.Var() != uip.Var() {
				lits = append(lits, a)
			}
		}
		return c, lits
	case cnf.ReasonSemantic:
		supporting, token := r.Thunk()
		atoms := append([]*cnf.Atom{uip}, supporting...)
		c := e.db.MakeClause(atoms, cnf.LemmaPremise(token))
		return c, supporting
	default:
		// A decision literal has no reason; it can only be selected as
		// the final UIP, never resolved through.
		return nil, nil
	}
}

// sortBySecondHighestLevel orders learned[1:] by decreasing assignment
// level, so the second watch of the freshly-learned clause lands on the
// literal that will become unassigned soonest on backtrack — the
// standard invariant for re-attaching a learned clause's watches.
func sortBySecondHighestLevel(learned []*cnf.Atom) {
	if len(learned) <= 2 {
		return
	}
	rest := learned[1:]
	for i := 1; i < len(rest); i++ {
		j := i
		for j > 0 && rest[j].Level() > rest[j-1].Level() {
			rest[j], rest[j-1] = rest[j-1], rest[j]
			j--
		}
	}
}

// minimize drops learned-clause literals whose negation is already
// implied by the clauses already resolved through (self-subsumption),
// the "learned-clause minimization" supplemented feature (SPEC_FULL
// §0). A literal is redundant if every atom in its own BCP reason is
// itself marked seen.
func (e *Engine) minimize(learned []*cnf.Atom) []*cnf.Atom {
	if len(learned) <= 1 {
		return learned
	}
	out := learned[:1:1]
	for _, a := range learned[1:] {
		if e.isRedundant(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// isRedundant checks whether a's negation (the atom actually asserted
// true on the trail) was itself implied solely by already-seen
// variables, making a implied by the clause under construction.
func (e *Engine) isRedundant(a *cnf.Atom) bool {
	v := a.Var()
	r := v.Reason()
	if r.Kind != cnf.ReasonBCP {
		return false
	}
	for _, other := range r.Clause.Atoms() {
		if other.Var() == v {
			continue
		}
		if other.Level() == 0 {
			continue
		}
		if !other.Var().Seen(true) && !other.Var().Seen(false) {
			return false
		}
	}
	return true
}
