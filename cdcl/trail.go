package cdcl

import "github.com/benti/sidekick/cnf"

// This file holds the trail bookkeeping, ported from the teacher's
// solver_trail.go: trailIdx there is levelBoundaries here, qhead keeps
// its name, and trimToDecisionLevel becomes cancelUntil. The addition
// over the teacher is the push/pop fan-out into the theory interface
// (§1's multi-level push/pop coordination), which go-sat's pure-SAT
// trail never needed.

// newDecisionLevel opens a new decision level on the trail and pushes a
// matching backtrack point into the theory interface.
func (e *Engine) newDecisionLevel() {
	e.levelBoundaries = append(e.levelBoundaries, len(e.trail))
	e.si.PushLevel()
}

// enqueue assigns a at the current decision level under reason and
// appends it to the trail. Every non-decision assignment — BCP and
// theory propagations alike — bumps the propagation counter.
func (e *Engine) enqueue(a *cnf.Atom, reason cnf.Reason) {
	e.db.Assign(a, e.decisionLevel(), reason)
	e.trail = append(e.trail, a)
	if e.heap.Contains(a.Var()) {
		e.heap.Remove(a.Var())
	}
	if reason.Kind != cnf.ReasonDecision {
		e.stats.IncrPropagations()
	}
}

// cancelUntil unassigns every literal past level, trims the trail, and
// pops the corresponding number of theory backtrack points.
func (e *Engine) cancelUntil(level int) {
	if e.decisionLevel() <= level {
		return
	}
	popped := e.decisionLevel() - level
	boundary := e.levelBoundaries[level]

	for i := len(e.trail) - 1; i >= boundary; i-- {
		v := e.trail[i].Var()
		e.db.Unassign(e.trail[i])
		if !e.heap.Contains(v) {
			e.heap.Push(v)
		}
	}

	e.trail = e.trail[:boundary]
	e.levelBoundaries = e.levelBoundaries[:level]
	e.qhead = boundary
	if e.theoryHead > boundary {
		e.theoryHead = boundary
	}

	e.si.PopLevels(popped)
}
