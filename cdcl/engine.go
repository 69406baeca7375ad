// Package cdcl is the CDCL engine (C4): the trail, two-watched-literal
// BCP, first-UIP conflict analysis, backjumping, restarts, and clause-DB
// reduction. It is the only component allowed to mutate a cnf.Database's
// assignment state, and it owns the concrete implementation of
// theory.Acts handed to plugins and the congruence closure during
// partial/final checks.
//
// Grounded on the teacher's (mitchellh/go-sat) Solver/trail split
// (s.trail, s.trailIdx, s.qhead, s.cH/s.cP/s.cL/s.cN conflict caches),
// generalized from its DIMACS-clause loop to the two-watched-literal
// scheme and VSIDS heuristic shown in the retrieval pack's
// rhartert/yass and xDarkicex/logic solvers.
package cdcl

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/internal/varheap"
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/solverstats"
	"github.com/benti/sidekick/theory"
)

// Outcome is the result of a Solve call.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSat
	OutcomeUnsat
)

// UnknownReason explains an OutcomeUnknown result.
type UnknownReason int

const (
	UnknownNone UnknownReason = iota
	UnknownTimeout
	UnknownMaxDepth
	UnknownIncomplete
)

// Result is what Solve returns. Conflict is populated on OutcomeUnsat:
// it is the level-0 conflict clause the UNSAT proof is rooted at.
type Result struct {
	Outcome       Outcome
	Conflict      *cnf.Clause
	UnknownReason UnknownReason
}

// Engine drives the CDCL search loop over a clause database, dispatching
// to a theory interface at partial- and final-check points.
type Engine struct {
	db *cnf.Database
	si *theory.SolverInternal
	log hclog.Logger
	stats *solverstats.Stats

	heap *varheap.Heap

	trail           []*cnf.Atom
	levelBoundaries []int
	qhead           int
	theoryHead      int

	permanent []*cnf.Clause
	learnt    []*cnf.Clause
	knownVars int

	varActivityInc    float64
	varActivityDecay  float64
	clauseActivityInc float64
	clauseActivityDecay float64

	restart  RestartPolicy
	reduceAt int64

	forcedUnsat    *cnf.Clause
	assumptionBase int
}

// Option configures New.
type Option func(*Engine)

// WithRestartPolicy overrides the default Luby-sequence restart policy.
// Pass NoRestarts to run a search that never abandons its current
// branch, the baseline spec §8's scenario S5 compares a restart-heavy
// run against.
func WithRestartPolicy(p RestartPolicy) Option {
	return func(e *Engine) { e.restart = p }
}

// New builds an Engine over db, dispatching theory checks through si.
func New(db *cnf.Database, si *theory.SolverInternal, stats *solverstats.Stats, log hclog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if stats == nil {
		stats = &solverstats.Stats{}
	}
	e := &Engine{
		db:    db,
		si:    si,
		log:   log.Named("cdcl"),
		stats: stats,
		heap:  varheap.New(),

		varActivityInc:      1.0,
		varActivityDecay:    0.95,
		clauseActivityInc:   1.0,
		clauseActivityDecay: 0.999,

		restart:  newLubyRestart(100),
		reduceAt: 2000,

		assumptionBase: -1,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// MkAtom interns lit into the clause database, preprocessing it through
// the theory interface first, and folds any variable it newly created
// into the decision heap.
func (e *Engine) MkAtom(lit literal.Literal) *cnf.Atom {
	pl := e.si.PreprocessLit(lit)
	a := e.db.MakeAtom(pl)
	e.absorbNewVars()
	return a
}

// AddClauseAtRoot installs a permanent, level-0 clause: a unit clause is
// propagated immediately (after backjumping to level 0 if necessary);
// the empty clause marks the engine permanently unsat.
func (e *Engine) AddClauseAtRoot(atoms []*cnf.Atom, premise cnf.Premise) *cnf.Clause {
	if e.decisionLevel() != 0 {
		e.cancelUntil(0)
	}
	c := e.db.MakeClause(atoms, premise)
	e.permanent = append(e.permanent, c)
	e.installClause(c)
	e.absorbNewVars()
	return c
}

// AddClauseAt installs a permanent clause at whatever decision level is
// currently open, without forcing a backjump to level 0. Used for
// incremental assertions under a pushed level (§6.4's add_clause_l used
// between push_level/pop_levels), where forcing level 0 would defeat the
// point of the push.
func (e *Engine) AddClauseAt(atoms []*cnf.Atom, premise cnf.Premise) *cnf.Clause {
	c := e.db.MakeClause(atoms, premise)
	e.permanent = append(e.permanent, c)
	e.installClause(c)
	e.absorbNewVars()
	return c
}

// installClause attaches c and, if the current partial assignment leaves
// it unit or already falsified, records the resulting propagation or
// conflict. Shared by AddClauseAtRoot, AddClauseAt and the theory Acts
// AddClause path so a clause added mid-search is checked against the
// trail exactly once, not just against future BCP events.
//
// A clause that is fully false under the current partial assignment but
// not under the level-0 assignment alone is not a genuine permanent
// conflict — it only looks that way because of decisions that will be
// undone by backtracking. Back off to level 0 first so the switch below
// only ever calls forcedUnsat on an assignment that search can't retract.
func (e *Engine) installClause(c *cnf.Clause) {
	if e.decisionLevel() > 0 && allFalse(c) {
		e.cancelUntil(0)
	}
	switch c.Len() {
	case 0:
		e.forcedUnsat = c
	case 1:
		e.db.Attach(c)
		a := c.Atoms()[0]
		if a.IsFalse() {
			e.forcedUnsat = c
		} else if !a.IsAssigned() {
			e.enqueue(a, cnf.Reason{Kind: cnf.ReasonBCP, Clause: c})
		}
	default:
		e.db.Attach(c)
		nonFalse, last := 0, (*cnf.Atom)(nil)
		for _, a := range c.Atoms() {
			if !a.IsFalse() {
				nonFalse++
				last = a
			}
		}
		if nonFalse == 0 {
			e.forcedUnsat = c
		} else if nonFalse == 1 && !last.IsAssigned() {
			e.enqueue(last, cnf.Reason{Kind: cnf.ReasonBCP, Clause: c})
		}
	}
}

func allFalse(c *cnf.Clause) bool {
	for _, a := range c.Atoms() {
		if !a.IsFalse() {
			return false
		}
	}
	return true
}

// PushLevel opens a new decision level, fanning out to the theory
// interface's own backtrack stack. Exposed for incremental use at the
// solver boundary (§6.4's push_level), independent of any Solve call.
func (e *Engine) PushLevel() { e.newDecisionLevel() }

// PopLevels closes the n most recently opened decision levels.
func (e *Engine) PopLevels(n int) {
	if n <= 0 {
		return
	}
	target := e.decisionLevel() - n
	if target < 0 {
		target = 0
	}
	e.cancelUntil(target)
}

// PushAssumptions opens one decision level and enqueues each atom as a
// forced literal, scoped to a single Solve call (§6.4's solve
// assumptions parameter). It reports false, leaving the level open for
// the caller to pop, if an assumption already contradicts the trail.
// The base level is remembered so PopAssumptions can unwind back to it
// even though search may have opened and closed arbitrarily many levels
// of its own by the time Solve returns.
func (e *Engine) PushAssumptions(atoms []*cnf.Atom) bool {
	if len(atoms) == 0 {
		e.assumptionBase = -1
		return true
	}
	e.assumptionBase = e.decisionLevel()
	e.newDecisionLevel()
	ok := true
	for _, a := range atoms {
		if a.IsFalse() {
			ok = false
			continue
		}
		if !a.IsAssigned() {
			e.enqueue(a, cnf.Reason{Kind: cnf.ReasonDecision})
		}
	}
	return ok
}

// PopAssumptions undoes a PushAssumptions call, cancelling back to the
// level it was opened at. A no-op if PushAssumptions saw no assumptions
// to push.
func (e *Engine) PopAssumptions() {
	if e.assumptionBase < 0 {
		return
	}
	e.cancelUntil(e.assumptionBase)
	e.assumptionBase = -1
}

// Solve runs the CDCL loop until the formula is decided sat/unsat, the
// context is cancelled, onProgress declines to continue, or maxDepth
// decision levels are exceeded (maxDepth <= 0 means unbounded).
func (e *Engine) Solve(ctx context.Context, onProgress func() bool, maxDepth int) Result {
	e.absorbNewVars()
	if e.forcedUnsat != nil {
		return Result{Outcome: OutcomeUnsat, Conflict: e.forcedUnsat}
	}

	for {
		select {
		case <-ctx.Done():
			return Result{Outcome: OutcomeUnknown, UnknownReason: UnknownTimeout}
		default:
		}
		if onProgress != nil && !onProgress() {
			return Result{Outcome: OutcomeUnknown, UnknownReason: UnknownTimeout}
		}
		if e.forcedUnsat != nil {
			return Result{Outcome: OutcomeUnsat, Conflict: e.forcedUnsat}
		}

		conflict := e.propagate()
		if conflict != nil {
			e.stats.IncrConflicts()
			if e.decisionLevel() == 0 {
				return Result{Outcome: OutcomeUnsat, Conflict: conflict}
			}

			learned, backjumpLevel := e.analyze(conflict)
			e.stats.AddLearnedWidth(learned.Len())
			e.cancelUntil(backjumpLevel)
			e.attachLearnt(learned)
			if learned.Len() > 0 {
				uip := learned.Atoms()[0]
				if !uip.IsAssigned() {
					e.enqueue(uip, cnf.Reason{Kind: cnf.ReasonBCP, Clause: learned})
				}
			}

			e.decayVarActivity()
			e.decayClauseActivity()

			if e.restart.tick() {
				e.cancelUntil(0)
				e.stats.IncrRestarts()
			}
			if int64(len(e.learnt)) > e.reduceAt {
				e.reduceDB()
				e.reduceAt += e.reduceAt / 2
			}
			continue
		}

		e.absorbNewVars()
		if e.allAssigned() {
			return Result{Outcome: OutcomeSat}
		}
		if maxDepth > 0 && e.decisionLevel() >= maxDepth {
			return Result{Outcome: OutcomeUnknown, UnknownReason: UnknownMaxDepth}
		}

		a := e.pickBranch()
		if a == nil {
			return Result{Outcome: OutcomeSat}
		}
		e.stats.IncrDecisions()
		e.newDecisionLevel()
		e.enqueue(a, cnf.Reason{Kind: cnf.ReasonDecision})
	}
}

// Model reports the current (satisfying, once Solve returns
// OutcomeSat) assignment as a map from variable ID to its sign.
func (e *Engine) Model() map[int32]bool {
	m := make(map[int32]bool, len(e.trail))
	for _, a := range e.trail {
		m[a.Var().ID] = a.Sign()
	}
	return m
}

func (e *Engine) decisionLevel() int { return len(e.levelBoundaries) }

func (e *Engine) allAssigned() bool { return len(e.trail) == e.knownVars }

// absorbNewVars folds any variable created since the last call (by
// MkAtom, AddClauseAtRoot, or a theory-driven Acts.MkLit/AddClause call)
// into the decision heap.
func (e *Engine) absorbNewVars() {
	vars := e.db.Vars()
	for ; e.knownVars < len(vars); e.knownVars++ {
		v := vars[e.knownVars]
		if !v.Assigned() && !e.heap.Contains(v) {
			e.heap.Push(v)
		}
	}
}

func (e *Engine) pickBranch() *cnf.Atom {
	for {
		v := e.heap.PopMax()
		if v == nil {
			return nil
		}
		if v.Assigned() {
			continue
		}
		sign, known := v.LastPolarity()
		if !known {
			sign = true
		}
		if sign {
			return v.Pos()
		}
		return v.Neg()
	}
}

func (e *Engine) decayVarActivity() {
	e.varActivityInc /= e.varActivityDecay
}

func (e *Engine) decayClauseActivity() {
	e.clauseActivityInc /= e.clauseActivityDecay
}

func (e *Engine) bumpVarActivity(v *cnf.Variable) {
	v.BumpWeight(e.varActivityInc)
	if v.Weight() > 1e100 {
		for _, u := range e.db.Vars() {
			u.ScaleWeight(1e-100)
		}
		e.varActivityInc *= 1e-100
	}
	if e.heap.Contains(v) {
		e.heap.Update(v)
	}
}

func (e *Engine) bumpClauseActivity(c *cnf.Clause) {
	c.BumpActivity(e.clauseActivityInc)
	if c.Activity() > 1e100 {
		for _, l := range e.learnt {
			l.ScaleActivity(1e-100)
		}
		e.clauseActivityInc *= 1e-100
	}
}

// Stats returns the engine's counters.
func (e *Engine) Stats() *solverstats.Stats { return e.stats }
