// Package solver is the top-level solver (C7): the public-facing type
// that wires the clause database (cnf), the CDCL engine (cdcl), the
// theory interface (theory), and the proof reconstructor (proof) into
// the single entry point embedders call.
//
// Grounded on the teacher's top-level Solver type in solver.go, which
// plays the same "owns everything, exposes a small surface" role over
// its own trail/clause-database split; generalized here to also own a
// theory.SolverInternal and a proof.Reconstructor, neither of which the
// teacher had any need for.
package solver

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/benti/sidekick/cdcl"
	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/preprocess"
	"github.com/benti/sidekick/proof"
	"github.com/benti/sidekick/solverstats"
	"github.com/benti/sidekick/term"
	"github.com/benti/sidekick/theory"
)

// Solver is the C7 facade. Create builds one; AddTheory/AddTheoryL wire
// in plugins; AddClauseL/MkAtomT feed the formula; Solve runs the
// engine; PushLevel/PopLevels scope incremental assertions.
type Solver struct {
	st  term.State
	db  *cnf.Database
	si  *theory.SolverInternal
	eng *cdcl.Engine

	stats *solverstats.Stats
	log   hclog.Logger
}

// Option configures Create.
type Option func(*config)

type config struct {
	log     hclog.Logger
	stats   *solverstats.Stats
	cc      theory.CC
	restart cdcl.RestartPolicy
}

// WithLogger supplies a logger; the solver names it "solver" and passes
// a child named "cdcl"/"theory" down to the engine and theory interface.
func WithLogger(log hclog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithStats supplies a counters object the caller retains a handle to,
// instead of the zero-value one Create allocates.
func WithStats(stats *solverstats.Stats) Option {
	return func(c *config) { c.stats = stats }
}

// WithCC installs a concrete congruence closure up front, in place of
// the lazily-constructed NopCC default (§9's lazy CC tie-in).
func WithCC(cc theory.CC) Option {
	return func(c *config) { c.cc = cc }
}

// WithRestartPolicy overrides the engine's default Luby-sequence restart
// schedule. Pass cdcl.NoRestarts to compare a run against the same
// search with restarts disabled, as spec §8's scenario S5 calls for.
func WithRestartPolicy(p cdcl.RestartPolicy) Option {
	return func(c *config) { c.restart = p }
}

// Create implements §6.4's create(stat, size, theories, term_state): a
// Solver over st, with theories registered immediately. size is not
// meaningful in Go (the variable slice grows on demand), so it is
// folded into the variadic Option surface instead of a dedicated
// parameter.
func Create(st term.State, theories []theory.Plugin, opts ...Option) (*Solver, error) {
	cfg := config{log: hclog.NewNullLogger(), stats: &solverstats.Stats{}}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Solver{
		st:    st,
		db:    cnf.NewDatabase(),
		stats: cfg.stats,
		log:   cfg.log.Named("solver"),
	}
	s.si = theory.New(st, s, cfg.log)
	if cfg.cc != nil {
		s.si.SetCC(cfg.cc)
	}
	var engOpts []cdcl.Option
	if cfg.restart != nil {
		engOpts = append(engOpts, cdcl.WithRestartPolicy(cfg.restart))
	}
	s.eng = cdcl.New(s.db, s.si, cfg.stats, cfg.log, engOpts...)

	if err := s.AddTheoryL(theories); err != nil {
		return nil, err
	}
	return s, nil
}

// AddTheory implements §6.1's add_theory: register one plugin.
func (s *Solver) AddTheory(p theory.Plugin) {
	s.si.RegisterPlugin(p)
}

// AddTheoryL implements §6.1's add_theory_l: register a batch, rejecting
// the whole batch (before any registration happens) if two plugins in
// it share a name — RegisterPlugin has no way to undo a
// CreateAndSetup call once a plugin has wired itself into the hook
// chains, so duplicates must be caught before any of them run.
func (s *Solver) AddTheoryL(plugins []theory.Plugin) error {
	var errs *multierror.Error
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		if seen[p.Name()] {
			errs = multierror.Append(errs, fmt.Errorf("solver: duplicate theory plugin name %q", p.Name()))
			continue
		}
		seen[p.Name()] = true
	}
	if errs.ErrorOrNil() != nil {
		return errs.ErrorOrNil()
	}
	for _, p := range plugins {
		s.AddTheory(p)
	}
	return nil
}

// MkAtomT implements §6.4's mk_atom_t(solver, term, sign) -> atom: it
// interns t as a literal (through preprocessing) and, per §4.3's
// bool-subterm lifting, binds every Boolean subterm of t into the
// congruence closure as its set_as_lit target so the CC can later
// relate t's structure to the propositional atoms the SAT engine
// branches on.
func (s *Solver) MkAtomT(t term.Term, sign bool) *cnf.Atom {
	a := s.eng.MkAtom(literal.Atom(t, sign))
	for _, sub := range preprocess.BoolSubterms(t) {
		subLit := literal.PosAtom(sub)
		s.eng.MkAtom(subLit)
		node := s.si.CC().AddTerm(sub)
		s.si.CC().SetAsLit(node, subLit)
	}
	return a
}

// AddClauseL implements §6.4's add_clause_l(solver, atoms): install a
// clause of already-made atoms as a root-level hypothesis. Use at
// level 0, before any PushLevel; for scoped incremental assertions
// under a pushed level use AssertAt instead.
func (s *Solver) AddClauseL(atoms []*cnf.Atom) {
	s.eng.AddClauseAtRoot(atoms, cnf.HypPremise())
}

// AssertAt installs a clause of already-made atoms at whatever level is
// currently open, without forcing a backjump to level 0 — the
// incremental counterpart to AddClauseL for use between PushLevel and
// PopLevels (§8's push/pop round-trip scenario).
func (s *Solver) AssertAt(atoms []*cnf.Atom) {
	s.eng.AddClauseAt(atoms, cnf.HypPremise())
}

// PushLevel opens a new incremental scope.
func (s *Solver) PushLevel() { s.eng.PushLevel() }

// PopLevels closes the n most recently opened incremental scopes.
func (s *Solver) PopLevels(n int) { s.eng.PopLevels(n) }

// MkLit implements preprocess.ClauseSink: a preprocess hook introducing
// a definitional subterm gets back a literal over it.
func (s *Solver) MkLit(t term.Term) literal.Literal {
	return literal.PosAtom(t)
}

// AddClause implements preprocess.ClauseSink: a preprocess hook's
// definitional clause is installed as a root hypothesis, exactly like
// AddClauseL but starting from literals instead of pre-made atoms.
func (s *Solver) AddClause(lits []literal.Literal) {
	atoms := make([]*cnf.Atom, len(lits))
	for i, l := range lits {
		atoms[i] = s.eng.MkAtom(l)
	}
	s.eng.AddClauseAtRoot(atoms, cnf.HypPremise())
}

// Outcome tags what a Solve call decided.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSat
	OutcomeUnsat
)

// Result is what Solve returns, per §6.4's Sat(model) | Unsat{proof?,
// unsat_core} | Unknown{reason} sum type.
type Result struct {
	Outcome Outcome

	// Model is populated on OutcomeSat: variable ID -> its sign.
	Model map[int32]bool

	// Proof is populated on OutcomeUnsat only if wantProof was set and
	// reconstruction succeeded; per §7, a failed reconstruction does
	// not invalidate the UNSAT verdict, it just leaves Proof and Core
	// nil.
	Proof *proof.Node
	Core  []*proof.Node

	UnknownReason cdcl.UnknownReason
}

// Solve implements §6.4's solve(solver, assumptions, on_progress,
// check): run the CDCL loop to completion under ctx, with assumptions
// scoped to this call only. wantProof gates whether a successful UNSAT
// result also retains the full proof DAG (it is always attempted, since
// the unsat core is derived from it either way) or just the core.
func (s *Solver) Solve(ctx context.Context, assumptions []literal.Literal, onProgress func() bool, wantProof bool) Result {
	atoms := make([]*cnf.Atom, len(assumptions))
	for i, l := range assumptions {
		atoms[i] = s.eng.MkAtom(l)
	}

	ok := s.eng.PushAssumptions(atoms)
	defer s.eng.PopAssumptions()
	if !ok {
		return Result{Outcome: OutcomeUnsat}
	}

	res := s.eng.Solve(ctx, onProgress, 0)
	switch res.Outcome {
	case cdcl.OutcomeSat:
		return Result{Outcome: OutcomeSat, Model: s.eng.Model()}
	case cdcl.OutcomeUnsat:
		out := Result{Outcome: OutcomeUnsat}
		r := proof.New()
		node, err := r.ProveUnsat(res.Conflict)
		if err != nil {
			s.log.Warn("proof reconstruction incomplete", "error", err)
			return out
		}
		out.Core = proof.UnsatCore(node)
		if wantProof {
			out.Proof = node
		}
		return out
	default:
		return Result{Outcome: OutcomeUnknown, UnknownReason: res.UnknownReason}
	}
}

// Stats returns the solver's running counters.
func (s *Solver) Stats() *solverstats.Stats { return s.stats }

// Theory returns the theory interface, for embedders that need direct
// access to register simplify/preprocess hooks or a CC factory before
// the first Solve call.
func (s *Solver) Theory() *theory.SolverInternal { return s.si }

// Term returns the term state the solver was created over.
func (s *Solver) Term() term.State { return s.st }
