package solver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/benti/sidekick/cdcl"
	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/proof"
	"github.com/benti/sidekick/solver"
	"github.com/benti/sidekick/term"
	"github.com/benti/sidekick/theory"
)

func newSolver(t *testing.T) (*solver.Solver, *term.Bank) {
	t.Helper()
	bank := term.NewBank()
	s, err := solver.Create(bank, nil)
	require.NoError(t, err)
	return s, bank
}

func posAtom(s *solver.Solver, t term.Term) *cnf.Atom { return s.MkAtomT(t, true) }
func negAtom(s *solver.Solver, t term.Term) *cnf.Atom { return s.MkAtomT(t, false) }

// TestSolver_S1_trivialUnsat mirrors spec §8 scenario S1: {p}, {¬p} is
// unsatisfiable at level 0 with no search required.
func TestSolver_S1_trivialUnsat(t *testing.T) {
	s, bank := newSolver(t)
	p := bank.Bool("p")

	s.AddClauseL([]*cnf.Atom{posAtom(s, p)})
	s.AddClauseL([]*cnf.Atom{negAtom(s, p)})

	res := s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeUnsat, res.Outcome)
}

// TestSolver_S2_satWithModelCheck mirrors scenario S2: {p, q}, {¬p, q}
// is satisfiable, and the returned model must actually satisfy both
// clauses.
func TestSolver_S2_satWithModelCheck(t *testing.T) {
	s, bank := newSolver(t)
	p, q := bank.Bool("p"), bank.Bool("q")

	pAtom, qAtom := posAtom(s, p), posAtom(s, q)
	s.AddClauseL([]*cnf.Atom{pAtom, qAtom})
	s.AddClauseL([]*cnf.Atom{negAtom(s, p), qAtom})

	res := s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeSat, res.Outcome)

	satisfied := res.Model[pAtom.Var().ID] || res.Model[qAtom.Var().ID]
	require.True(t, satisfied, "model %v does not satisfy {p, q}", res.Model)
	satisfied = !res.Model[pAtom.Var().ID] || res.Model[qAtom.Var().ID]
	require.True(t, satisfied, "model %v does not satisfy {¬p, q}", res.Model)
}

// noopPluginState satisfies theory.PluginState for plugins with nothing
// to save or restore across push/pop.
type noopPluginState struct{}

func (noopPluginState) PushLevel()    {}
func (noopPluginState) PopLevels(int) {}

// impliesQ is a minimal theory plugin exercising the Acts.Propagate path:
// whenever p is asserted true, it semantically propagates q true,
// justified by a thunk over {p}.
type impliesQ struct {
	p, q *cnf.Atom
}

func (im *impliesQ) Name() string { return "implies-q" }

func (im *impliesQ) CreateAndSetup(si *theory.SolverInternal) theory.PluginState {
	si.OnPartialCheck(func(acts theory.Acts) {
		if im.p.IsTrue() && !im.q.IsAssigned() {
			p := im.p
			acts.Propagate(im.q, func() ([]*cnf.Atom, uuid.UUID) {
				return []*cnf.Atom{p}, uuid.Nil
			})
		}
	})
	return noopPluginState{}
}

// TestSolver_S3_theoryPropagation mirrors scenario S3: a registered
// plugin forces q whenever p holds, without any clause connecting them
// in the SAT formula itself.
func TestSolver_S3_theoryPropagation(t *testing.T) {
	s, bank := newSolver(t)
	p, q := bank.Bool("p"), bank.Bool("q")
	pAtom, qAtom := posAtom(s, p), posAtom(s, q)

	s.AddTheory(&impliesQ{p: pAtom, q: qAtom})
	s.AddClauseL([]*cnf.Atom{pAtom})

	res := s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeSat, res.Outcome)
	require.True(t, res.Model[pAtom.Var().ID])
	require.True(t, res.Model[qAtom.Var().ID], "theory propagation did not force q")
}

// TestSolver_S4_pushPopRoundTrip mirrors scenario S4: push a level,
// assert {p}, solve sat; pop back; assert {¬p} instead, solve sat again
// with the opposite value, proving the first assertion left no trace.
func TestSolver_S4_pushPopRoundTrip(t *testing.T) {
	s, bank := newSolver(t)
	p := bank.Bool("p")
	pAtom := posAtom(s, p)

	s.PushLevel()
	s.AssertAt([]*cnf.Atom{pAtom})
	res := s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeSat, res.Outcome)
	require.True(t, res.Model[pAtom.Var().ID])

	s.PopLevels(1)

	s.PushLevel()
	s.AssertAt([]*cnf.Atom{negAtom(s, p)})
	res = s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeSat, res.Outcome)
	require.False(t, res.Model[pAtom.Var().ID])
	s.PopLevels(1)
}

// buildPigeonhole asserts the standard pigeonhole-principle encoding (p
// pigeons, h holes, p > h) into s and returns the total number of
// clauses asserted. The encoding is minimally unsatisfiable — removing
// any single clause makes it satisfiable — so every resolution
// refutation of it must use every one of these clauses at least once,
// regardless of the search order that found it.
func buildPigeonhole(s *solver.Solver, bank *term.Bank, pigeons, holes int) int {
	atom := make([][]*cnf.Atom, pigeons)
	for p := 0; p < pigeons; p++ {
		atom[p] = make([]*cnf.Atom, holes)
		for h := 0; h < holes; h++ {
			v := bank.Bool(holeName(p, h))
			atom[p][h] = posAtom(s, v)
		}
	}

	clauses := 0
	// Every pigeon sits in at least one hole.
	for p := 0; p < pigeons; p++ {
		s.AddClauseL(append([]*cnf.Atom(nil), atom[p]...))
		clauses++
	}
	// No two pigeons share a hole.
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				s.AddClauseL([]*cnf.Atom{atom[p1][h].Neg(), atom[p2][h].Neg()})
				clauses++
			}
		}
	}
	return clauses
}

// TestSolver_S5_restartStability mirrors scenario S5: a small pigeonhole
// instance (4 pigeons, 3 holes) is solved once under the default Luby
// restart policy and once with restarts disabled entirely; the final
// verdict and unsat core must match. The default policy's first restart
// comes after 100 conflicts, more than an instance this small needs, so
// the test does not check that a restart actually fires.
func TestSolver_S5_restartStability(t *testing.T) {
	const pigeons, holes = 4, 3

	withRestarts, bank1 := newSolver(t)
	clauseCount := buildPigeonhole(withRestarts, bank1, pigeons, holes)
	resRestarts := withRestarts.Solve(context.Background(), nil, nil, true)
	require.Equal(t, solver.OutcomeUnsat, resRestarts.Outcome)

	bank2 := term.NewBank()
	noRestarts, err := solver.Create(bank2, nil, solver.WithRestartPolicy(cdcl.NoRestarts))
	require.NoError(t, err)
	buildPigeonhole(noRestarts, bank2, pigeons, holes)
	resNoRestarts := noRestarts.Solve(context.Background(), nil, nil, true)
	require.Equal(t, solver.OutcomeUnsat, resNoRestarts.Outcome)

	require.Len(t, resRestarts.Core, clauseCount, "default-restart run's unsat core should need every clause of a minimally unsatisfiable formula")
	require.Len(t, resNoRestarts.Core, clauseCount, "restart-disabled run's unsat core should need every clause of a minimally unsatisfiable formula")
}

func holeName(p, h int) string {
	return "x_" + itoa(p) + "_" + itoa(h)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

// TestSolver_S6_proofDOTWellFormed mirrors scenario S6: an UNSAT result
// requested with a proof comes back with a DAG that serializes to valid
// GraphViz DOT.
func TestSolver_S6_proofDOTWellFormed(t *testing.T) {
	s, bank := newSolver(t)
	p := bank.Bool("p")

	s.AddClauseL([]*cnf.Atom{posAtom(s, p)})
	s.AddClauseL([]*cnf.Atom{negAtom(s, p)})

	res := s.Solve(context.Background(), nil, nil, true)
	require.Equal(t, solver.OutcomeUnsat, res.Outcome)
	require.NotNil(t, res.Proof)
	require.NotEmpty(t, res.Core)

	out, err := proof.ToDOT(res.Proof, uuid.New())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "//"))
	require.Contains(t, string(out), "digraph")
}

// TestSolver_Solve_assumptionConflictIsUnsat exercises the assumptions
// parameter: an assumption contradicting a root clause is unsat without
// touching the permanent formula.
func TestSolver_Solve_assumptionConflictIsUnsat(t *testing.T) {
	s, bank := newSolver(t)
	p := bank.Bool("p")
	s.AddClauseL([]*cnf.Atom{posAtom(s, p)})

	res := s.Solve(context.Background(), []literal.Literal{literal.Atom(p, false)}, nil, false)
	require.Equal(t, solver.OutcomeUnsat, res.Outcome)

	// The root clause is untouched: solving again with no assumptions
	// is still sat with p true.
	res = s.Solve(context.Background(), nil, nil, false)
	require.Equal(t, solver.OutcomeSat, res.Outcome)
	require.True(t, res.Model[posAtom(s, p).Var().ID])
}

// TestSolver_AddTheoryL_rejectsDuplicateNames exercises §6.1's
// add_theory_l batch validation.
func TestSolver_AddTheoryL_rejectsDuplicateNames(t *testing.T) {
	s, bank := newSolver(t)
	p := bank.Bool("p")
	pAtom, qAtom := posAtom(s, p), posAtom(s, p)

	err := s.AddTheoryL([]theory.Plugin{
		&impliesQ{p: pAtom, q: qAtom},
		&impliesQ{p: pAtom, q: qAtom},
	})
	require.Error(t, err)
}
