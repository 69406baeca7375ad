package cdcl_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benti/sidekick/cdcl"
	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/preprocess"
	"github.com/benti/sidekick/term"
	"github.com/benti/sidekick/theory"
)

// noopSink satisfies preprocess.ClauseSink without ever being invoked:
// none of these tests register preprocess hooks.
type noopSink struct{ bank *term.Bank }

func (s noopSink) MkLit(t term.Term) literal.Literal   { return literal.PosAtom(t) }
func (s noopSink) AddClause(lits []literal.Literal)    {}

var _ preprocess.ClauseSink = noopSink{}

func newTestEngine() (*cdcl.Engine, *term.Bank) {
	bank := term.NewBank()
	db := cnf.NewDatabase()
	si := theory.New(bank, noopSink{bank: bank}, nil)
	eng := cdcl.New(db, si, nil, nil)
	return eng, bank
}

// litFromInt translates a DIMACS-style signed integer into a Literal
// over a fresh propositional atom named "x<|n|>", the same
// integer-formula shorthand the teacher's TestSolve_table used.
func litFromInt(bank *term.Bank, n int) literal.Literal {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	v := bank.Bool(fmt.Sprintf("x%d", abs))
	lit := literal.PosAtom(v)
	if n < 0 {
		lit = lit.Neg()
	}
	return lit
}

func addFormula(t *testing.T, eng *cdcl.Engine, bank *term.Bank, formula [][]int) {
	t.Helper()
	for _, clause := range formula {
		atoms := make([]*cnf.Atom, len(clause))
		for i, n := range clause {
			atoms[i] = eng.MkAtom(litFromInt(bank, n))
		}
		eng.AddClauseAtRoot(atoms, cnf.HypPremise())
	}
}

func TestEngine_Solve_table(t *testing.T) {
	cases := []struct {
		name    string
		formula [][]int
		sat     bool
	}{
		{"empty", [][]int{}, true},
		{"single literal", [][]int{{4}}, true},
		{
			"unsatisfiable with backtrack",
			[][]int{{4}, {6}, {-4, -6}},
			false,
		},
		{
			"satisfiable with backtrack",
			[][]int{{-4}, {4, -6}},
			true,
		},
		{
			"more complex example",
			[][]int{
				{-3, 4},
				{-1, -3, 5},
				{-2, -4, -5},
				{-2, 3, 5, -6},
				{-1, 2},
				{-1, 3, -5, -6},
				{1, -6},
				{1, 7},
			},
			true,
		},
		{
			"pigeonhole-lite unsat",
			[][]int{
				{1, 2}, {-1, -2},
				{1, 3}, {-1, -3},
				{2, 3}, {-2, -3},
			},
			false,
		},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%d-%s", i, tc.name), func(t *testing.T) {
			eng, bank := newTestEngine()
			addFormula(t, eng, bank, tc.formula)

			result := eng.Solve(context.Background(), nil, 0)
			if tc.sat {
				require.Equal(t, cdcl.OutcomeSat, result.Outcome)
			} else {
				require.Equal(t, cdcl.OutcomeUnsat, result.Outcome)
				require.NotNil(t, result.Conflict)
			}
		})
	}
}

func TestEngine_Solve_emptyClauseIsImmediatelyUnsat(t *testing.T) {
	eng, _ := newTestEngine()
	eng.AddClauseAtRoot(nil, cnf.HypPremise())

	result := eng.Solve(context.Background(), nil, 0)
	require.Equal(t, cdcl.OutcomeUnsat, result.Outcome)
}

func TestEngine_Solve_maxDepthYieldsUnknown(t *testing.T) {
	eng, bank := newTestEngine()
	// A long chain of independent variables forces many decisions with
	// no propagation to resolve them, so a tiny max depth must bail out
	// before the search completes.
	formula := make([][]int, 0, 10)
	for i := 1; i <= 10; i++ {
		formula = append(formula, []int{i, -i})
	}
	addFormula(t, eng, bank, formula)

	result := eng.Solve(context.Background(), nil, 1)
	require.Equal(t, cdcl.OutcomeUnknown, result.Outcome)
	require.Equal(t, cdcl.UnknownMaxDepth, result.UnknownReason)
}
