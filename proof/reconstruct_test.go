package proof_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/benti/sidekick/cnf"
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/proof"
	"github.com/benti/sidekick/term"
)

func setup(t *testing.T) (*term.Bank, *cnf.Database) {
	t.Helper()
	return term.NewBank(), cnf.NewDatabase()
}

func atomFor(db *cnf.Database, bank *term.Bank, name string, sign bool) *cnf.Atom {
	lit := literal.PosAtom(bank.Bool(name))
	if !sign {
		lit = lit.Neg()
	}
	return db.MakeAtom(lit)
}

// TestReconstructor_S1 mirrors spec §8 scenario S1: assert {p} and {¬p};
// the resolution proof has exactly one step over p and an empty
// conclusion.
func TestReconstructor_S1(t *testing.T) {
	bank, db := setup(t)
	p := atomFor(db, bank, "p", true)
	notP := atomFor(db, bank, "p", false)

	h1 := db.MakeClause([]*cnf.Atom{p}, cnf.HypPremise())
	h2 := db.MakeClause([]*cnf.Atom{notP}, cnf.HypPremise())
	empty := db.MakeClause(nil, cnf.HistoryPremise([]*cnf.Clause{h1, h2}))

	r := proof.New()
	node, err := r.Prove(empty)
	require.NoError(t, err)
	require.Equal(t, proof.StepResolution, node.Kind)
	require.Empty(t, node.Atoms)
	require.Equal(t, p.Var().ID, node.Pivot.Var().ID)

	core := proof.UnsatCore(node)
	require.Len(t, core, 2)
	for _, leaf := range core {
		require.Equal(t, proof.StepHypothesis, leaf.Kind)
	}

	out, err := proof.ToDOT(node, uuid.New())
	require.NoError(t, err)
	require.Contains(t, string(out), "digraph")
}

func TestReconstructor_noPivotIsResolutionError(t *testing.T) {
	bank, db := setup(t)
	a := atomFor(db, bank, "a", true)

	h1 := db.MakeClause([]*cnf.Atom{a}, cnf.HypPremise())
	h2 := db.MakeClause([]*cnf.Atom{a}, cnf.HypPremise())
	merged := db.MakeClause([]*cnf.Atom{a}, cnf.HistoryPremise([]*cnf.Clause{h1, h2}))

	r := proof.New()
	_, err := r.Prove(merged)
	require.ErrorIs(t, err, proof.ErrResolutionError)
}

func TestReconstructor_multiplePivotsIsResolutionError(t *testing.T) {
	bank, db := setup(t)
	a := atomFor(db, bank, "a", true)
	notA := atomFor(db, bank, "a", false)
	b := atomFor(db, bank, "b", true)
	notB := atomFor(db, bank, "b", false)

	h1 := db.MakeClause([]*cnf.Atom{a, b}, cnf.HypPremise())
	h2 := db.MakeClause([]*cnf.Atom{notA, notB}, cnf.HypPremise())
	bogus := db.MakeClause(nil, cnf.HistoryPremise([]*cnf.Clause{h1, h2}))

	r := proof.New()
	_, err := r.Prove(bogus)
	require.ErrorIs(t, err, proof.ErrResolutionError)
}

// TestReconstructor_threeWayChain exercises a linear fold across three
// parents: {a,b}, {¬a}, {¬b} resolve down to the empty clause via two
// cancelling steps, each with exactly one pivot.
func TestReconstructor_threeWayChain(t *testing.T) {
	bank, db := setup(t)
	a := atomFor(db, bank, "a", true)
	notA := atomFor(db, bank, "a", false)
	b := atomFor(db, bank, "b", true)
	notB := atomFor(db, bank, "b", false)

	h1 := db.MakeClause([]*cnf.Atom{a, b}, cnf.HypPremise())
	h2 := db.MakeClause([]*cnf.Atom{notA}, cnf.HypPremise())
	h3 := db.MakeClause([]*cnf.Atom{notB}, cnf.HypPremise())
	empty := db.MakeClause(nil, cnf.HistoryPremise([]*cnf.Clause{h1, h2, h3}))

	r := proof.New()
	node, err := r.Prove(empty)
	require.NoError(t, err)
	require.Empty(t, node.Atoms)

	core := proof.UnsatCore(node)
	require.Len(t, core, 3)
}
