package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/preprocess"
	"github.com/benti/sidekick/term"
)

// recordingSink counts AddClause calls so tests can assert a second
// preprocessing pass introduces no new definitional clauses.
type recordingSink struct{ clauses int }

func (s *recordingSink) MkLit(t term.Term) literal.Literal { return literal.PosAtom(t) }
func (s *recordingSink) AddClause(lits []literal.Literal)  { s.clauses++ }

var _ preprocess.ClauseSink = (*recordingSink)(nil)

// TestPreprocessLit_idempotent_noHooks is the baseline case of spec §8's
// testable property #5: with no hooks registered, PreprocessLit is
// already a fixed point on its first call, so a second call changes
// nothing and asserts nothing.
func TestPreprocessLit_idempotent_noHooks(t *testing.T) {
	bank := term.NewBank()
	sink := &recordingSink{}
	simp := preprocess.NewSimplifier(bank)
	pre := preprocess.NewPreprocessor(bank, sink)

	p := bank.Bool("p")
	l := literal.PosAtom(p)

	first := preprocess.PreprocessLit(simp, pre, l)
	second := preprocess.PreprocessLit(simp, pre, first)

	require.True(t, first.Equal(second))
	require.Equal(t, 0, sink.clauses)
}

// TestPreprocessLit_idempotent_withTseitinHook exercises the property
// against a hook that actually rewrites its input: the first pass
// Tseitin-defines "foo" into a fresh atom and asserts one definitional
// clause; the second pass, run on the rewritten literal, must leave it
// untouched and must not assert a second clause — the hook's own guard
// (it only fires on Fn() == "foo") keeps it from re-triggering on its
// own output, and the Preprocessor's fixed-point loop reaches that
// no-op conclusion without any special-casing from the caller.
func TestPreprocessLit_idempotent_withTseitinHook(t *testing.T) {
	bank := term.NewBank()
	sink := &recordingSink{}
	simp := preprocess.NewSimplifier(bank)
	pre := preprocess.NewPreprocessor(bank, sink)

	defined := make(map[int32]bool)
	pre.AddHook(func(u term.Term, s preprocess.ClauseSink) (term.Term, bool) {
		if u.Kind() != term.KindApp || u.Fn() != "foo" || defined[u.ID()] {
			return u, false
		}
		defined[u.ID()] = true
		fresh := bank.Bool("foo$def")
		s.AddClause([]literal.Literal{literal.PosAtom(fresh), literal.Atom(u, false)})
		return fresh, true
	})

	foo := bank.Bool("foo")
	l := literal.PosAtom(foo)

	first := preprocess.PreprocessLit(simp, pre, l)
	require.Equal(t, 1, sink.clauses, "first pass should Tseitin-define foo exactly once")
	require.NotEqual(t, foo.ID(), first.Term().ID(), "first pass should have rewritten foo to its definition atom")

	second := preprocess.PreprocessLit(simp, pre, first)
	require.True(t, first.Equal(second), "second pass must be a no-op on the already-rewritten literal")
	require.Equal(t, 1, sink.clauses, "second pass must not assert a further clause")
}

// TestBoolSubterms_dedupedAndSkipsNegation exercises §4.3's bool-subterm
// lifting helper directly: it should visit shared subterms once and
// never report a Not node itself, only what it negates.
func TestBoolSubterms_dedupedAndSkipsNegation(t *testing.T) {
	bank := term.NewBank()
	p := bank.Bool("p")
	notP := bank.Not(p)
	eq := bank.Eq(notP, p)

	subs := preprocess.BoolSubterms(eq)

	ids := make(map[int32]bool, len(subs))
	for _, s := range subs {
		require.NotEqual(t, term.KindNot, s.Kind(), "BoolSubterms must never report a Not node itself")
		ids[s.ID()] = true
	}
	require.True(t, ids[eq.ID()])
	require.True(t, ids[p.ID()])
	require.Len(t, subs, 2, "p should be deduplicated across both the not(p) and the bare p occurrence")
}
