package literal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/term"
)

// TestAtom_stripsOuterNegation exercises the canonicalization contract
// §4.1 names: Atom(not(p), sign) must land on the same (term, sign) pair
// as Atom(p, !sign).
func TestAtom_stripsOuterNegation(t *testing.T) {
	bank := term.NewBank()
	p := bank.Bool("p")
	notP := bank.Not(p)

	a := literal.Atom(notP, true)
	require.Equal(t, p.ID(), a.Term().ID())
	require.False(t, a.Sign())

	b := literal.Atom(notP, false)
	require.Equal(t, p.ID(), b.Term().ID())
	require.True(t, b.Sign())
}

// TestLiteral_NegIsInvolution checks neg(neg(l)) == l, the duality spec
// §3 requires of the Variable/Atom split.
func TestLiteral_NegIsInvolution(t *testing.T) {
	bank := term.NewBank()
	p := bank.Bool("p")
	l := literal.PosAtom(p)

	require.True(t, l.Equal(l.Neg().Neg()))
}

// TestNormalize_idempotent is spec §8's testable property #4, literal
// canonicalization idempotence: normalizing an already-normal literal is
// a no-op, and normalizing the result of a first pass is always a
// second no-op — even starting from a literal built by Make that
// deliberately skips Atom's own canonicalization, so the first
// Normalize call actually has work to do.
func TestNormalize_idempotent(t *testing.T) {
	bank := term.NewBank()
	p := bank.Bool("p")
	notP := bank.Not(p)

	cases := []struct {
		name string
		l    literal.Literal
	}{
		{"already absolute, positive", literal.PosAtom(p)},
		{"already absolute, negative", literal.Atom(p, false)},
		{"built via Atom over a negated term", literal.Atom(notP, true)},
		{"built via Make bypassing Atom's own stripping", literal.Make(true, notP)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			firstPass, _ := literal.Normalize(c.l)
			secondPass, tag := literal.Normalize(firstPass)

			require.True(t, firstPass.Equal(secondPass),
				"normalize(normalize(l).0) must equal normalize(l).0")
			require.Equal(t, literal.SameSign, tag,
				"a second Normalize call must never report a further sign flip")
		})
	}
}
