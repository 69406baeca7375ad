// Package literal implements the literal and formula layer (C1): signed
// atoms over normalized terms, with the canonicalization contract the SAT
// engine relies on to collapse dual atoms onto a single variable.
package literal

import "github.com/benti/sidekick/term"

// SignTag reports whether normalization flipped the caller's requested
// sign.
type SignTag bool

const (
	SameSign SignTag = false
	Negated  SignTag = true
)

// Literal is a pair (term, sign) where term is always in absolute form:
// any outer negation has already been folded into sign at construction
// time. neg(neg(l)) == l by construction, and two literals are Equal iff
// both fields match.
type Literal struct {
	t    term.Term
	sign bool // true means positive occurrence of t
}

// Make builds a literal directly from an already-absolute term and a
// sign. Callers that might pass a negated term should use Atom instead.
func Make(sign bool, t term.Term) Literal {
	return Literal{t: t, sign: sign}
}

// Atom is the canonical literal constructor (§4.1): it strips an outer
// negation from t via term.Abs, XORing the caller's requested sign with
// the sign returned by Abs, so the result always carries an absolute term
// plus a sign computed independently of how the caller spelled it.
func Atom(t term.Term, sign bool) Literal {
	abs, flipped := term.Abs(t)
	if flipped {
		sign = !sign
	}
	return Literal{t: abs, sign: sign}
}

// PosAtom is shorthand for Atom(t, true).
func PosAtom(t term.Term) Literal { return Atom(t, true) }

func (l Literal) Term() term.Term { return l.t }
func (l Literal) Sign() bool      { return l.sign }

// Neg returns the dual literal. neg(neg(l)) == l holds structurally since
// only the sign bit is flipped.
func (l Literal) Neg() Literal {
	return Literal{t: l.t, sign: !l.sign}
}

func (l Literal) Equal(o Literal) bool {
	return l.sign == o.sign && l.t.ID() == o.t.ID()
}

// Hash is a cheap, stable hash suitable for map keys built from the
// term's dense ID and the sign bit.
func (l Literal) Hash() uint64 {
	h := uint64(uint32(l.t.ID())) << 1
	if l.sign {
		h |= 1
	}
	return h
}

// Normalize returns the canonical form of l together with the tag
// describing whether canonicalization flipped the sign relative to l's
// own (t, sign) pair. A literal built via Atom is already absolute, so
// Normalize returns it unchanged with SameSign; a literal built via Make
// over a negated term has that outer negation stripped and its sign
// flipped, reported as Negated.
func Normalize(l Literal) (Literal, SignTag) {
	abs, flipped := term.Abs(l.t)
	if !flipped {
		return l, SameSign
	}
	return Literal{t: abs, sign: !l.sign}, Negated
}

func (l Literal) String() string {
	if l.sign {
		return l.t.String()
	}
	return "¬" + l.t.String()
}
