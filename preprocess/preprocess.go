// Package preprocess implements the preprocessor/simplifier (C3): two
// cooperating memoized fixed-point rewriters. The simplify cache applies
// a user-registered chain of term -> term hooks; the preprocess cache
// additionally lets hooks introduce definitional clauses (Tseitin-style)
// while rewriting a literal.
//
// Per §5's ordering guarantee (and the teacher pack's "hook chains form a
// stack searched most-recent-first" design note), both chains are tried
// in reverse registration order: the most recently added hook runs
// first.
package preprocess

import (
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/term"
)

// SimplifyHook rewrites t, reporting whether it changed anything.
type SimplifyHook func(t term.Term) (term.Term, bool)

// ClauseSink is the pair of capabilities a preprocess hook needs beyond
// simple term rewriting: a literal maker and a clause introducer, both
// ultimately backed by the top-level solver.
type ClauseSink interface {
	MkLit(t term.Term) literal.Literal
	AddClause(lits []literal.Literal)
}

// PreprocessHook rewrites t, optionally asserting definitional clauses
// through sink, and reports whether it changed t.
type PreprocessHook func(t term.Term, sink ClauseSink) (term.Term, bool)

// Simplifier is the simplify cache.
type Simplifier struct {
	st    term.State
	hooks []SimplifyHook
	cache map[int32]term.Term
}

func NewSimplifier(st term.State) *Simplifier {
	return &Simplifier{st: st, cache: make(map[int32]term.Term)}
}

// AddHook registers h. Hooks run most-recently-added first.
func (s *Simplifier) AddHook(h SimplifyHook) {
	s.hooks = append(s.hooks, h)
}

// Simplify rewrites t to a fixed point: children are mapped recursively
// first, then hooks are tried most-recent-first; the first hook that
// returns a changed term restarts the process from that term.
func (s *Simplifier) Simplify(t term.Term) term.Term {
	if cached, ok := s.cache[t.ID()]; ok {
		return cached
	}
	cur := s.rewriteChildren(t)
	for {
		changed := false
		for i := len(s.hooks) - 1; i >= 0; i-- {
			if u, ok := s.hooks[i](cur); ok && u.ID() != cur.ID() {
				cur = s.rewriteChildren(u)
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	s.cache[t.ID()] = cur
	return cur
}

func (s *Simplifier) rewriteChildren(t term.Term) term.Term {
	switch t.Kind() {
	case term.KindNot:
		inner := t.Negated()
		rewritten := s.Simplify(inner)
		if rewritten.ID() == inner.ID() {
			return t
		}
		return s.st.Not(rewritten)
	case term.KindEq:
		args := t.Args()
		a := s.Simplify(args[0])
		b := s.Simplify(args[1])
		if a.ID() == args[0].ID() && b.ID() == args[1].ID() {
			return t
		}
		return s.st.Eq(a, b)
	case term.KindApp:
		args := t.Args()
		if len(args) == 0 {
			return t
		}
		newArgs := make([]term.Term, len(args))
		changed := false
		for i, a := range args {
			na := s.Simplify(a)
			newArgs[i] = na
			if na.ID() != a.ID() {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return s.st.App(t.Fn(), newArgs...)
	default:
		return t
	}
}

// Preprocessor is the preprocess cache: structurally identical to
// Simplifier, but hooks can introduce clauses via a ClauseSink.
type Preprocessor struct {
	st    term.State
	sink  ClauseSink
	hooks []PreprocessHook
	cache map[int32]term.Term
}

func NewPreprocessor(st term.State, sink ClauseSink) *Preprocessor {
	return &Preprocessor{st: st, sink: sink, cache: make(map[int32]term.Term)}
}

func (p *Preprocessor) AddHook(h PreprocessHook) {
	p.hooks = append(p.hooks, h)
}

// Preprocess rewrites t to a fixed point the same way Simplify does,
// except hooks may also assert definitional clauses as a side effect.
func (p *Preprocessor) Preprocess(t term.Term) term.Term {
	if cached, ok := p.cache[t.ID()]; ok {
		return cached
	}
	cur := p.rewriteChildren(t)
	for {
		changed := false
		for i := len(p.hooks) - 1; i >= 0; i-- {
			if u, ok := p.hooks[i](cur, p.sink); ok && u.ID() != cur.ID() {
				cur = p.rewriteChildren(u)
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	p.cache[t.ID()] = cur
	return cur
}

func (p *Preprocessor) rewriteChildren(t term.Term) term.Term {
	switch t.Kind() {
	case term.KindNot:
		inner := t.Negated()
		rewritten := p.Preprocess(inner)
		if rewritten.ID() == inner.ID() {
			return t
		}
		return p.st.Not(rewritten)
	case term.KindEq:
		args := t.Args()
		a := p.Preprocess(args[0])
		b := p.Preprocess(args[1])
		if a.ID() == args[0].ID() && b.ID() == args[1].ID() {
			return t
		}
		return p.st.Eq(a, b)
	case term.KindApp:
		args := t.Args()
		if len(args) == 0 {
			return t
		}
		newArgs := make([]term.Term, len(args))
		changed := false
		for i, a := range args {
			na := p.Preprocess(a)
			newArgs[i] = na
			if na.ID() != a.ID() {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return p.st.App(t.Fn(), newArgs...)
	default:
		return t
	}
}

// PreprocessLit implements preprocess_lit(lit) (§4.3): simplify the
// literal's term, preprocess the result, then rebuild the literal with
// the original sign. literal.Atom re-applies canonicalization in case
// rewriting introduced a fresh outer negation.
func PreprocessLit(simp *Simplifier, pre *Preprocessor, lit literal.Literal) literal.Literal {
	t := simp.Simplify(lit.Term())
	t = pre.Preprocess(t)
	return literal.Atom(t, lit.Sign())
}

// BoolSubterms returns, in a stable DFS order and deduplicated by term
// ID, every Boolean subterm reachable in t's DAG that is not itself a
// negation (§4.3's bool-subterm lifting). The caller (the theory
// interface, C5) is responsible for ensuring a propositional atom exists
// for each and binding it into the congruence closure via cc.set_as_lit.
func BoolSubterms(t term.Term) []term.Term {
	seen := make(map[int32]bool)
	var out []term.Term
	var visit func(term.Term)
	visit = func(u term.Term) {
		if seen[u.ID()] {
			return
		}
		seen[u.ID()] = true
		if u.IsBool() && u.Kind() != term.KindNot {
			out = append(out, u)
		}
		switch u.Kind() {
		case term.KindNot:
			visit(u.Negated())
		case term.KindEq, term.KindApp:
			for _, a := range u.Args() {
				visit(a)
			}
		}
	}
	visit(t)
	return out
}
