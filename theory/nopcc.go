package theory

import (
	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/term"
)

// NopCC is a congruence closure that tracks nothing and never
// propagates or conflicts. It is the lazily-constructed default a
// SolverInternal falls back to when no concrete CC was supplied at
// registration time (§9's "lazy CC tie-in" design note), so that
// solvers with no equality reasoning at all don't need to carry a real
// congruence-closure dependency.
type NopCC struct{}

func NewNopCC() *NopCC { return &NopCC{} }

func (n *NopCC) AddTerm(t term.Term) Node              { return nopNode{} }
func (n *NopCC) Find(node Node) Node                   { return node }
func (n *NopCC) Merge(Node, Node, Explanation)         {}
func (n *NopCC) AssertLits([]literal.Literal)          {}
func (n *NopCC) Check(Acts)                            {}
func (n *NopCC) PushLevel()                            {}
func (n *NopCC) PopLevels(int)                         {}
func (n *NopCC) SetAsLit(Node, literal.Literal)        {}
func (n *NopCC) RaiseConflictFromExpl(Acts, Explanation) {}
func (n *NopCC) OnNewTerm(func(Node, term.Term))       {}
func (n *NopCC) OnPreMerge(func(Node, Node))           {}
func (n *NopCC) OnPostMerge(func(Node, Node))          {}
func (n *NopCC) OnConflict(func(Explanation))          {}
func (n *NopCC) OnPropagate(func(literal.Literal, Explanation)) {}

type nopNode struct{}

func (nopNode) ID() int64 { return -1 }
