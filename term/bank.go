package term

import "fmt"

// Bank is a minimal hash-consed term bank implementing State. It exists so
// that this module's own tests, and any embedder without a term layer of
// its own, can exercise the CDCL(T) core end to end. Production use is
// expected to supply a real term/type-checking environment instead.
type Bank struct {
	nextID int32

	trueT  *node
	falseT *node

	bools map[string]*node
	apps  map[appKey]*node
	eqs   map[eqKey]*node
	nots  map[int32]*node
}

type appKey struct {
	fn   string
	args string // joined arg IDs, cheap and sufficient for a reference bank
}

type eqKey struct {
	a, b int32
}

// node is Bank's concrete Term implementation.
type node struct {
	id     int32
	kind   Kind
	bval   bool
	fn     string
	args   []Term
	negOf  Term
	isBool bool
}

func (n *node) ID() int32       { return n.id }
func (n *node) IsBool() bool    { return n.isBool }
func (n *node) Kind() Kind      { return n.kind }
func (n *node) BoolValue() bool {
	return n.bval
}
func (n *node) Fn() string    { return n.fn }
func (n *node) Args() []Term  { return n.args }
func (n *node) Negated() Term { return n.negOf }

func (n *node) String() string {
	switch n.kind {
	case KindBoolConst:
		if n.bval {
			return "true"
		}
		return "false"
	case KindNot:
		return fmt.Sprintf("(not %s)", n.negOf)
	case KindEq:
		return fmt.Sprintf("(= %s %s)", n.args[0], n.args[1])
	case KindApp:
		if len(n.args) == 0 {
			return n.fn
		}
		return fmt.Sprintf("(%s %v)", n.fn, n.args)
	default:
		return fmt.Sprintf("term#%d", n.id)
	}
}

// NewBank creates an empty term bank with the two Boolean constants
// pre-interned.
func NewBank() *Bank {
	b := &Bank{
		bools: make(map[string]*node),
		apps:  make(map[appKey]*node),
		eqs:   make(map[eqKey]*node),
		nots:  make(map[int32]*node),
	}
	b.trueT = b.intern(&node{kind: KindBoolConst, bval: true, isBool: true})
	b.falseT = b.intern(&node{kind: KindBoolConst, bval: false, isBool: true})
	return b
}

func (b *Bank) intern(n *node) *node {
	n.id = b.nextID
	b.nextID++
	return n
}

func (b *Bank) True() Term  { return b.trueT }
func (b *Bank) False() Term { return b.falseT }

func (b *Bank) Not(t Term) Term {
	// Canonical: negation never stacks. not(not(x)) = x.
	if t.Kind() == KindNot {
		return t.Negated()
	}
	id := t.ID()
	if existing, ok := b.nots[id]; ok {
		return existing
	}
	n := b.intern(&node{kind: KindNot, negOf: t, isBool: true})
	b.nots[id] = n
	return n
}

func (b *Bank) Eq(a, c Term) Term {
	k := eqKey{a.ID(), c.ID()}
	if a.ID() > c.ID() {
		k = eqKey{c.ID(), a.ID()}
	}
	if existing, ok := b.eqs[k]; ok {
		return existing
	}
	n := b.intern(&node{kind: KindEq, args: []Term{a, c}, isBool: true})
	b.eqs[k] = n
	return n
}

func (b *Bank) App(fn string, args ...Term) Term {
	joined := ""
	for _, a := range args {
		joined += fmt.Sprintf("#%d", a.ID())
	}
	k := appKey{fn: fn, args: joined}
	if existing, ok := b.apps[k]; ok {
		return existing
	}
	n := b.intern(&node{kind: KindApp, fn: fn, args: args})
	b.apps[k] = n
	return n
}

func (b *Bank) Bool(name string) Term {
	if existing, ok := b.bools[name]; ok {
		return existing
	}
	n := b.intern(&node{kind: KindApp, fn: name, isBool: true})
	b.bools[name] = n
	return n
}
