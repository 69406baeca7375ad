package cnf

import "github.com/benti/sidekick/term"

// Atom is a signed propositional handle tied to a Variable. atom.IsTrue()
// and atom.Neg().IsTrue() are never both true; if the owning variable is
// unassigned, both are false.
type Atom struct {
	v        *Variable
	dual     *Atom
	t        term.Term
	positive bool
	isTrue   bool

	// watching holds the clauses for which this atom is one of the two
	// watched literals (§4.2).
	watching []*Clause
}

// Var returns the owning variable.
func (a *Atom) Var() *Variable { return a.v }

// Neg returns the dual atom.
func (a *Atom) Neg() *Atom { return a.dual }

// Sign reports whether this is the positive atom of its variable.
func (a *Atom) Sign() bool { return a.positive }

// Term returns the underlying term this atom was built from.
func (a *Atom) Term() term.Term { return a.t }

// IsTrue reports whether this atom is currently asserted true.
func (a *Atom) IsTrue() bool { return a.isTrue }

// IsFalse reports whether the dual atom is currently asserted true.
func (a *Atom) IsFalse() bool { return a.dual.isTrue }

// IsAssigned reports whether the owning variable has a value.
func (a *Atom) IsAssigned() bool { return a.v.Assigned() }

// Level returns the owning variable's decision level, or -1.
func (a *Atom) Level() int { return a.v.level }

func (a *Atom) addWatcher(c *Clause) {
	a.watching = append(a.watching, c)
}

func (a *Atom) removeWatcher(c *Clause) {
	w := a.watching
	for i, wc := range w {
		if wc == c {
			w[i] = w[len(w)-1]
			w = w[:len(w)-1]
			a.watching = w
			return
		}
	}
}

// Watchers returns the clauses currently watching this atom. Callers
// must not retain the slice across a propagation round: the backing
// array is mutated in place by BCP.
func (a *Atom) Watchers() []*Clause { return a.watching }

// TakeWatchers detaches and returns the current watch list, leaving the
// atom's own list empty. BCP uses this to scan a stable snapshot while
// rebuilding the list in place (clauses that are still relevant get
// pushed back with PushWatcher).
func (a *Atom) TakeWatchers() []*Clause {
	w := a.watching
	a.watching = nil
	return w
}

// PushWatcher appends c to this atom's watch list.
func (a *Atom) PushWatcher(c *Clause) {
	a.watching = append(a.watching, c)
}

func (a *Atom) String() string {
	if a.positive {
		return a.t.String()
	}
	return "¬" + a.t.String()
}
