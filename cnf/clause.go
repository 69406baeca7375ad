package cnf

import (
	"strings"

	"github.com/google/uuid"
)

// PremiseKind tags a clause's provenance.
type PremiseKind uint8

const (
	// PremiseHyp marks a clause asserted by the user.
	PremiseHyp PremiseKind = iota
	// PremiseLocal marks an assumption under the current solve call.
	PremiseLocal
	// PremiseLemma marks a theory lemma, carrying the plugin's proof
	// token.
	PremiseLemma
	// PremiseHistory marks a learned clause, carrying the ordered list
	// of parent clauses it was resolved from.
	PremiseHistory
)

// Premise is the provenance record attached to every clause.
type Premise struct {
	Kind       PremiseKind
	ProofToken uuid.UUID // valid when Kind == PremiseLemma
	History    []*Clause // valid when Kind == PremiseHistory, in resolution order
}

func HypPremise() Premise                      { return Premise{Kind: PremiseHyp} }
func LocalPremise() Premise                    { return Premise{Kind: PremiseLocal} }
func LemmaPremise(token uuid.UUID) Premise     { return Premise{Kind: PremiseLemma, ProofToken: token} }
func HistoryPremise(parents []*Clause) Premise { return Premise{Kind: PremiseHistory, History: parents} }

// Clause is an immutable array of atoms plus the mutable bookkeeping the
// engine needs during search: activity, attachment/visited flags, and
// provenance. The atom slice itself is never mutated after Len() >= 2
// except for the in-place swaps the two-watched-literal scheme performs
// among indices, which never change set membership.
type Clause struct {
	ID uint64

	atoms    []*Atom
	activity float64
	attached bool
	visited  bool
	learnt   bool

	premise Premise
}

// Atoms returns the clause's literals. The first two entries are the
// watched literals once the clause is attached.
func (c *Clause) Atoms() []*Atom { return c.atoms }

func (c *Clause) Len() int { return len(c.atoms) }

func (c *Clause) IsEmpty() bool { return len(c.atoms) == 0 }

func (c *Clause) IsUnit() bool { return len(c.atoms) == 1 }

func (c *Clause) Premise() Premise { return c.premise }

func (c *Clause) Attached() bool { return c.attached }

func (c *Clause) Learnt() bool { return c.learnt }

func (c *Clause) Activity() float64 { return c.activity }

func (c *Clause) BumpActivity(inc float64) { c.activity += inc }

func (c *Clause) ScaleActivity(factor float64) { c.activity *= factor }

func (c *Clause) Visited() bool { return c.visited }

func (c *Clause) SetVisited(v bool) { c.visited = v }

// swapAtoms exchanges the atoms at indices i and j; used to move a
// replacement watch into position 0 or 1.
func (c *Clause) swapAtoms(i, j int) {
	c.atoms[i], c.atoms[j] = c.atoms[j], c.atoms[i]
}

// EnsureWatchAt swaps falseAtom into index idx (0 or 1) among the
// clause's first two atoms if it isn't already there. Both positions
// are already watched, so this never touches watch lists — it only
// keeps the two-watched-literal bookkeeping uniform for the caller.
func (c *Clause) EnsureWatchAt(idx int, falseAtom *Atom) {
	if c.atoms[idx] != falseAtom {
		c.swapAtoms(idx, 1-idx)
	}
}

// IsSatisfied reports whether at least one literal is currently true.
func (c *Clause) IsSatisfied() bool {
	for _, a := range c.atoms {
		if a.IsTrue() {
			return true
		}
	}
	return false
}

func (c *Clause) String() string {
	parts := make([]string, len(c.atoms))
	for i, a := range c.atoms {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, " ∨ ") + ")"
}
