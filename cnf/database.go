package cnf

import (
	"github.com/benti/sidekick/literal"
)

// Database is the clause database (C2). It hash-conses variables by the
// absolute term they were built from so duplicate literals across
// clauses share a variable, and it owns the two-watched-literals
// mechanism.
type Database struct {
	termToVar map[int32]*Variable
	vars      []*Variable

	nextClauseID uint64
}

func NewDatabase() *Database {
	return &Database{
		termToVar: make(map[int32]*Variable),
	}
}

// Vars returns every variable created so far, in creation order.
func (db *Database) Vars() []*Variable { return db.vars }

// NumVars returns the number of distinct variables.
func (db *Database) NumVars() int { return len(db.vars) }

// MakeAtom looks up, or creates, the variable for normalize(lit) and
// returns the positive or negative atom accordingly (§4.2).
func (db *Database) MakeAtom(lit literal.Literal) *Atom {
	normalized, _ := literal.Normalize(lit)
	t := normalized.Term()
	v, ok := db.termToVar[t.ID()]
	if !ok {
		v = newVariable(int32(len(db.vars)), t)
		db.vars = append(db.vars, v)
		db.termToVar[t.ID()] = v
	}
	if normalized.Sign() {
		return v.Pos()
	}
	return v.Neg()
}

// LookupAtom returns the atom for lit if its variable already exists,
// without creating one.
func (db *Database) LookupAtom(lit literal.Literal) (*Atom, bool) {
	normalized, _ := literal.Normalize(lit)
	v, ok := db.termToVar[normalized.Term().ID()]
	if !ok {
		return nil, false
	}
	if normalized.Sign() {
		return v.Pos(), true
	}
	return v.Neg(), true
}

// MakeClause allocates an immutable clause record. It does not attach
// the clause to the watch lists; that is the CDCL engine's job (§4.2).
func (db *Database) MakeClause(atoms []*Atom, premise Premise) *Clause {
	c := &Clause{
		ID:      db.nextClauseID,
		atoms:   append([]*Atom(nil), atoms...),
		premise: premise,
		learnt:  premise.Kind == PremiseHistory,
	}
	db.nextClauseID++
	return c
}

// Attach registers c in the two-watched-literals scheme: for clauses of
// length >= 2 the first two atoms become the watches; a unit clause
// watches its single literal; the empty clause is never attached.
func (db *Database) Attach(c *Clause) {
	if c.attached {
		return
	}
	c.attached = true
	switch c.Len() {
	case 0:
	case 1:
		c.atoms[0].addWatcher(c)
	default:
		c.atoms[0].addWatcher(c)
		c.atoms[1].addWatcher(c)
	}
}

// Detach removes c from the watch lists it occupies. Used by clause-DB
// reduction to garbage-collect learnt clauses.
func (db *Database) Detach(c *Clause) {
	if !c.attached {
		return
	}
	c.attached = false
	switch c.Len() {
	case 0:
	case 1:
		c.atoms[0].removeWatcher(c)
	default:
		c.atoms[0].removeWatcher(c)
		c.atoms[1].removeWatcher(c)
	}
}

// ReplaceWatch moves the watch currently at position watchIdx (0 or 1)
// to the literal sitting at newIdx, which the caller has already
// determined to be non-false. This swaps the two clause positions so
// the invariant "watches live at indices 0 and 1" keeps holding, and
// registers the clause on the new atom's watch list. It does not remove
// the clause from the old atom's list: callers performing a TakeWatchers
// scan have already dropped it implicitly by not pushing it back.
func (db *Database) ReplaceWatch(c *Clause, watchIdx, newIdx int) *Atom {
	c.swapAtoms(watchIdx, newIdx)
	newAtom := c.atoms[watchIdx]
	newAtom.PushWatcher(c)
	return newAtom
}

// Assign marks atom a true at the given decision level with the given
// reason, and its dual false. This is the sole mutation point for
// assignment state, called by the CDCL trail.
func (db *Database) Assign(a *Atom, level int, reason Reason) {
	a.isTrue = true
	a.dual.isTrue = false
	a.v.assign(level, reason, a.positive)
}

// Unassign clears both atoms of a's variable and the variable's level
// and reason. Called when backtracking past the level a was assigned
// at.
func (db *Database) Unassign(a *Atom) {
	a.isTrue = false
	a.dual.isTrue = false
	a.v.unassign()
}
