package theory

import (
	"github.com/hashicorp/go-hclog"

	"github.com/benti/sidekick/literal"
	"github.com/benti/sidekick/preprocess"
	"github.com/benti/sidekick/term"
)

// PartialCheckHook and FinalCheckHook are the two fan-out points
// dispatched by AssertLits.
type PartialCheckHook func(acts Acts)
type FinalCheckHook func(acts Acts)

// Counters are the dispatch-level statistics SolverInternal keeps, per
// §4.5's "counters" without spec'ing their shape.
type Counters struct {
	PartialChecks int64
	FinalChecks   int64
	Pushes        int64
	Pops          int64
}

// SolverInternal is the theory interface (C5). It owns the simplify
// instance, the preprocess cache, the plugin chain, the two check hook
// lists, and dispatch counters.
type SolverInternal struct {
	st   term.State
	simp *preprocess.Simplifier
	pre  *preprocess.Preprocessor

	plugins registry

	onPartialCheck []PartialCheckHook
	onFinalCheck   []FinalCheckHook

	cc        CC
	ccFactory func() CC

	counters Counters
	log      hclog.Logger
}

// New builds a SolverInternal. sink backs the preprocess cache's
// ClauseSink: whatever owns the SAT clause database (the top-level
// solver) must supply mk_lit/add_clause.
func New(st term.State, sink preprocess.ClauseSink, log hclog.Logger) *SolverInternal {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	si := &SolverInternal{
		st:  st,
		log: log.Named("theory"),
	}
	si.simp = preprocess.NewSimplifier(st)
	si.pre = preprocess.NewPreprocessor(st, sink)
	return si
}

// SetCC installs a concrete congruence closure. Must be called before
// the first CC() access if the embedder wants anything other than the
// lazily-constructed NopCC default.
func (si *SolverInternal) SetCC(cc CC) { si.cc = cc }

// SetCCFactory installs a lazy CC constructor, used when the CC needs to
// be built after the SolverInternal itself (the "lazy CC tie-in" in
// §9): the solver struct is constructed first, and the CC is created on
// first use.
func (si *SolverInternal) SetCCFactory(f func() CC) { si.ccFactory = f }

// CC returns the congruence closure, constructing the default NopCC (or
// invoking the registered factory) on first access.
func (si *SolverInternal) CC() CC {
	if si.cc == nil {
		if si.ccFactory != nil {
			si.cc = si.ccFactory()
		} else {
			si.cc = NewNopCC()
		}
	}
	return si.cc
}

func (si *SolverInternal) Simplifier() *preprocess.Simplifier   { return si.simp }
func (si *SolverInternal) Preprocessor() *preprocess.Preprocessor { return si.pre }

// PreprocessLit implements preprocess_lit(lit) (§4.3) via the owned
// simplify/preprocess caches.
func (si *SolverInternal) PreprocessLit(lit literal.Literal) literal.Literal {
	return preprocess.PreprocessLit(si.simp, si.pre, lit)
}

// AddSimplifyHook registers a simplify hook (add_simplifier in §6.1).
func (si *SolverInternal) AddSimplifyHook(h preprocess.SimplifyHook) {
	si.simp.AddHook(h)
}

// AddPreprocessHook registers a preprocess hook (add_preprocess).
func (si *SolverInternal) AddPreprocessHook(h preprocess.PreprocessHook) {
	si.pre.AddHook(h)
}

// OnPartialCheck registers a partial-check hook.
func (si *SolverInternal) OnPartialCheck(h PartialCheckHook) {
	si.onPartialCheck = append(si.onPartialCheck, h)
}

// OnFinalCheck registers a final-check hook.
func (si *SolverInternal) OnFinalCheck(h FinalCheckHook) {
	si.onFinalCheck = append(si.onFinalCheck, h)
}

// OnCCNewTerm, OnCCPreMerge, OnCCPostMerge, OnCCConflict, OnCCPropagate
// forward plugin registrations to the (lazily constructed) CC's own
// event registration, per §6.1.
func (si *SolverInternal) OnCCNewTerm(f func(Node, term.Term))                    { si.CC().OnNewTerm(f) }
func (si *SolverInternal) OnCCPreMerge(f func(n1, n2 Node))                       { si.CC().OnPreMerge(f) }
func (si *SolverInternal) OnCCPostMerge(f func(n1, n2 Node))                      { si.CC().OnPostMerge(f) }
func (si *SolverInternal) OnCCConflict(f func(Explanation))                      { si.CC().OnConflict(f) }
func (si *SolverInternal) OnCCPropagate(f func(lit literal.Literal, e Explanation)) { si.CC().OnPropagate(f) }

// RegisterPlugin calls p.CreateAndSetup(si) and appends the resulting
// state to the plugin chain, in registration order.
func (si *SolverInternal) RegisterPlugin(p Plugin) {
	state := p.CreateAndSetup(si)
	si.plugins.append(p.Name(), state)
	si.log.Debug("registered theory plugin", "name", p.Name())
}

// AssertLits implements §4.5's three-step dispatch: forward to the CC
// (unless final), run the CC's check, then fan out to the matching hook
// list. A plugin or the CC calling acts.RaiseConflict unwinds the Go
// call stack straight out of this function (and whatever called it); the
// CDCL engine is expected to recover at its call site.
func (si *SolverInternal) AssertLits(final bool, lits []literal.Literal, acts Acts) {
	if !final {
		si.CC().AssertLits(lits)
	}
	si.CC().Check(acts)

	if final {
		si.counters.FinalChecks++
		for _, h := range si.onFinalCheck {
			h(acts)
		}
	} else {
		si.counters.PartialChecks++
		for _, h := range si.onPartialCheck {
			h(acts)
		}
	}
}

// PushLevel fans out to every registered plugin, in registration order,
// then to the CC.
func (si *SolverInternal) PushLevel() {
	si.counters.Pushes++
	si.plugins.each(func(_ string, s PluginState) { s.PushLevel() })
	si.CC().PushLevel()
}

// PopLevels fans out to every registered plugin, in registration order,
// then to the CC. Preprocess and simplify caches are never popped: their
// correctness relies on hook purity (§5, §9 Open Questions).
func (si *SolverInternal) PopLevels(n int) {
	si.counters.Pops++
	si.plugins.each(func(_ string, s PluginState) { s.PopLevels(n) })
	si.CC().PopLevels(n)
}

func (si *SolverInternal) Counters() Counters { return si.counters }

func (si *SolverInternal) Logger() hclog.Logger { return si.log }
