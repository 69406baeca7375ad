// Package solverstats holds the counters threaded through a solver's
// lifetime: decisions, conflicts, propagations, restarts, and clause-DB
// reduction passes. It is grounded on the teacher's Tracer-driven
// debugging style (go-sat's Solver.Trace/Tracer fields), generalized
// into an always-on counters object the way hashicorp/nomad threads a
// go-metrics sink next to its loggers rather than gating instrumentation
// behind a debug flag (client/allocrunner/hookstats emits exactly this
// shape of counter through github.com/armon/go-metrics).
package solverstats

import metrics "github.com/armon/go-metrics"

// Stats accumulates solver-wide counters, both as local fields (for
// synchronous reporting via AvgLearnedWidth and direct reads off a
// Solver) and as github.com/armon/go-metrics counters, keyed under the
// "sidekick.solver" prefix the way nomad's hookstats keys its counters
// under "nomad_test.client.<hook>". Stats is not safe for concurrent
// use; a Solver is expected to be driven from a single goroutine, per
// §1.
type Stats struct {
	Decisions    int64
	Conflicts    int64
	Propagations int64
	Restarts     int64
	Reductions   int64
	LearnedSum   int64 // sum of learned clause widths, for average-width reporting

	learned int64 // number of widths added to LearnedSum
}

func (s *Stats) IncrDecisions() {
	s.Decisions++
	metrics.IncrCounter([]string{"sidekick", "solver", "decisions"}, 1)
}

func (s *Stats) IncrConflicts() {
	s.Conflicts++
	metrics.IncrCounter([]string{"sidekick", "solver", "conflicts"}, 1)
}

func (s *Stats) IncrPropagations() {
	s.Propagations++
	metrics.IncrCounter([]string{"sidekick", "solver", "propagations"}, 1)
}

func (s *Stats) IncrRestarts() {
	s.Restarts++
	metrics.IncrCounter([]string{"sidekick", "solver", "restarts"}, 1)
}

func (s *Stats) IncrReductions() {
	s.Reductions++
	metrics.IncrCounter([]string{"sidekick", "solver", "reductions"}, 1)
}

// AddLearnedWidth records a freshly learned clause's width, for both the
// running sum and the go-metrics sample distribution.
func (s *Stats) AddLearnedWidth(width int) {
	s.LearnedSum += int64(width)
	s.learned++
	metrics.AddSample([]string{"sidekick", "solver", "learned_width"}, float32(width))
}

// AvgLearnedWidth returns the mean width of learned clauses, or 0 if
// none have been learned yet.
func (s *Stats) AvgLearnedWidth() float64 {
	if s.learned == 0 {
		return 0
	}
	return float64(s.LearnedSum) / float64(s.learned)
}
