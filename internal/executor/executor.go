// Package executor holds the per-executor state of §3/§4.3: the token a
// GraphInstance moves through a Graph. It is grounded on the per-worker
// state struct in the teacher's internal/dag/executor.go (id, current unit
// of work, done/alive flag); the concurrency that struct coordinated across
// goroutines is removed here, per §5's single-threaded cooperative
// scheduler, and replaced by the fork-by-cloning behavior §4.3 mandates.
package executor

import (
	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/graph"
)

// Executor is one token moving through a Graph within a GraphInstance.
type Executor struct {
	ID            int
	Current       *graph.Node
	LastEdgeIndex int
	Accumulator   bigint.Integer
	Waiting       bool
	Dead          bool

	// PendingTarget and PendingEdgeIndex record a fork's assigned child
	// before it has moved there, per §5's "forks appended mid-step are
	// invisible until the next step": a fork is created positioned at its
	// parent (Current is unchanged, nothing has executed yet) and carries
	// where it must Move on its first turn, which is always the step
	// after the one that created it.
	PendingTarget    *graph.Node
	PendingEdgeIndex int
}

// New creates an executor positioned at start with the given accumulator.
// A fork created mid-step (§4.3 step case 4) also uses New, positioned at
// the forking node and carrying its accumulator by value (Integer is a
// value type); the caller sets PendingTarget/PendingEdgeIndex to record
// the child it must move to on its first turn.
func New(id int, start *graph.Node, accumulator bigint.Integer) *Executor {
	return &Executor{ID: id, Current: start, Accumulator: accumulator}
}
