// Package runtime implements the GraphInstance scheduler of §4.5: the
// single-threaded cooperative loop that steps a graph's executors to
// completion. It is grounded on the teacher's internal/dag/executor.go
// Run method, restructured from a worker-pool loop driving goroutines into
// a single-threaded step loop over a plain slice, per §5's explicit
// removal of host-thread parallelism; the debug hook follows §9's Design
// Note of passing an explicit Observer rather than touching global state.
package runtime

import (
	"bufio"
	"context"
	"fmt"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/executor"
	"github.com/directedlang/directed/internal/graph"
	"github.com/directedlang/directed/internal/junction"
	"github.com/directedlang/directed/internal/nodetype"
)

// GraphInstance is one execution of a Graph. It owns every Executor and
// JunctionSlot created during that execution, per §3's ownership note.
type GraphInstance struct {
	g           *graph.Graph
	alive       []*executor.Executor
	pendingAdd  []*executor.Executor
	returnValue *bigint.Integer
	junctions   *junction.Registry
	nextID      int
	obs         Observer
	out         *bufio.Writer
}

// New creates an instance of g. obs may be nil to disable debug tracing;
// out is where Out nodes write their byte stream (buffered and flushed at
// every step boundary, per §4.5's "flush standard output").
func New(g *graph.Graph, obs Observer, out *bufio.Writer) *GraphInstance {
	return &GraphInstance{g: g, junctions: junction.NewRegistry(), obs: obs, out: out}
}

// withOutput wires this instance's buffered writer into ctx, so any Out
// node executed — directly, or nested arbitrarily deep through GraphNode
// invocations, which all share the one bufio.Writer a program's
// SubGraphs are built with — writes to the same stream.
func (gi *GraphInstance) withOutput(ctx context.Context) context.Context {
	if gi.out == nil {
		return ctx
	}
	return nodetype.WithOutput(ctx, gi.out)
}

func (gi *GraphInstance) newID() int {
	id := gi.nextID
	gi.nextID++
	return id
}

func (gi *GraphInstance) notify(ex *executor.Executor) {
	if gi.obs == nil {
		return
	}
	label := ex.Current.Name
	if label == "" {
		label = fmt.Sprintf("#%d", ex.Current.ID)
	}
	gi.obs.ExecutorMoved(gi.g.Name(), ex.ID, label, ex.Accumulator)
}

// Seed creates the initial executor set, per §4.5: one per input node
// (carrying that argument) and one per parentless non-input node (carrying
// zero), each immediately Moved to itself.
func (gi *GraphInstance) Seed(ctx context.Context, inputs []bigint.Integer) error {
	ctx = gi.withOutput(ctx)
	inputNodes := gi.g.InputNodes()
	if len(inputs) != len(inputNodes) {
		return fmt.Errorf("graph %q: expected %d inputs, got %d", gi.g.Name(), len(inputNodes), len(inputs))
	}
	if gi.obs != nil {
		gi.obs.EnterGraph(gi.g.Name())
	}

	for i, n := range inputNodes {
		ex := executor.New(gi.newID(), n, inputs[i])
		gi.alive = append(gi.alive, ex)
		if err := gi.move(ctx, ex, n, 0); err != nil {
			return err
		}
		if gi.returnValue != nil {
			return nil
		}
	}
	for _, n := range gi.g.ParentlessNodes() {
		ex := executor.New(gi.newID(), n, bigint.Zero)
		gi.alive = append(gi.alive, ex)
		if err := gi.move(ctx, ex, n, 0); err != nil {
			return err
		}
		if gi.returnValue != nil {
			return nil
		}
	}
	return nil
}

// Run drives the instance to completion: while alive is non-empty and no
// return value has been produced, perform one step. The outcome is
// VALUE(return_value) if set, else DIE, per §4.5.
func (gi *GraphInstance) Run(ctx context.Context) (nodetype.Outcome, error) {
	ctx = gi.withOutput(ctx)
	for len(gi.alive) > 0 && gi.returnValue == nil {
		if err := gi.Step(ctx); err != nil {
			return nodetype.Outcome{}, err
		}
		if gi.obs != nil {
			gi.obs.StepBoundary(gi.g.Name())
		}
		if gi.out != nil {
			if err := gi.out.Flush(); err != nil {
				return nodetype.Outcome{}, err
			}
		}
	}
	if gi.returnValue != nil {
		return nodetype.ReturnOutcome(*gi.returnValue), nil
	}
	return nodetype.DieOutcome(), nil
}

// Step advances every currently-alive executor by one action, per §4.3's
// per-executor state machine, then compacts alive/pending_add.
func (gi *GraphInstance) Step(ctx context.Context) error {
	n := len(gi.alive)
	for i := 0; i < n; i++ {
		ex := gi.alive[i]
		if ex.Dead || ex.Waiting {
			continue
		}

		// A fork created last step has not moved anywhere yet; this is
		// its first turn, and it moves only to the one child it was
		// assigned, not to every child of its parent.
		if ex.PendingTarget != nil {
			target, edgeIndex := ex.PendingTarget, ex.PendingEdgeIndex
			ex.PendingTarget = nil
			if err := gi.move(ctx, ex, target, edgeIndex); err != nil {
				return err
			}
			if gi.returnValue != nil {
				return nil
			}
			continue
		}

		if len(ex.Current.Children) == 0 {
			ex.Dead = true
			continue
		}

		// §4.3 steps 4/5: children[0] is this executor's own move, taken
		// now; children[1:] are forked off as new executors that move to
		// their assigned child on the *next* step (§5), so they must be
		// snapshotted from the pre-move parent/accumulator before ex
		// itself advances.
		parent := ex.Current
		accumulator := ex.Accumulator
		children := parent.Children
		edgeIndex := parent.ChildEdgeIndex

		if err := gi.move(ctx, ex, children[0], edgeIndex[0]); err != nil {
			return err
		}
		if gi.returnValue != nil {
			return nil
		}

		for j := 1; j < len(children); j++ {
			clone := executor.New(gi.newID(), parent, accumulator)
			clone.PendingTarget = children[j]
			clone.PendingEdgeIndex = edgeIndex[j]
			gi.pendingAdd = append(gi.pendingAdd, clone)
		}
	}

	alive := gi.alive[:0]
	for _, ex := range gi.alive {
		if !ex.Dead {
			alive = append(alive, ex)
		}
	}
	for _, ex := range gi.pendingAdd {
		if !ex.Dead {
			alive = append(alive, ex)
		}
	}
	gi.alive = alive
	gi.pendingAdd = nil
	return nil
}

// move implements §4.3's Move(target): edge-index bookkeeping, junction
// synchronization when target is a multi-input junction, and dispatch of
// the resulting Outcome. edgeIndex is the position this edge occupies in
// target.Parents — the caller's Children/ChildEdgeIndex position for a
// normal traversal, or 0 for the self-visit Seed performs on an executor's
// starting node, where no edge was actually followed.
func (gi *GraphInstance) move(ctx context.Context, ex *executor.Executor, target *graph.Node, edgeIndex int) error {
	ex.LastEdgeIndex = edgeIndex
	ex.Current = target

	arity := len(target.Parents)
	min, _, isJunction := nodetype.JunctionRange(target.Type)
	if isJunction && arity > 1 {
		values, others, full := gi.junctions.Arrive(target.ID, arity, edgeIndex, ex.ID, ex.Accumulator)
		if !full {
			ex.Waiting = true
			return nil
		}
		ex.Waiting = false
		gi.killByID(others)
		return gi.applyOutcome(ctx, ex, target, values)
	}

	// A GraphNode declared with zero arguments (arity 0, still reported as
	// a junction of range [0,0] by JunctionRange) takes no input at all;
	// passing the executor's accumulator here would hand its sub-graph a
	// spurious extra argument. Every other non-junction type always wants
	// exactly one value.
	if isJunction && min == 0 {
		return gi.applyOutcome(ctx, ex, target, nil)
	}

	return gi.applyOutcome(ctx, ex, target, []bigint.Integer{ex.Accumulator})
}

func (gi *GraphInstance) killByID(ids []int) {
	if len(ids) == 0 {
		return
	}
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, ex := range gi.alive {
		if want[ex.ID] {
			ex.Dead = true
		}
	}
	for _, ex := range gi.pendingAdd {
		if want[ex.ID] {
			ex.Dead = true
		}
	}
}

func (gi *GraphInstance) applyOutcome(ctx context.Context, ex *executor.Executor, node *graph.Node, args []bigint.Integer) error {
	outcome, err := nodetype.Execute(ctx, node.Type, args)
	if err != nil {
		return fmt.Errorf("%s: node %q: %w", node.Pos, node.Name, err)
	}
	gi.notify(ex)

	switch outcome.Kind {
	case nodetype.Value:
		ex.Accumulator = outcome.V
	case nodetype.Return:
		v := outcome.V
		gi.returnValue = &v
	case nodetype.Die:
		ex.Dead = true
	case nodetype.DieAll:
		ex.Dead = true
		for _, other := range gi.alive {
			other.Dead = true
		}
		for _, other := range gi.pendingAdd {
			other.Dead = true
		}
	}
	return nil
}
