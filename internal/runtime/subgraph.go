package runtime

import (
	"bufio"
	"context"
	"fmt"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/graph"
	"github.com/directedlang/directed/internal/nodetype"
)

// SubGraph adapts a *graph.Graph into a nodetype.SubGraphRunner by
// instantiating and stepping a nested GraphInstance per invocation. This is
// the seam that keeps internal/nodetype free of any dependency on
// internal/graph or internal/runtime: registry construction wires a
// GraphNode variant to one of these, not to the Graph directly.
//
// Name/NParams/NArgs are captured independently of the built *graph.Graph
// (from the source declaration's param/arg counts) so a SubGraph can be
// registered, and referenced by other node declarations — including its
// own body, for recursive graphs — before its body has finished building;
// internal/registry calls Resolve once construction completes.
type SubGraph struct {
	name    string
	nparams int
	nargs   int
	obs     Observer
	out     *bufio.Writer
	g       *graph.Graph
}

// NewSubGraph declares a sub-graph's shape ahead of building its body.
func NewSubGraph(name string, nparams, nargs int, obs Observer, out *bufio.Writer) *SubGraph {
	return &SubGraph{name: name, nparams: nparams, nargs: nargs, obs: obs, out: out}
}

// Resolve attaches the built graph body. It must be called exactly once,
// after every node in g has been constructed, before Invoke is ever
// called.
func (s *SubGraph) Resolve(g *graph.Graph) {
	s.g = g
}

// Unwrap returns the underlying graph, once resolved. internal/app uses
// this to seed and run the program's entry graph directly, rather than
// through the GraphNode execute path meant for node-to-node calls.
func (s *SubGraph) Unwrap() *graph.Graph { return s.g }

func (s *SubGraph) Name() string { return s.name }
func (s *SubGraph) NParams() int { return s.nparams }
func (s *SubGraph) NArgs() int   { return s.nargs }

// Invoke runs the wrapped graph to completion with inputs and translates
// its outcome per §4.2's GraphNode row: RETURN(v) becomes VALUE(v); DIE
// (no return produced) becomes DIE for the calling executor.
func (s *SubGraph) Invoke(ctx context.Context, inputs []bigint.Integer) (nodetype.Outcome, error) {
	if s.g == nil {
		return nodetype.Outcome{}, fmt.Errorf("graph %q invoked before its definition finished loading", s.name)
	}
	inst := New(s.g, s.obs, s.out)
	if err := inst.Seed(ctx, inputs); err != nil {
		return nodetype.Outcome{}, err
	}
	outcome, err := inst.Run(ctx)
	if err != nil {
		return nodetype.Outcome{}, err
	}
	if outcome.Kind == nodetype.Return {
		return nodetype.ValueOutcome(outcome.V), nil
	}
	return nodetype.DieOutcome(), nil
}

var _ nodetype.SubGraphRunner = (*SubGraph)(nil)
