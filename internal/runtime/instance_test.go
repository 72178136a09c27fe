package runtime

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/graph"
	"github.com/directedlang/directed/internal/nodetype"
)

// buildIncrementAndReturn builds: x -> (+1) -> Return, one input node x.
func buildIncrementAndReturn(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	plusOne, err := nodetype.Parameterize(nodetype.NewOperator(nodetype.OpAdd), []bigint.Integer{bigint.FromInt64(1)})
	require.NoError(t, err)
	inc := b.AddNode("inc", plusOne, hcl.Range{})
	ret := b.AddNode("r", nodetype.NewReturn(), hcl.Range{})
	b.AddEdge(x, inc)
	b.AddEdge(inc, ret)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)
	return g
}

func TestRunReturnsIncrementedValue(t *testing.T) {
	g := buildIncrementAndReturn(t)
	inst := New(g, nil, nil)
	require.NoError(t, inst.Seed(context.Background(), []bigint.Integer{bigint.FromInt64(41)}))

	outcome, err := inst.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nodetype.Return, outcome.Kind)
	assert.Equal(t, bigint.FromInt64(42), outcome.V)
}

// buildForkAndJoin builds: x -> a, x -> b (fork), a and b both feed a
// 2-ary junction (+), whose result feeds Return.
func buildForkAndJoin(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	a := b.AddNode("a", nodetype.NewNop(), hcl.Range{})
	bNode := b.AddNode("b", nodetype.NewNop(), hcl.Range{})
	sum := b.AddNode("sum", nodetype.NewOperator(nodetype.OpAdd), hcl.Range{})
	ret := b.AddNode("r", nodetype.NewReturn(), hcl.Range{})

	b.AddEdge(x, a)
	b.AddEdge(x, bNode)
	b.AddEdge(a, sum)
	b.AddEdge(bNode, sum)
	b.AddEdge(sum, ret)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)
	return g
}

func TestForkAndJunctionJoin(t *testing.T) {
	g := buildForkAndJoin(t)
	inst := New(g, nil, nil)
	require.NoError(t, inst.Seed(context.Background(), []bigint.Integer{bigint.FromInt64(10)}))

	outcome, err := inst.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nodetype.Return, outcome.Kind)
	assert.Equal(t, bigint.FromInt64(20), outcome.V, "both forked tokens carry 10 into the join")
}

func TestDivisionByZeroAbortsRun(t *testing.T) {
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	div := b.AddNode("d", nodetype.NewOperator(nodetype.OpDiv), hcl.Range{})
	zero := b.AddNode("zero", nodetype.NewLiteral(bigint.Zero), hcl.Range{})
	ret := b.AddNode("r", nodetype.NewReturn(), hcl.Range{})
	b.AddEdge(x, div)
	b.AddEdge(zero, div)
	b.AddEdge(div, ret)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)

	inst := New(g, nil, nil)
	require.NoError(t, inst.Seed(context.Background(), []bigint.Integer{bigint.FromInt64(5)}))
	_, err = inst.Run(context.Background())
	assert.ErrorIs(t, err, bigint.ErrDivByZero)
}

func TestDieWithNoReturnYieldsDieOutcome(t *testing.T) {
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	die := b.AddNode("d", nodetype.NewDie(), hcl.Range{})
	b.AddEdge(x, die)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)

	inst := New(g, nil, nil)
	require.NoError(t, inst.Seed(context.Background(), []bigint.Integer{bigint.FromInt64(1)}))
	outcome, err := inst.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nodetype.Die, outcome.Kind)
}

// TestForkDoesNotAdvanceUntilNextStep pins down §5's "forks appended
// mid-step are invisible until the next step": x forks to o1 then o2,
// both terminal Out nodes. o1 is children[0] and fires in the same step
// as the fork; o2 is the forked-off clone and must not fire until the
// step after.
func TestForkDoesNotAdvanceUntilNextStep(t *testing.T) {
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	o1 := b.AddNode("o1", nodetype.NewOut(), hcl.Range{})
	o2 := b.AddNode("o2", nodetype.NewOut(), hcl.Range{})
	b.AddEdge(x, o1)
	b.AddEdge(x, o2)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	ctx := nodetype.WithOutput(context.Background(), w)

	inst := New(g, nil, w)
	require.NoError(t, inst.Seed(ctx, []bigint.Integer{bigint.FromInt64('a')}))

	require.NoError(t, inst.Step(ctx))
	require.NoError(t, w.Flush())
	assert.Equal(t, "a", buf.String(), "children[0] fires in the forking step, the forked-off clone does not")

	require.NoError(t, inst.Step(ctx))
	require.NoError(t, w.Flush())
	assert.Equal(t, "aa", buf.String(), "the forked clone takes its first turn one step later")
}

func TestOutWritesBufferedStdoutFlushedEachStep(t *testing.T) {
	b := graph.NewBuilder("Main")
	x := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	out := b.AddNode("o", nodetype.NewOut(), hcl.Range{})
	die := b.AddNode("d", nodetype.NewDie(), hcl.Range{})
	b.AddEdge(x, out)
	b.AddEdge(out, die)

	g, err := b.Build([]*graph.Node{x}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	ctx := nodetype.WithOutput(context.Background(), w)

	inst := New(g, nil, w)
	require.NoError(t, inst.Seed(ctx, []bigint.Integer{bigint.FromInt64('A')}))
	_, err = inst.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", buf.String())
}
