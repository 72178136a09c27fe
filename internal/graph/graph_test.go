package graph

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/nodetype"
)

func TestBuildSimpleChain(t *testing.T) {
	b := NewBuilder("Main")
	in := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	ret := b.AddNode("r", nodetype.NewReturn(), hcl.Range{})
	b.AddEdge(in, ret)

	g, err := b.Build([]*Node{in}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Main", g.Name())
	assert.Equal(t, 0, g.NParams())
	assert.Equal(t, 1, g.NArgs())
	assert.Equal(t, []*Node{in}, g.InputNodes())
	assert.Empty(t, g.ParentlessNodes())
}

func TestParentlessNonInputNodeIsTracked(t *testing.T) {
	b := NewBuilder("Main")
	in := b.AddNode("x", nodetype.NewNop(), hcl.Range{})
	orphan := b.AddNode("five", nodetype.NewLiteral(bigint.FromInt64(5)), hcl.Range{})

	g, err := b.Build([]*Node{in}, 0)
	require.NoError(t, err)
	assert.Equal(t, []*Node{orphan}, g.ParentlessNodes())
}

func TestJunctionArityValidated(t *testing.T) {
	b := NewBuilder("Main")
	only := b.AddNode("a", nodetype.NewLiteral(bigint.FromInt64(1)), hcl.Range{})
	plus := b.AddNode("sum", nodetype.NewOperator(nodetype.OpAdd), hcl.Range{})
	b.AddEdge(only, plus)

	_, err := b.Build(nil, 0)
	require.NoError(t, err, "operator with 1 parent satisfies [1, inf)")

	b2 := NewBuilder("Main")
	use, err := nodetype.Parameterize(nodetype.NewUse(), []bigint.Integer{bigint.FromInt64(2)})
	require.NoError(t, err)
	n := b2.AddNode("sel", use, hcl.Range{})
	a := b2.AddNode("a", nodetype.NewLiteral(bigint.FromInt64(1)), hcl.Range{})
	b2.AddEdge(a, n)

	_, err = b2.Build(nil, 0)
	assert.Error(t, err, "Use(2) requires at least 3 parents")
}

func TestParallelEdgesGetDistinctEdgeIndices(t *testing.T) {
	b := NewBuilder("Main")
	src := b.AddNode("zero", nodetype.NewLiteral(bigint.FromInt64(0)), hcl.Range{})
	sum := b.AddNode("d", nodetype.NewOperator(nodetype.OpAdd), hcl.Range{})
	b.AddEdge(src, sum)
	b.AddEdge(src, sum)

	_, err := b.Build(nil, 0)
	require.NoError(t, err)

	require.Len(t, src.Children, 2)
	require.Len(t, src.ChildEdgeIndex, 2)
	assert.Equal(t, []int{0, 1}, src.ChildEdgeIndex, "two edges to the same target occupy distinct positions in its Parents")
	assert.Equal(t, []*Node{src, src}, sum.Parents)
}

func TestUnparameterizedUseRejected(t *testing.T) {
	b := NewBuilder("Main")
	b.AddNode("sel", nodetype.NewUse(), hcl.Range{})

	_, err := b.Build(nil, 0)
	assert.Error(t, err)
}
