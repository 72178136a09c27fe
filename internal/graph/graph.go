// Package graph implements the static Node/Graph data model of §3: each
// Graph keeps its Nodes in an arena slice, and a Node's ID is its index in
// that slice; the Parents and Children adjacency lists hold *Node pointers
// rather than indices, and cycles among them are left to Go's garbage
// collector. Graphs are built in the same
// create-then-link-then-validate passes the teacher uses in
// internal/dag/build.go, generalized away from that package's cycle
// detection (Directed graphs are allowed, even expected, to cycle) toward
// the junction-arity and parameterization checks §4.6 requires instead.
package graph

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/directedlang/directed/internal/nodetype"
)

// Node is one vertex of a Graph. Parents and Children are ordered;
// junction synchronization depends on parent order, and fork order (§4.3)
// depends on child order.
type Node struct {
	ID       int
	Type     nodetype.NodeType
	Name     string
	Pos      hcl.Range
	Parents  []*Node
	Children []*Node

	// ChildEdgeIndex[i] is the position Children[i] occupies within that
	// child's own Parents slice. Two edges from the same node to the same
	// target are otherwise indistinguishable (Children[i] and Children[j]
	// would be equal pointers), so junction-slot bookkeeping — which is
	// keyed on position in the target's Parents, per §4.4 — must use this
	// rather than searching Parents for a matching node identity.
	ChildEdgeIndex []int
}

// Graph is an immutable, validated graph of Nodes. It satisfies the
// Name/NParams/NArgs portion of nodetype.SubGraphRunner directly;
// internal/runtime supplies Invoke by wrapping a Graph with the ability to
// instantiate and step a GraphInstance.
type Graph struct {
	name            string
	nodes           []*Node
	nparameters     int
	inputNodes      []*Node
	parentlessNodes []*Node
}

func (g *Graph) Name() string              { return g.name }
func (g *Graph) NParams() int              { return g.nparameters }
func (g *Graph) NArgs() int                { return len(g.inputNodes) - g.nparameters }
func (g *Graph) Nodes() []*Node            { return g.nodes }
func (g *Graph) InputNodes() []*Node       { return g.inputNodes }
func (g *Graph) ParentlessNodes() []*Node  { return g.parentlessNodes }
func (g *Graph) Node(id int) *Node         { return g.nodes[id] }

// Builder assembles a Graph across the create/link/validate passes
// mirroring the teacher's internal/dag/build.go: AddNode corresponds to
// createNodes, AddEdge to linkNodes, and Build to the counters-then-
// validate tail of that function.
type Builder struct {
	name  string
	nodes []*Node
}

// NewBuilder starts building a graph with the given declared name (the
// type identifier it will be registered under).
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddNode allocates a new Node in the arena and returns it. varName is the
// source-level variable identifier used for diagnostics and for edge
// linking during translation; it need not be unique across calls, though
// source declarations always give it one.
func (b *Builder) AddNode(varName string, nt nodetype.NodeType, pos hcl.Range) *Node {
	n := &Node{ID: len(b.nodes), Type: nt, Name: varName, Pos: pos}
	b.nodes = append(b.nodes, n)
	return n
}

// AddEdge links from -> to, appending to both ends' ordered adjacency
// lists. Edge order is significant: it determines junction slot position
// and fork order.
func (b *Builder) AddEdge(from, to *Node) {
	edgeIndex := len(to.Parents)
	from.Children = append(from.Children, to)
	from.ChildEdgeIndex = append(from.ChildEdgeIndex, edgeIndex)
	to.Parents = append(to.Parents, from)
}

// Build finalizes the graph. inputNodes must be ordered parameters-first-
// then-arguments, per §3; nparameters is the length of the parameter
// prefix. Build validates every node's junction arity and parameterization
// requirement per §4.6 before returning.
func (b *Builder) Build(inputNodes []*Node, nparameters int) (*Graph, error) {
	if nparameters > len(inputNodes) {
		return nil, fmt.Errorf("graph %q: nparameters %d exceeds %d input nodes", b.name, nparameters, len(inputNodes))
	}

	isInput := make(map[*Node]bool, len(inputNodes))
	for _, n := range inputNodes {
		isInput[n] = true
	}

	var parentless []*Node
	for _, n := range b.nodes {
		if err := validateNode(n); err != nil {
			return nil, fmt.Errorf("graph %q: %w", b.name, err)
		}
		if len(n.Parents) == 0 && !isInput[n] {
			parentless = append(parentless, n)
		}
	}

	return &Graph{
		name:            b.name,
		nodes:           b.nodes,
		nparameters:     nparameters,
		inputNodes:      inputNodes,
		parentlessNodes: parentless,
	}, nil
}

func validateNode(n *Node) error {
	if min, _, ok := nodetype.ParameterRange(n.Type); ok && min > 0 {
		return fmt.Errorf("node %q (%s): must be parameterized before use", n.Name, n.Type.Kind())
	}
	if min, max, ok := nodetype.JunctionRange(n.Type); ok {
		np := len(n.Parents)
		if np < min || (max >= 0 && np > max) {
			return fmt.Errorf("node %q (%s): has %d incoming edge(s), requires %s", n.Name, n.Type.Kind(), np, rangeDesc(min, max))
		}
	}
	return nil
}

func rangeDesc(min, max int) string {
	if max < 0 {
		return fmt.Sprintf("at least %d", min)
	}
	if min == max {
		return fmt.Sprintf("exactly %d", min)
	}
	return fmt.Sprintf("between %d and %d", min, max)
}
