// Package registry implements the NodeType registry of §4.6: a name ->
// NodeType map pre-populated with the built-ins, extended with the
// GraphNode types declared by a loaded Unit, with import namespacing and
// cyclic-import detection.
//
// Grounded on the teacher's internal/registry/registry.go (Registry
// wrapping maps, New() populating them) and internal/registry/handlers.go
// (panic-on-duplicate registration for compiled-in names vs. an error
// return for names that come from user source), generalized from
// "register a Go handler function" to "register a NodeType value".
package registry

import (
	"bufio"
	"context"
	"fmt"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/ctxlog"
	"github.com/directedlang/directed/internal/graph"
	"github.com/directedlang/directed/internal/nodetype"
	"github.com/directedlang/directed/internal/runtime"
	"github.com/directedlang/directed/internal/source"
)

// Registry resolves a graph's node-type references to NodeType values and,
// given a Unit, builds every graph it declares.
type Registry struct {
	types      map[string]nodetype.NodeType
	shells     map[string]*runtime.SubGraph
	userGraphs []string // names this Registry itself declared, for import splicing

	obs runtime.Observer
	out *bufio.Writer
}

// New creates a Registry pre-populated with the built-in types of §4.1/§4.2.
func New(obs runtime.Observer, out *bufio.Writer) *Registry {
	r := &Registry{
		types:  make(map[string]nodetype.NodeType),
		shells: make(map[string]*runtime.SubGraph),
		obs:    obs,
		out:    out,
	}
	r.registerBuiltins()
	return r
}

// registerBuiltin panics on a name collision: the built-in set is fixed by
// this package, so a collision here is a programming error, never user
// input, matching the teacher's RegisterRunner/RegisterAssetHandler.
func (r *Registry) registerBuiltin(name string, nt nodetype.NodeType) {
	if _, exists := r.types[name]; exists {
		panic(fmt.Sprintf("directed: built-in node type %q registered twice", name))
	}
	r.types[name] = nt
}

func (r *Registry) registerBuiltins() {
	r.registerBuiltin("Nop", nodetype.NewNop())
	r.registerBuiltin("Die", nodetype.NewDie())
	r.registerBuiltin("Return", nodetype.NewReturn())
	r.registerBuiltin("Out", nodetype.NewOut())
	r.registerBuiltin("Use", nodetype.NewUse())
	for _, sym := range nodetype.Symbols() {
		nt, ok := nodetype.NewFromSymbol(sym)
		if !ok {
			panic(fmt.Sprintf("directed: symbol %q reported by Symbols has no NewFromSymbol", sym))
		}
		r.registerBuiltin(sym, nt)
	}
}

// register adds a user-declared name. Unlike registerBuiltin this returns
// an error on collision, since the offending name came from source text a
// caller may want to report with position information.
func (r *Registry) register(name string, nt nodetype.NodeType) error {
	if _, exists := r.types[name]; exists {
		return fmt.Errorf("node type %q is already defined", name)
	}
	r.types[name] = nt
	return nil
}

// Lookup resolves a registered name.
func (r *Registry) Lookup(name string) (nodetype.NodeType, bool) {
	nt, ok := r.types[name]
	return nt, ok
}

// Shell returns the SubGraph backing a registered graph name, for
// internal/app to seed and run the program's entry graph directly.
func (r *Registry) Shell(name string) (*runtime.SubGraph, bool) {
	s, ok := r.shells[name]
	return s, ok
}

// ImportLoader resolves an import path to the Unit it names. internal/app
// supplies one backed by source.Load and a filesystem base directory;
// tests supply an in-memory one.
type ImportLoader func(ctx context.Context, path string) (*source.Unit, error)

// LoadUnit registers every graph unit declares, after recursively loading
// and splicing its imports under their declared namespace, per §4.6.
func (r *Registry) LoadUnit(ctx context.Context, unit *source.Unit, loadImport ImportLoader) error {
	return r.loadUnit(ctx, unit, loadImport, map[string]bool{})
}

func (r *Registry) loadUnit(ctx context.Context, unit *source.Unit, loadImport ImportLoader, visiting map[string]bool) error {
	logger := ctxlog.FromContext(ctx)

	if visiting[unit.Path] {
		return fmt.Errorf("cyclic import detected at %q", unit.Path)
	}
	visiting[unit.Path] = true
	defer delete(visiting, unit.Path)

	for _, imp := range unit.Imports {
		logger.Debug("resolving import", "path", imp.Path, "as", imp.Namespace)
		impUnit, err := loadImport(ctx, imp.Path)
		if err != nil {
			return fmt.Errorf("import %q at %s: %w", imp.Path, imp.Pos, err)
		}

		sub := New(r.obs, r.out)
		if err := sub.loadUnit(ctx, impUnit, loadImport, visiting); err != nil {
			return err
		}
		if err := r.spliceNamespace(imp.Namespace, sub); err != nil {
			return fmt.Errorf("import %q at %s: %w", imp.Path, imp.Pos, err)
		}
	}

	return r.buildGraphs(unit.Graphs)
}

// spliceNamespace exposes every graph sub declared, under
// "<namespace>.<name>", per §4.6 — except a graph literally named "Main",
// which is exposed as the bare namespace itself, so `import "lib" { as =
// "lib" }` followed by a reference to plain `lib` reaches lib's entry
// graph.
func (r *Registry) spliceNamespace(namespace string, sub *Registry) error {
	for _, name := range sub.userGraphs {
		visible := namespace + "." + name
		if name == "Main" {
			visible = namespace
		}
		if err := r.register(visible, sub.types[name]); err != nil {
			return err
		}
		if shell, ok := sub.shells[name]; ok {
			r.shells[visible] = shell
		}
	}
	return nil
}

// buildGraphs declares every graph's shape first (so bodies may reference
// any graph in the unit, including themselves, before those bodies
// finish building), then builds each body in a second pass and resolves
// its shell.
func (r *Registry) buildGraphs(defs []source.GraphDef) error {
	shells := make(map[string]*runtime.SubGraph, len(defs))
	for _, gd := range defs {
		shell := runtime.NewSubGraph(gd.Name, len(gd.Params), len(gd.Args), r.obs, r.out)
		if err := r.register(gd.Name, nodetype.NewGraphNode(shell)); err != nil {
			return fmt.Errorf("graph %q at %s: %w", gd.Name, gd.Pos, err)
		}
		shells[gd.Name] = shell
		r.shells[gd.Name] = shell
		r.userGraphs = append(r.userGraphs, gd.Name)
	}

	for _, gd := range defs {
		g, err := r.buildGraph(gd)
		if err != nil {
			return err
		}
		shells[gd.Name].Resolve(g)
	}
	return nil
}

// buildGraph compiles one GraphDef into a *graph.Graph. A parameter or
// argument identifier with no explicit node declaration of the same name
// is given an implicit Nop node, matching the shorthand the examples in
// §4.7 use (`arg "in" {}` used directly as an edge endpoint, with no
// `node "in"` block). Two node declarations with the same name in one
// graph are a load error.
func (r *Registry) buildGraph(gd source.GraphDef) (*graph.Graph, error) {
	b := graph.NewBuilder(gd.Name)
	nodes := make(map[string]*graph.Node, len(gd.NodeDecls))

	for _, nd := range gd.NodeDecls {
		if _, dup := nodes[nd.VarName]; dup {
			return nil, fmt.Errorf("graph %q, node %q at %s: name is already declared in this graph", gd.Name, nd.VarName, nd.Pos)
		}
		nt, err := r.resolveNodeType(nd)
		if err != nil {
			return nil, fmt.Errorf("graph %q, node %q at %s: %w", gd.Name, nd.VarName, nd.Pos, err)
		}
		nodes[nd.VarName] = b.AddNode(nd.VarName, nt, nd.Pos)
	}

	ensureNode := func(name string) *graph.Node {
		if n, ok := nodes[name]; ok {
			return n
		}
		n := b.AddNode(name, nodetype.NewNop(), gd.Pos)
		nodes[name] = n
		return n
	}

	inputNodes := make([]*graph.Node, 0, len(gd.Params)+len(gd.Args))
	for _, name := range gd.Params {
		inputNodes = append(inputNodes, ensureNode(name))
	}
	for _, name := range gd.Args {
		inputNodes = append(inputNodes, ensureNode(name))
	}

	for _, ed := range gd.Edges {
		from, ok := nodes[ed.From]
		if !ok {
			return nil, fmt.Errorf("graph %q: edge at %s references undefined node %q", gd.Name, ed.Pos, ed.From)
		}
		to, ok := nodes[ed.To]
		if !ok {
			return nil, fmt.Errorf("graph %q: edge at %s references undefined node %q", gd.Name, ed.Pos, ed.To)
		}
		b.AddEdge(from, to)
	}

	g, err := b.Build(inputNodes, len(gd.Params))
	if err != nil {
		return nil, err
	}
	return g, nil
}

// resolveNodeType maps one NodeDecl to a NodeType: a literal reference
// (e.g. "42" or "'A'") becomes a Literal node directly; anything else is
// looked up by name and, if the declaration bound parameters, run through
// nodetype.Parameterize.
func (r *Registry) resolveNodeType(nd source.NodeDecl) (nodetype.NodeType, error) {
	if lit, err := source.ParseLiteralText(nd.TypeName); err == nil {
		if len(nd.Params) > 0 {
			return nodetype.NodeType{}, fmt.Errorf("literal node %q cannot take parameters", nd.VarName)
		}
		v, err := lit.Integer()
		if err != nil {
			return nodetype.NodeType{}, err
		}
		return nodetype.NewLiteral(v), nil
	}

	base, ok := r.Lookup(nd.TypeName)
	if !ok {
		return nodetype.NodeType{}, fmt.Errorf("undefined node type %q", nd.TypeName)
	}

	if len(nd.Params) == 0 {
		if min, _, pok := nodetype.ParameterRange(base); pok && min > 0 {
			return nodetype.NodeType{}, fmt.Errorf("type %q requires parameterization", nd.TypeName)
		}
		return base, nil
	}

	values := make([]bigint.Integer, len(nd.Params))
	for i, p := range nd.Params {
		v, err := p.Integer()
		if err != nil {
			return nodetype.NodeType{}, err
		}
		values[i] = v
	}
	return nodetype.Parameterize(base, values)
}
