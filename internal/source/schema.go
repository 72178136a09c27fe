// Package source owns the concrete HCL surface syntax for Directed
// programs and translates it into the format-agnostic model
// (Unit/GraphDef/NodeDecl/EdgeDecl/ImportDef/Literal) that
// internal/registry builds graphs from. It is grounded directly in the
// teacher's internal/schema (block-with-labels structs decoded with
// gohcl.DecodeBody) and internal/engine/decoder.go (parse-then-decode
// pairing), generalized from the teacher's grid/runner vocabulary to this
// language's graph/node/edge vocabulary.
package source

import "github.com/hashicorp/hcl/v2"

// unitSchema is the top-level body of one .dgraph file: a sequence of
// import and graph declarations in any order.
type unitSchema struct {
	Imports []*importBlock `hcl:"import,block"`
	Graphs  []*graphBlock  `hcl:"graph,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// importBlock is `import "path" { as = "namespace" }`.
type importBlock struct {
	Path      string   `hcl:"path,label"`
	Namespace string   `hcl:"as"`
	Remain    hcl.Body `hcl:",remain"`
}

// graphBlock is `graph "Name" { param "p" ... }`. Declaration order within
// param and arg is preserved and fixes the input order. Edge order is
// significant too (it sets junction slot positions and fork order): edge
// blocks are linked first, in source order, followed by the entries of the
// edges = ["a -> b", ...] shorthand attribute, in list order.
type graphBlock struct {
	Name          string       `hcl:"name,label"`
	Params        []*varBlock  `hcl:"param,block"`
	Args          []*varBlock  `hcl:"arg,block"`
	Nodes         []*nodeBlock `hcl:"node,block"`
	Edges         []*edgeBlock `hcl:"edge,block"`
	EdgeShorthand []string     `hcl:"edges,optional"`
	Remain        hcl.Body     `hcl:",remain"`
}

// varBlock declares one parameter or argument identifier: `param "n" {}`.
type varBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

// nodeBlock declares one node: `node "plus" { type = "+(3)" }`. Type
// references a built-in, an imported graph, or any graph declared in the
// same unit (including the enclosing graph itself), optionally
// parameterized with the "name(p1, p2, ...)" shorthand, or is itself a
// decimal or single-quoted-char literal.
type nodeBlock struct {
	VarName string   `hcl:"name,label"`
	Type    string   `hcl:"type"`
	Remain  hcl.Body `hcl:",remain"`
}

// edgeBlock is the explicit two-label form: `edge "from" "to" {}`.
type edgeBlock struct {
	From   string   `hcl:"from,label"`
	To     string   `hcl:"to,label"`
	Remain hcl.Body `hcl:",remain"`
}
