package source

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/directedlang/directed/internal/bigint"
)

// Unit is one parsed compilation unit, per §3.1.
type Unit struct {
	Path    string
	Imports []ImportDef
	Graphs  []GraphDef
}

// ImportDef splices another unit's graphs under Namespace, per §4.6.
type ImportDef struct {
	Namespace string
	Path      string
	Pos       hcl.Range
}

// GraphDef is one `graph` declaration: a type identifier, its declared
// parameters and arguments (in declaration order), and its body.
type GraphDef struct {
	Name      string
	Params    []string
	Args      []string
	NodeDecls []NodeDecl
	Edges     []EdgeDecl
	Pos       hcl.Range
}

// NodeDecl declares one node: the variable name it is referred to by
// within the graph, the type it instantiates, and any bound parameters.
type NodeDecl struct {
	VarName  string
	TypeName string
	Params   []Literal
	Pos      hcl.Range
}

// EdgeDecl links two node variable names.
type EdgeDecl struct {
	From, To string
	Pos      hcl.Range
}

// Literal is a decimal or single-byte-char constant, carried as a
// cty.Value of cty.Number until internal/registry converts it to a
// bigint.Integer at graph-build time, mirroring the teacher's own pattern
// of carrying cty.Value through translation and converting only at the
// point of use.
type Literal struct {
	Value cty.Value
}

// Integer converts a Literal to its bigint.Integer value.
func (l Literal) Integer() (bigint.Integer, error) {
	if !l.Value.Type().Equals(cty.Number) {
		return bigint.Integer{}, fmt.Errorf("literal is not numeric")
	}
	f := l.Value.AsBigFloat()
	i, acc := f.Int(nil)
	if acc != big.Exact {
		return bigint.Integer{}, fmt.Errorf("literal %s is not an integer", f.Text('f', -1))
	}
	return bigint.FromString(i.String())
}
