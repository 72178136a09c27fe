// Package nodetype implements the NodeType algebra of §4.2: the fixed set
// of built-in node behaviors plus the GraphNode variant wrapping a
// user-defined sub-graph, and the execute/parameterize operations defined
// over them. It is grounded on the teacher's node_runner.go dispatch-by-type
// switch, generalized from a two-way runner choice to an N-way closed sum.
package nodetype

import (
	"context"
	"fmt"

	"github.com/directedlang/directed/internal/bigint"
)

// Kind tags which built-in behavior a NodeType carries.
type Kind int

const (
	KindNop Kind = iota
	KindDie
	KindReturn
	KindOut
	KindLiteral
	KindOperator
	KindRelation
	KindUse
	KindGraphNode
)

func (k Kind) String() string {
	switch k {
	case KindNop:
		return "Nop"
	case KindDie:
		return "Die"
	case KindReturn:
		return "Return"
	case KindOut:
		return "Out"
	case KindLiteral:
		return "Literal"
	case KindOperator:
		return "Operator"
	case KindRelation:
		return "Relation"
	case KindUse:
		return "Use"
	case KindGraphNode:
		return "GraphNode"
	default:
		return "Unknown"
	}
}

// Op identifies which arithmetic or relational symbol an Operator or
// Relation NodeType carries.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

var opSymbols = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod,
	"&": OpAnd, "|": OpOr, "^": OpXor,
	"=": OpEq, "!=": OpNeq, "<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
}

// ParseOp resolves a source-level operator or relation symbol.
func ParseOp(symbol string) (Op, bool) {
	op, ok := opSymbols[symbol]
	return op, ok
}

// Symbols lists every built-in operator and relation symbol, in the order
// given by the §4.1 grammar. internal/registry uses this to pre-populate
// the registry without duplicating opSymbols.
func Symbols() []string {
	return []string{"+", "-", "*", "/", "%", "&", "|", "^", "=", "!=", "<", "<=", ">", ">="}
}

// NewFromSymbol builds the unparameterized Operator or Relation NodeType
// for a built-in symbol.
func NewFromSymbol(symbol string) (NodeType, bool) {
	op, ok := opSymbols[symbol]
	if !ok {
		return NodeType{}, false
	}
	if op.isRelation() {
		return NewRelation(op), true
	}
	return NewOperator(op), true
}

func (o Op) isRelation() bool { return o >= OpEq }

// SubGraphRunner is the capability a GraphNode variant needs from a
// user-defined graph. internal/graph supplies the static shape (NParams,
// NArgs); internal/runtime supplies Invoke, which instantiates and steps a
// nested GraphInstance. Keeping this as an interface here, rather than
// importing internal/graph or internal/runtime directly, avoids a dependency
// cycle: graph.Node embeds a NodeType, and runtime depends on graph.
type SubGraphRunner interface {
	Name() string
	NParams() int
	NArgs() int
	Invoke(ctx context.Context, inputs []bigint.Integer) (Outcome, error)
}

// NodeType is an immutable value describing one node's execution behavior.
// It is a closed tagged union over Kind; which fields are meaningful
// depends on Kind, mirroring the teacher's use of a single dispatch struct
// per runner rather than a Go interface per variant, since every NodeType
// must be storable uniformly in a graph.Node and compared for registry
// lookups.
type NodeType struct {
	kind Kind

	op     Op
	params []bigint.Integer // bound parameters, immutable once set

	literal bigint.Integer

	useIndex int // meaningful once KindUse is parameterized (see boundUse)
	boundUse bool

	sub SubGraphRunner
}

// Built-in constructors. Each produces the type in its unparameterized
// form; ones with a non-trivial ParameterRange must go through Parameterize
// before being placed in a graph.

func NewNop() NodeType    { return NodeType{kind: KindNop} }
func NewDie() NodeType    { return NodeType{kind: KindDie} }
func NewReturn() NodeType { return NodeType{kind: KindReturn} }
func NewOut() NodeType    { return NodeType{kind: KindOut} }

// NewLiteral builds a constant-value node. Literal is not parameterizable;
// the value is fixed at construction from the source-level literal.
func NewLiteral(v bigint.Integer) NodeType { return NodeType{kind: KindLiteral, literal: v} }

func NewOperator(op Op) NodeType { return NodeType{kind: KindOperator, op: op} }
func NewRelation(op Op) NodeType { return NodeType{kind: KindRelation, op: op} }

// NewUse builds the unparameterized Use type. It is illegal to place in a
// graph without first calling Parameterize with exactly one parameter.
func NewUse() NodeType { return NodeType{kind: KindUse} }

// NewGraphNode wraps a user-defined sub-graph. If sub.NParams() is 0 it is
// immediately usable; otherwise it must be parameterized first.
func NewGraphNode(sub SubGraphRunner) NodeType { return NodeType{kind: KindGraphNode, sub: sub} }

// Kind reports the variant this NodeType carries.
func (nt NodeType) Kind() Kind { return nt.kind }

// Op reports the operator/relation symbol. Valid only for KindOperator and
// KindRelation.
func (nt NodeType) Op() Op { return nt.op }

// Literal reports the constant value. Valid only for KindLiteral.
func (nt NodeType) Literal() bigint.Integer { return nt.literal }

// SubGraph reports the wrapped sub-graph. Valid only for KindGraphNode.
func (nt NodeType) SubGraph() SubGraphRunner { return nt.sub }

// unboundedMax marks a Parameterizable or Junction range with no upper
// bound.
const unboundedMax = -1

// JunctionRange reports the [min, max] number of incoming edges (parents)
// a NodeType requires in order to be a junction, per §4.2 and §4.4. ok is
// false for types that are never junctions (Nop, Die, Return, Out, Literal,
// and an unparameterized Use, which has no defined junction behavior until
// parameterized).
func JunctionRange(nt NodeType) (min, max int, ok bool) {
	switch nt.kind {
	case KindOperator, KindRelation:
		return 1, unboundedMax, true
	case KindUse:
		if !nt.boundUse {
			return 0, 0, false
		}
		return nt.useIndex + 1, unboundedMax, true
	case KindGraphNode:
		n := nt.sub.NArgs()
		return n, n, true
	default:
		return 0, 0, false
	}
}

// ParameterRange reports the [min, max] number of parameters a NodeType
// accepts via Parameterize, per §4.2. ok is false for types that never
// accept parameters (Nop, Die, Return, Out, Literal).
func ParameterRange(nt NodeType) (min, max int, ok bool) {
	switch nt.kind {
	case KindOperator, KindRelation:
		// Already-bound operators still report a trivially-satisfiable
		// range; re-parameterization is not part of the source grammar.
		return 0, unboundedMax, true
	case KindUse:
		if nt.boundUse {
			return 0, 0, true
		}
		return 1, 1, true
	case KindGraphNode:
		n := nt.sub.NParams()
		if len(nt.params) == n {
			return 0, 0, true
		}
		return n, n, true
	default:
		return 0, 0, false
	}
}

// Parameterize produces a new NodeType with params bound in, per §4.2's
// Parameterizable capability. It is purely functional: nt is left
// unmodified.
func Parameterize(nt NodeType, params []bigint.Integer) (NodeType, error) {
	min, max, ok := ParameterRange(nt)
	if !ok {
		return NodeType{}, fmt.Errorf("%s is not parameterizable", nt.kind)
	}
	if len(params) < min || (max != unboundedMax && len(params) > max) {
		return NodeType{}, fmt.Errorf("%s takes %s parameters, got %d", nt.kind, rangeStr(min, max), len(params))
	}

	switch nt.kind {
	case KindOperator, KindRelation:
		out := nt
		out.params = append(append([]bigint.Integer(nil), nt.params...), params...)
		return out, nil
	case KindUse:
		idx, ok := params[0].Int64()
		if !ok || idx < 0 {
			return NodeType{}, fmt.Errorf("Use parameter must be a non-negative index")
		}
		return NodeType{kind: KindUse, boundUse: true, useIndex: int(idx)}, nil
	case KindGraphNode:
		out := nt
		out.params = append(append([]bigint.Integer(nil), nt.params...), params...)
		return out, nil
	default:
		return NodeType{}, fmt.Errorf("%s is not parameterizable", nt.kind)
	}
}

func rangeStr(min, max int) string {
	if max == unboundedMax {
		return fmt.Sprintf("at least %d", min)
	}
	if min == max {
		return fmt.Sprintf("exactly %d", min)
	}
	return fmt.Sprintf("between %d and %d", min, max)
}

// Execute runs nt against the accumulators gathered from its parents (or,
// for non-junction types, against whatever single upstream value reached
// it), per the behavior table in §4.2. A non-nil error is a fatal runtime
// error (integer division by zero, a failed Out write, a Use node that is
// unbound or short of arguments, or an error from a sub-graph) that must
// abort the whole GraphInstance, per §7, rather than a normal Outcome.
func Execute(ctx context.Context, nt NodeType, args []bigint.Integer) (Outcome, error) {
	switch nt.kind {
	case KindNop:
		return ValueOutcome(single(args)), nil

	case KindDie:
		return DieAllOutcome(), nil

	case KindReturn:
		return ReturnOutcome(single(args)), nil

	case KindOut:
		v := single(args)
		if _, err := outputFromContext(ctx).Write([]byte{v.Byte()}); err != nil {
			return Outcome{}, fmt.Errorf("Out: %w", err)
		}
		return ValueOutcome(v), nil

	case KindLiteral:
		return ValueOutcome(nt.literal), nil

	case KindOperator:
		seq := append(append([]bigint.Integer(nil), args...), nt.params...)
		return foldOperator(nt.op, seq)

	case KindRelation:
		seq := append(append([]bigint.Integer(nil), args...), nt.params...)
		return relate(nt.op, seq, args[0])

	case KindUse:
		if !nt.boundUse {
			return Outcome{}, fmt.Errorf("Use node executed without being parameterized")
		}
		if nt.useIndex >= len(args) {
			return Outcome{}, fmt.Errorf("Use(%d) has no matching input among %d arguments", nt.useIndex, len(args))
		}
		return ValueOutcome(args[nt.useIndex]), nil

	case KindGraphNode:
		inputs := append(append([]bigint.Integer(nil), nt.params...), args...)
		return nt.sub.Invoke(ctx, inputs)

	default:
		return Outcome{}, fmt.Errorf("unknown node kind %s", nt.kind)
	}
}

// single returns the sole element of a single-parent argument list. Nop,
// Return, and Out are never junctions (JunctionRange reports not-ok for
// them), so the runtime always calls them with exactly one argument.
func single(args []bigint.Integer) bigint.Integer {
	if len(args) == 0 {
		return bigint.Zero
	}
	return args[0]
}

func foldOperator(op Op, seq []bigint.Integer) (Outcome, error) {
	acc := seq[0]
	var err error
	for _, v := range seq[1:] {
		acc, err = applyOp(op, acc, v)
		if err != nil {
			return Outcome{}, err
		}
	}
	return ValueOutcome(acc), nil
}

func applyOp(op Op, a, b bigint.Integer) (bigint.Integer, error) {
	switch op {
	case OpAdd:
		return a.Add(b), nil
	case OpSub:
		return a.Sub(b), nil
	case OpMul:
		return a.Mul(b), nil
	case OpDiv:
		return a.Div(b)
	case OpMod:
		return a.Mod(b)
	case OpAnd:
		return a.And(b), nil
	case OpOr:
		return a.Or(b), nil
	case OpXor:
		return a.Xor(b), nil
	default:
		return bigint.Zero, fmt.Errorf("not an arithmetic operator")
	}
}

func relate(op Op, seq []bigint.Integer, result bigint.Integer) (Outcome, error) {
	for i := 0; i+1 < len(seq); i++ {
		if !compare(op, seq[i], seq[i+1]) {
			return DieOutcome(), nil
		}
	}
	return ValueOutcome(result), nil
}

func compare(op Op, a, b bigint.Integer) bool {
	switch op {
	case OpEq:
		return a.Eq(b)
	case OpNeq:
		return !a.Eq(b)
	case OpLt:
		return a.Lt(b)
	case OpLe:
		return a.Le(b)
	case OpGt:
		return a.Gt(b)
	case OpGe:
		return a.Ge(b)
	default:
		return false
	}
}
