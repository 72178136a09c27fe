package nodetype

import "github.com/directedlang/directed/internal/bigint"

// OutcomeKind tags the result of executing a node, per §4.2.
type OutcomeKind int

const (
	// Value carries a new accumulator; the executor continues.
	Value OutcomeKind = iota
	// Return ends the enclosing GraphInstance with a final value.
	Return
	// Die removes only the executor that produced it.
	Die
	// DieAll removes every executor in the enclosing GraphInstance.
	DieAll
)

// Outcome is the tagged result of NodeType.Execute.
type Outcome struct {
	Kind OutcomeKind
	V    bigint.Integer
}

// ValueOutcome produces an accumulator update.
func ValueOutcome(v bigint.Integer) Outcome { return Outcome{Kind: Value, V: v} }

// ReturnOutcome ends the instance with v.
func ReturnOutcome(v bigint.Integer) Outcome { return Outcome{Kind: Return, V: v} }

// DieOutcome removes the current executor.
func DieOutcome() Outcome { return Outcome{Kind: Die} }

// DieAllOutcome removes every executor in the instance.
func DieAllOutcome() Outcome { return Outcome{Kind: DieAll} }
