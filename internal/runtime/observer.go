package runtime

import (
	"fmt"
	"io"

	"github.com/directedlang/directed/internal/bigint"
)

// Observer is the §6 debug hook: a plain interface passed into a
// GraphInstance rather than global mutable state, per the distilled spec's
// explicit Design Note against that pattern. Every call carries the name
// of the graph instance it originated from, so an Observer shared across
// nested sub-graph invocations can filter correctly without tracking which
// instance is "currently" active.
type Observer interface {
	ExecutorMoved(graphName string, executorID int, nodeLabel string, accumulator bigint.Integer)
	StepBoundary(graphName string)
	EnterGraph(name string)
}

// NoopObserver discards every record. internal/app passes it when debug
// mode is off; GraphInstance also accepts a nil Observer, which it skips.
type NoopObserver struct{}

func (NoopObserver) ExecutorMoved(string, int, string, bigint.Integer) {}
func (NoopObserver) StepBoundary(string)                               {}
func (NoopObserver) EnterGraph(string)                                 {}

// WriterObserver renders debug records to W in the line format §6
// mandates: "executor <id> @ <node-label> : <accumulator>" per move, "---"
// between steps, and "=== <graph-name> ===" on entering a sub-graph.
// Graphs can optionally be restricted by name, matching the CLI's
// -debug-graph=<name> flag.
type WriterObserver struct {
	W      io.Writer
	Filter map[string]bool // nil means unfiltered
}

func (o *WriterObserver) allowed(name string) bool {
	return o.Filter == nil || o.Filter[name]
}

func (o *WriterObserver) EnterGraph(name string) {
	if o.allowed(name) {
		fmt.Fprintf(o.W, "=== %s ===\n", name)
	}
}

func (o *WriterObserver) ExecutorMoved(graphName string, executorID int, nodeLabel string, accumulator bigint.Integer) {
	if o.allowed(graphName) {
		fmt.Fprintf(o.W, "executor %d @ %s : %s\n", executorID, nodeLabel, accumulator.String())
	}
}

func (o *WriterObserver) StepBoundary(graphName string) {
	if o.allowed(graphName) {
		fmt.Fprintln(o.W, "---")
	}
}
