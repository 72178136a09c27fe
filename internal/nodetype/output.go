package nodetype

import (
	"context"
	"io"
	"os"
)

type outputKey struct{}

// WithOutput attaches the writer Out nodes print to. internal/runtime wires
// this to the GraphInstance's buffered stdout so output can be flushed
// deterministically at each step boundary, per §4.5.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok {
		return w
	}
	return os.Stdout
}
