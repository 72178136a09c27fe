package source

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/directedlang/directed/internal/ctxlog"
)

// Load parses and translates a single .dgraph file at path into a Unit.
// Diagnostics are rendered to diagsOut (when non-nil) in the
// "filename:line:column: message" + source line + caret format via
// hcl.NewDiagnosticTextWriter, per §6/§7; a non-nil error is always
// returned alongside when diagnostics contain errors.
func Load(ctx context.Context, path string, diagsOut io.Writer) (*Unit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("loading source unit", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		writeDiags(diagsOut, parser, diags)
		return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	var schema unitSchema
	if d := gohcl.DecodeBody(file.Body, nil, &schema); d.HasErrors() {
		diags = append(diags, d...)
		writeDiags(diagsOut, parser, diags)
		return nil, fmt.Errorf("failed to decode %s: %s", path, d.Error())
	}

	unit, tdiags := translate(path, &schema)
	diags = append(diags, tdiags...)
	if diags.HasErrors() {
		writeDiags(diagsOut, parser, diags)
		return nil, fmt.Errorf("failed to load %s: %s", path, diags.Error())
	}

	logger.Debug("loaded source unit", "path", path, "graphs", len(unit.Graphs), "imports", len(unit.Imports))
	return unit, nil
}

func writeDiags(w io.Writer, parser *hclparse.Parser, diags hcl.Diagnostics) {
	if w == nil || len(diags) == 0 {
		return
	}
	wr := hcl.NewDiagnosticTextWriter(w, parser.Files(), 100, false)
	_ = wr.WriteDiagnostics(diags)
}
