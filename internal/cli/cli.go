// Package cli implements the flag parsing of §4.8: program path, -input,
// -debug / -debug-graph, and -log-level / -log-format, following the
// teacher's internal/cli/cli.go almost directly (ExitError with a process
// exit code, a custom flag.FlagSet.Usage, validation of the log options
// before building a Config).
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/directedlang/directed/internal/app"
)

// ExitError carries the process exit code a usage error should produce.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Parse processes command-line arguments into an app.Config. The second
// return value is true when the program should exit cleanly without
// running anything (e.g. -help).
func Parse(args []string, stdout, stderr io.Writer) (*app.Config, bool, error) {
	fs := flag.NewFlagSet("directed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Usage = func() {
		fmt.Fprint(stderr, `
Directed - an interpreter for graph-shaped programs.

Usage:
  directed [options] SOURCE_PATH

Arguments:
  SOURCE_PATH
    Path to a .dgraph source unit.

Options:
`)
		fs.PrintDefaults()
	}

	inputFlag := fs.String("input", "", "Decimal integer bound to Main's sole argument, if it has one.")
	debugFlag := fs.Bool("debug", false, "Enable the §6 step-by-step debug trace on stderr.")
	debugGraphFlag := fs.String("debug-graph", "", "Restrict -debug output to a comma-separated list of graph names.")
	logFormatFlag := fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := fs.String("log-level", "warn", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, true, nil
	}
	path := fs.Arg(0)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid -log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid -log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var debugGraphs []string
	if *debugGraphFlag != "" {
		debugGraphs = strings.Split(*debugGraphFlag, ",")
	}

	cfg := &app.Config{
		Path:        path,
		HasInput:    *inputFlag != "",
		Input:       *inputFlag,
		Debug:       *debugFlag,
		DebugGraphs: debugGraphs,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Stdout:      stdout,
		Stderr:      stderr,
	}
	return cfg, false, nil
}
