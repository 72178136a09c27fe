// Command directed runs a Directed source unit, per §4.8.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/directedlang/directed/internal/app"
	"github.com/directedlang/directed/internal/cli"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run encapsulates main for testability, matching the teacher's
// cmd/cli/main.go split between main and run(outW, args).
func run(stdout, stderr *os.File, args []string) int {
	cfg, shouldExit, err := cli.Parse(args, stdout, stderr)
	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(stderr, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if shouldExit {
		return 0
	}

	code, err := app.Run(context.Background(), *cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return code
}
