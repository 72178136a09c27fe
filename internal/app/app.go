// Package app wires internal/source, internal/registry, and
// internal/runtime into the single entry point described by §4.8: load a
// program, resolve Main, run it to completion, and report the exit code
// mandated by §7.
//
// Grounded on the teacher's internal/app/app.go + run.go: an isolated
// slog.Logger threaded through ctxlog rather than a global default, and a
// single Run call that loads, builds, and executes in sequence. The
// teacher splits this across NewApp (build-time) and (*App).Run
// (execution); Directed folds both into one package-level Run, since
// there is no long-lived App state here worth keeping between calls (no
// module registration, no healthcheck server) — the one piece of teacher
// "app construction" state that does carry over, the configured logger,
// is built and threaded through ctx instead of stored on a receiver.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/directedlang/directed/internal/bigint"
	"github.com/directedlang/directed/internal/ctxlog"
	"github.com/directedlang/directed/internal/nodetype"
	"github.com/directedlang/directed/internal/registry"
	"github.com/directedlang/directed/internal/runtime"
	"github.com/directedlang/directed/internal/source"
)

// Exit codes per §7: 0 success, 1 load-time diagnostic, 2 fatal runtime
// error (such as integer division by zero or a failed write of Out's
// byte stream).
const (
	ExitOK        = 0
	ExitLoadError = 1
	ExitFatal     = 2
)

// Run loads cfg.Path, resolves and runs its Main graph, and returns the
// process exit code alongside any error that produced a non-zero one.
func Run(ctx context.Context, cfg Config) (int, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.Stderr)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("starting", "path", cfg.Path)

	unit, err := source.Load(ctx, cfg.Path, cfg.Stderr)
	if err != nil {
		return ExitLoadError, err
	}

	out := bufio.NewWriter(cfg.Stdout)
	obs := buildObserver(cfg)

	reg := registry.New(obs, out)
	loader := fileImportLoader(filepath.Dir(cfg.Path), cfg.Stderr)
	if err := reg.LoadUnit(ctx, unit, loader); err != nil {
		return ExitLoadError, err
	}

	shell, ok := reg.Shell("Main")
	if !ok {
		return ExitLoadError, fmt.Errorf("%s: no graph named Main", cfg.Path)
	}
	if shell.NParams() != 0 {
		return ExitLoadError, fmt.Errorf("%s: Main must take zero parameters, declares %d", cfg.Path, shell.NParams())
	}
	if shell.NArgs() > 1 {
		return ExitLoadError, fmt.Errorf("%s: Main takes at most one argument, declares %d", cfg.Path, shell.NArgs())
	}

	g := shell.Unwrap()
	var inputs []bigint.Integer
	if g.NArgs() == 1 {
		v := bigint.Zero
		if cfg.HasInput {
			v, err = bigint.FromString(cfg.Input)
			if err != nil {
				return ExitLoadError, fmt.Errorf("invalid -input %q: %w", cfg.Input, err)
			}
		}
		inputs = []bigint.Integer{v}
	} else if cfg.HasInput {
		logger.Warn("-input supplied but Main takes no argument; ignoring")
	}

	inst := runtime.New(g, obs, out)
	if err := inst.Seed(ctx, inputs); err != nil {
		return ExitFatal, err
	}
	outcome, err := inst.Run(ctx)
	if err != nil {
		return ExitFatal, err
	}
	out.Flush()

	result := bigint.Zero
	if outcome.Kind == nodetype.Return {
		result = outcome.V
	}
	fmt.Fprintln(cfg.Stdout, result.String())

	logger.Debug("finished", "result", result.String())
	return ExitOK, nil
}

func buildObserver(cfg Config) runtime.Observer {
	if !cfg.Debug {
		return runtime.NoopObserver{}
	}
	var filter map[string]bool
	if len(cfg.DebugGraphs) > 0 {
		filter = make(map[string]bool, len(cfg.DebugGraphs))
		for _, name := range cfg.DebugGraphs {
			filter[name] = true
		}
	}
	return &runtime.WriterObserver{W: cfg.Stderr, Filter: filter}
}

// fileImportLoader resolves an import path relative to the directory
// holding the importing root unit — every import in a program resolves against the program's own directory,
// not the directory of whichever unit happens to declare it, so a diamond
// of imports sharing one library file only ever loads it relative to one
// base.
func fileImportLoader(baseDir string, diagsOut io.Writer) registry.ImportLoader {
	return func(ctx context.Context, path string) (*source.Unit, error) {
		full := path
		if !filepath.IsAbs(path) {
			full = filepath.Join(baseDir, path)
		}
		return source.Load(ctx, full, diagsOut)
	}
}
