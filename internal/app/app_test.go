package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.dgraph")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func runConfig(path string, input string, hasInput bool) Config {
	return Config{
		Path:      path,
		HasInput:  hasInput,
		Input:     input,
		LogLevel:  "error",
		LogFormat: "text",
		Stdout:    &bytes.Buffer{},
		Stderr:    &bytes.Buffer{},
	}
}

func TestRunReturnsIncrementedResult(t *testing.T) {
	path := writeProgram(t, `
graph "Main" {
  arg "x" {}
  node "inc" { type = "+(1)" }
  node "r"   { type = "Return" }
  edges = ["x -> inc", "inc -> r"]
}
`)
	var stdout bytes.Buffer
	cfg := runConfig(path, "41", true)
	cfg.Stdout = &stdout

	code, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "42\n", stdout.String())
}

func TestRunWritesOutBytesThenResult(t *testing.T) {
	path := writeProgram(t, `
graph "Main" {
  arg "x" {}
  node "o" { type = "Out" }
  node "r" { type = "Return" }
  edges = ["x -> o", "o -> r"]
}
`)
	var stdout bytes.Buffer
	cfg := runConfig(path, "65", true)
	cfg.Stdout = &stdout

	code, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "A65\n", stdout.String())
}

func TestRunMissingMainIsLoadError(t *testing.T) {
	path := writeProgram(t, `
graph "NotMain" {}
`)
	cfg := runConfig(path, "", false)
	code, err := Run(context.Background(), cfg)
	assert.Error(t, err)
	assert.Equal(t, ExitLoadError, code)
}

func TestRunDivisionByZeroIsFatal(t *testing.T) {
	path := writeProgram(t, `
graph "Main" {
  node "zero" { type = "0" }
  node "d"    { type = "/" }
  node "r"    { type = "Return" }
  edges = ["zero -> d", "zero -> d", "d -> r"]
}
`)
	cfg := runConfig(path, "", false)
	code, err := Run(context.Background(), cfg)
	assert.Error(t, err)
	assert.Equal(t, ExitFatal, code)
}

func TestRunZeroArgGraphNodeAsConstantProducer(t *testing.T) {
	path := writeProgram(t, `
graph "Seven" {
  node "n" { type = "7" }
  node "r" { type = "Return" }
  edges = ["n -> r"]
}
graph "Main" {
  node "seven" { type = "Seven" }
  node "r"     { type = "Return" }
  edges = ["seven -> r"]
}
`)
	cfg := runConfig(path, "", false)
	code, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "7\n", cfg.Stdout.(*bytes.Buffer).String())
}

func TestRunMainWithParametersIsLoadError(t *testing.T) {
	path := writeProgram(t, `
graph "Main" {
  param "p" {}
  node "r" { type = "Return" }
  edges = ["p -> r"]
}
`)
	cfg := runConfig(path, "", false)
	code, err := Run(context.Background(), cfg)
	assert.Error(t, err)
	assert.Equal(t, ExitLoadError, code)
}
