package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directedlang/directed/internal/app"
)

// runSource writes src to a temp file and runs it through internal/app.Run,
// mirroring what cmd/directed's run() does after cli.Parse succeeds. These
// are the six literal end-to-end scenarios of §8.
func runSource(t *testing.T, src, input string, hasInput bool) (stdout, stderr string, code int) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.dgraph")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var outBuf, errBuf bytes.Buffer
	c, err := app.Run(context.Background(), app.Config{
		Path:      path,
		HasInput:  hasInput,
		Input:     input,
		LogLevel:  "error",
		LogFormat: "text",
		Stdout:    &outBuf,
		Stderr:    &errBuf,
	})
	require.NoError(t, err)
	return outBuf.String(), errBuf.String(), c
}

func TestScenarioEcho(t *testing.T) {
	stdout, _, code := runSource(t, `
graph "Main" {
  arg "in" {}
  node "r" { type = "Return" }
  edges = ["in -> r"]
}
`, "42", true)
	assert.Equal(t, 0, code)
	assert.Equal(t, "42\n", stdout)
}

func TestScenarioHelloByte(t *testing.T) {
	stdout, _, code := runSource(t, `
graph "Main" {
  arg "in" {}
  node "o" { type = "Out" }
  node "r" { type = "Return" }
  edges = ["in -> o", "o -> r"]
}
`, "65", true)
	assert.Equal(t, 0, code)
	assert.Equal(t, "A65\n", stdout)
}

func TestScenarioConditionalFilterDies(t *testing.T) {
	stdout, _, code := runSource(t, `
graph "Main" {
  node "three" { type = "3" }
  node "five"  { type = "5" }
  node "eq"    { type = "=" }
  node "r"     { type = "Return" }
  edges = ["three -> eq", "five -> eq", "eq -> r"]
}
`, "", false)
	assert.Equal(t, 0, code)
	assert.Equal(t, "0\n", stdout)
}

func TestScenarioForkAndMerge(t *testing.T) {
	stdout, _, code := runSource(t, `
graph "Main" {
  arg "x" {}
  node "a"   { type = "Nop" }
  node "b"   { type = "Nop" }
  node "sum" { type = "+" }
  node "r"   { type = "Return" }
  edges = ["x -> a", "x -> b", "a -> sum", "b -> sum", "sum -> r"]
}
`, "7", true)
	assert.Equal(t, 0, code)
	assert.Equal(t, "14\n", stdout)
}

func TestScenarioDieAllPropagation(t *testing.T) {
	// "trigger" and "start" are both parentless, so both are seeded and
	// exist side by side before the first step runs. The first step kills
	// "trigger"'s own chain by reaching Die, which must also kill
	// "start"'s chain even though it is still mid-computation (sitting at
	// "start" itself, not yet having moved on to "a" or "b").
	stdout, _, code := runSource(t, `
graph "Main" {
  node "trigger" { type = "Nop" }
  node "stop"    { type = "Die" }
  node "start"   { type = "3" }
  node "a"       { type = "+(1)" }
  node "b"       { type = "+(1)" }
  edges = ["trigger -> stop", "start -> a", "a -> b"]
}
`, "", false)
	assert.Equal(t, 0, code)
	assert.Equal(t, "0\n", stdout)
}

func TestScenarioSubGraphAsJunction(t *testing.T) {
	stdout, _, code := runSource(t, `
graph "Pair" {
  arg "a" {}
  arg "b" {}
  node "bnop" { type = "Nop" }
  node "ret"  { type = "Return" }
  edges = ["b -> bnop", "a -> ret"]
}
graph "Main" {
  node "x"    { type = "3" }
  node "y"    { type = "9" }
  node "pair" { type = "Pair" }
  node "r"    { type = "Return" }
  edges = ["x -> pair", "y -> pair", "pair -> r"]
}
`, "", false)
	assert.Equal(t, 0, code)
	assert.Equal(t, "3\n", stdout)
}
