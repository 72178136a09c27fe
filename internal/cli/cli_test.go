package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"-input", "7", "prog.dgraph"}, &stdout, &stderr)
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "prog.dgraph", cfg.Path)
	assert.True(t, cfg.HasInput)
	assert.Equal(t, "7", cfg.Input)
	assert.False(t, cfg.Debug)
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg, shouldExit, err := Parse(nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestParseDebugGraphFilter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg, _, err := Parse([]string{"-debug", "-debug-graph", "Main,Helper", "prog.dgraph"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"Main", "Helper"}, cfg.DebugGraphs)
}

func TestParseInvalidLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "verbose", "prog.dgraph"}, &stdout, &stderr)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml", "prog.dgraph"}, &stdout, &stderr)
	require.Error(t, err)
}
