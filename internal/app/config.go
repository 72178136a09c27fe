package app

import "io"

// Config holds everything internal/cli.Parse gathers from the command
// line, per §4.8.
type Config struct {
	Path string // source unit to load

	HasInput bool   // whether -input was supplied
	Input    string // decimal-string form, parsed with bigint.FromString at Run time

	Debug       bool
	DebugGraphs []string // empty means unfiltered

	LogLevel  string
	LogFormat string

	Stdout io.Writer
	Stderr io.Writer
}
