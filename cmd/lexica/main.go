// Command lexica is the CLI entry point for the reversible-core pipeline:
// check/lower/eval a registered program and start the interactive REPL
// (SPEC_FULL.md §9 "CLI").
package main

import (
	"os"

	"github.com/Techno-coder/lexica-sub000/cmd/lexica/cmd"
)

// Version, Commit, and BuildTime are set by ldflags during release builds,
// mirroring the teacher's cmd/ailang/main.go build-info variables.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cmd.Version = Version
	cmd.Commit = Commit
	cmd.BuildTime = BuildTime
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
