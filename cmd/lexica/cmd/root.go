// Package cmd wires the lexica CLI's cobra command tree, grounded on
// cwbudde/go-dws's cmd/dwscript/cmd (package cmd, a rootCmd var, an
// exported Execute, per-subcommand files registering themselves via
// init/root.AddCommand), replacing the teacher's own cmd/ailang, which
// parses its flags with the standard library's flag package instead.
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version, Commit, and BuildTime are populated by main from ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "lexica",
	Short: "Reversible-core compiler pipeline: inference, lowering, partial evaluation, and runtime",
	Long: `lexica drives a small reversible programming language's middle end:
union-find type inference over an expression arena, lowering to a
bidirectional basic IR, a partial evaluator that folds compile-time calls,
and an evaluation runtime that steps a lowering forward or in reverse.`,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, Commit, BuildTime))
}
