package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/repl"
)

var (
	lowerProgramPath  string
	lowerReversiblity string
)

var lowerCmd = &cobra.Command{
	Use:   "lower <path>",
	Short: "Lower a registered function to basic IR and report its node count",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		registry, caches, err := loadRegistry(lowerProgramPath)
		if err != nil {
			return err
		}

		reversibility := basic.Reversible
		if lowerReversiblity == "entropic" {
			reversibility = basic.Entropic
		} else if lowerReversiblity != "" && lowerReversiblity != "reversible" {
			return fmt.Errorf("unknown reversibility %q (want \"reversible\" or \"entropic\")", lowerReversiblity)
		}

		resolve := repl.NewResolver(registry, caches)
		p := parseFunctionPath(args[0])
		fn, err := resolve(p, reversibility)
		if err != nil {
			if report, ok := errors.AsReport(err); ok {
				return fmt.Errorf("[%s] %s", report.Code, report.Message)
			}
			return err
		}
		fmt.Printf("%s lowered %s: %d node(s), entry %d, exit %d\n",
			cyan(p.String()), lowerReversiblity, len(fn.Nodes), fn.Entry, fn.Exit)
		return nil
	},
}

func init() {
	lowerCmd.Flags().StringVar(&lowerProgramPath, "program", "", "path to a program JSON file")
	lowerCmd.Flags().StringVar(&lowerReversiblity, "form", "reversible", "lowering form: reversible or entropic")
	rootCmd.AddCommand(lowerCmd)
}
