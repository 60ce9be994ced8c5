package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/repl"
	"github.com/Techno-coder/lexica-sub000/internal/runtime"
)

var (
	evalProgramPath string
	evalReverse     bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <path> <item...>",
	Short: "Run a registered function's reversible lowering over literal arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		registry, caches, err := loadRegistry(evalProgramPath)
		if err != nil {
			return err
		}

		direction := basic.Advance
		if evalReverse {
			direction = basic.Reverse
		}

		elements := make([]item.Item, len(args[1:]))
		for i, token := range args[1:] {
			value, err := repl.ParseItem(token)
			if err != nil {
				return err
			}
			elements[i] = value
		}
		params := item.NewTuple(elements...)

		resolve := repl.NewResolver(registry, caches)
		p := parseFunctionPath(args[0])
		fn, err := resolve(p, basic.Reversible)
		if err != nil {
			if report, ok := errors.AsReport(err); ok {
				return fmt.Errorf("[%s] %s", report.Code, report.Message)
			}
			return err
		}

		interpreter := runtime.New(resolve)
		result, err := interpreter.Run(fn, direction, params)
		if err != nil {
			if report, ok := errors.AsReport(err); ok {
				return fmt.Errorf("[%s] %s", report.Code, report.Message)
			}
			return err
		}
		fmt.Println(result.String())
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalProgramPath, "program", "", "path to a program JSON file")
	evalCmd.Flags().BoolVar(&evalReverse, "reverse", false, "run the evaluation in reverse")
	rootCmd.AddCommand(evalCmd)
}
