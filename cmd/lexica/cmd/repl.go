package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Techno-coder/lexica-sub000/internal/repl"
)

var replProgramPath string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session over a program's registered functions",
	RunE: func(c *cobra.Command, args []string) error {
		registry, caches, err := loadRegistry(replProgramPath)
		if err != nil {
			return err
		}
		session := repl.NewWithVersion(registry, caches, Version, BuildTime)
		session.Start(os.Stdin, os.Stdout)
		return nil
	},
}

func init() {
	replCmd.Flags().StringVar(&replProgramPath, "program", "", "path to a program JSON file")
	rootCmd.AddCommand(replCmd)
}
