package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Techno-coder/lexica-sub000/internal/cache"
	"github.com/Techno-coder/lexica-sub000/internal/config"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
)

var (
	checkManifestPath string
	checkProgramPath  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a project manifest and type-check every registered function",
	RunE: func(c *cobra.Command, args []string) error {
		var manifest *config.Manifest
		if checkManifestPath != "" {
			m, err := config.Load(checkManifestPath)
			if err != nil {
				return fmt.Errorf("manifest: %w", err)
			}
			manifest = m
			fmt.Printf("%s manifest %s: entrypoint %s\n", green("ok"), checkManifestPath, manifest.Entrypoint)
		}

		if checkProgramPath == "" {
			return nil
		}
		registry, caches, err := loadRegistry(checkProgramPath)
		if err != nil {
			return err
		}

		if manifest != nil {
			if _, ok := registry.Function(manifest.EntrypointPath()); !ok {
				return fmt.Errorf("manifest entrypoint %s is not registered by %s", manifest.Entrypoint, checkProgramPath)
			}
		}

		failed := 0
		for _, p := range registry.FunctionPaths() {
			fmt.Printf("%s %s ... ", cyan("checking"), p.String())
			entry, _ := registry.Function(p)
			_, err := caches.TypeContexts.Get(cache.FunctionKey(entry.Signature.Path), func() (*inference.TypeContext, error) {
				return inference.NewDriver(registry.AsDeclarations()).Infer(entry.Context)
			})
			if err != nil {
				failed++
				if report, ok := errors.AsReport(err); ok {
					fmt.Printf("%s [%s] %s\n", red("FAIL"), report.Code, report.Message)
				} else {
					fmt.Printf("%s %v\n", red("FAIL"), err)
				}
				continue
			}
			fmt.Println(green("ok"))
		}
		if failed > 0 {
			return fmt.Errorf("%d function(s) failed to type-check", failed)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkManifestPath, "manifest", "", "path to lexica.yaml")
	checkCmd.Flags().StringVar(&checkProgramPath, "program", "", "path to a program JSON file")
	rootCmd.AddCommand(checkCmd)
}
