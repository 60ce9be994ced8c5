package cmd

import (
	"fmt"

	"github.com/Techno-coder/lexica-sub000/internal/cache"
	"github.com/Techno-coder/lexica-sub000/internal/declaration"
	"github.com/Techno-coder/lexica-sub000/internal/program"
)

// loadRegistry reads a program file from disk and registers every function
// it declares into a fresh registry, paired with a fresh set of pipeline
// caches for the invocation.
func loadRegistry(programPath string) (*declaration.Registry, *cache.Caches, error) {
	if programPath == "" {
		return nil, nil, fmt.Errorf("no program file given (use --program)")
	}
	file, err := program.Load(programPath)
	if err != nil {
		return nil, nil, err
	}
	registry := declaration.New()
	if err := file.Register(registry); err != nil {
		return nil, nil, err
	}
	return registry, cache.NewCaches(), nil
}
