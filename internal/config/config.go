// Package config loads and validates a project's lexica.yaml manifest: its
// source search paths, the default reversibility mode new functions are
// lowered under, and the entrypoint function whose registration
// `lexica check --program` confirms (SPEC_FULL.md §9 "Config / manifest", grounded on the teacher's
// internal/schema and internal/manifest packages, retargeted from the
// teacher's JSON example manifest to a YAML project manifest).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// SchemaVersion is the manifest schema this package accepts.
const SchemaVersion = "lexica.config/v1"

// Manifest is the parsed contents of lexica.yaml.
type Manifest struct {
	Schema               string   `yaml:"schema"`
	SearchPaths          []string `yaml:"search_paths"`
	DefaultReversibility string   `yaml:"default_reversibility"`
	Entrypoint           string   `yaml:"entrypoint"`
}

// New returns a manifest with the defaults a freshly initialised project
// gets: the current directory as its sole search path, reversible lowering
// by default, and a conventional "main" entrypoint.
func New() *Manifest {
	return &Manifest{
		Schema:               SchemaVersion,
		SearchPaths:          []string{"."},
		DefaultReversibility: "reversible",
		Entrypoint:           "main",
	}
}

// Load reads and validates a manifest from path.
func Load(p string) (*Manifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}
	return &m, nil
}

// Save writes the manifest to path as YAML.
func (m *Manifest) Save(p string) error {
	if m.Schema == "" {
		m.Schema = SchemaVersion
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(p, data, 0644)
}

// Validate checks the manifest for consistency: a recognised schema
// version, at least one search path, and a reversibility default that
// names one of the two modes basic.Reversibility supports.
func (m *Manifest) Validate() error {
	if !schemaAccepts(m.Schema, SchemaVersion) {
		return fmt.Errorf("unsupported schema version: %s (expected %s)", m.Schema, SchemaVersion)
	}
	if len(m.SearchPaths) == 0 {
		return fmt.Errorf("manifest must declare at least one search path")
	}
	if _, err := m.Reversibility(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Entrypoint) == "" {
		return fmt.Errorf("manifest must declare an entrypoint function")
	}
	return nil
}

// Reversibility resolves the manifest's default_reversibility field to the
// mode the lowering engine understands.
func (m *Manifest) Reversibility() (basic.Reversibility, error) {
	switch m.DefaultReversibility {
	case "reversible":
		return basic.Reversible, nil
	case "entropic":
		return basic.Entropic, nil
	default:
		return 0, fmt.Errorf("unknown default_reversibility %q (want \"reversible\" or \"entropic\")", m.DefaultReversibility)
	}
}

// EntrypointPath parses the manifest's dotted entrypoint string ("mod.sub.name")
// into a crate-rooted function path.
func (m *Manifest) EntrypointPath() path.FunctionPath {
	parts := strings.Split(m.Entrypoint, ".")
	name := parts[len(parts)-1]
	modules := parts[:len(parts)-1]
	return path.Function(path.New(path.RootCrate, modules, name))
}

// schemaAccepts mirrors the teacher's internal/schema.Accepts: a schema
// string matches a wanted prefix exactly or as one of its minor versions.
func schemaAccepts(got, wantPrefix string) bool {
	if got == wantPrefix {
		return true
	}
	return strings.HasPrefix(got, wantPrefix+".")
}
