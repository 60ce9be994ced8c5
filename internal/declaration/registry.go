// Package declaration implements the path → source-span registry: the
// concrete "module-context registry" that backs name resolution, backs
// inference.Declarations for cross-function lookups, and backs diagnostic
// rendering (SPEC_FULL.md §3 "Declaration registry contract").
//
// Grounded on the teacher's internal/module.Loader, which maps a module
// identity to a *Module under a sync.RWMutex; here the key is a
// path.DeclarationPath and the registry additionally carries each
// declaration's source span for diagnostics, since lexica has no separate
// AST to re-walk for that information once lowering has consumed it.
package declaration

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// SourceSpan locates a declaration's defining span within a source file.
type SourceSpan struct {
	SourceID string
	Start    int
	End      int
}

// Span converts a SourceSpan to an errors.Span for diagnostics.
func (s SourceSpan) Span() errors.Span {
	return errors.Span{SourceID: s.SourceID, Start: s.Start, End: s.End}
}

// FunctionEntry is everything the registry knows about one function
// declaration: its source span, its built expression arena, and the
// signature the inference driver needs to type calls to it.
type FunctionEntry struct {
	Span      SourceSpan
	Context   *node.FunctionContext
	Signature inference.FunctionSignature
}

// StructureEntry is everything the registry knows about one structure
// declaration.
type StructureEntry struct {
	Span      SourceSpan
	Signature inference.StructureSignature
}

// Registry maps declaration paths to their defining entries. Each path is
// written exactly once, during node-building, and read concurrently by
// every later pass (spec.md §3 "Lifecycles").
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]*FunctionEntry
	structures map[string]*StructureEntry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		functions:  make(map[string]*FunctionEntry),
		structures: make(map[string]*StructureEntry),
	}
}

// DefineFunction records a function declaration. Redefining an existing
// path is a programmer error in the node-building pass, not a user-facing
// one, so it panics rather than returning a *errors.Report — node-building
// owns uniqueness of its own paths.
func (r *Registry) DefineFunction(p path.FunctionPath, entry *FunctionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := p.String()
	if _, exists := r.functions[key]; exists {
		panic(fmt.Sprintf("declaration: function %s defined twice", key))
	}
	r.functions[key] = entry
}

// DefineStructure records a structure declaration.
func (r *Registry) DefineStructure(p path.StructurePath, entry *StructureEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := p.String()
	if _, exists := r.structures[key]; exists {
		panic(fmt.Sprintf("declaration: structure %s defined twice", key))
	}
	r.structures[key] = entry
}

// Function looks up a function's full entry.
func (r *Registry) Function(p path.FunctionPath) (*FunctionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.functions[p.String()]
	return entry, ok
}

// FunctionPaths lists every registered function's path in sorted order,
// for tooling that enumerates a module's functions (the REPL's :list
// command and cmd/lexica's `check` subcommand) without needing its own
// index into the registry.
func (r *Registry) FunctionPaths() []path.FunctionPath {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]path.FunctionPath, 0, len(r.functions))
	for _, entry := range r.functions {
		paths = append(paths, entry.Signature.Path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })
	return paths
}

// Structure looks up a structure's full entry.
func (r *Registry) Structure(p path.StructurePath) (*StructureEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.structures[p.String()]
	return entry, ok
}

// FunctionSignature implements inference.Declarations.
func (r *Registry) FunctionSignature(p path.FunctionPath) (inference.FunctionSignature, bool) {
	entry, ok := r.Function(p)
	if !ok {
		return inference.FunctionSignature{}, false
	}
	return entry.Signature, true
}

// StructureSignature implements inference.Declarations.
func (r *Registry) StructureSignature(p path.StructurePath) (inference.StructureSignature, bool) {
	entry, ok := r.Structure(p)
	if !ok {
		return inference.StructureSignature{}, false
	}
	return entry.Signature, true
}

// declarations adapts a *Registry to inference.Declarations under the
// names that interface actually requires (Function/Structure), without
// shadowing the richer Function/Structure accessors above that return
// full entries. Callers that need an inference.Declarations value use
// AsDeclarations rather than passing the Registry itself.
type declarations struct{ registry *Registry }

func (d declarations) Function(p path.FunctionPath) (inference.FunctionSignature, bool) {
	return d.registry.FunctionSignature(p)
}

func (d declarations) Structure(p path.StructurePath) (inference.StructureSignature, bool) {
	return d.registry.StructureSignature(p)
}

// AsDeclarations adapts the registry to inference.Declarations.
func (r *Registry) AsDeclarations() inference.Declarations { return declarations{registry: r} }
