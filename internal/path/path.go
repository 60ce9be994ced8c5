// Package path implements the fully-qualified path model that the
// declaration registry, the name resolver, and every cache key in the
// reversible core are built on (spec.md §3 "Path").
package path

import "strings"

// Root distinguishes a path anchored at the crate root, at an intrinsic
// (compiler-builtin) module, or relative to the enclosing module chain.
type Root int

const (
	// RootRelative paths are resolved against the including module.
	RootRelative Root = iota
	// RootCrate paths start from the compilation unit's root module.
	RootCrate
	// RootIntrinsic paths name a compiler-builtin module (never user code).
	RootIntrinsic
)

func (r Root) String() string {
	switch r {
	case RootCrate:
		return "crate"
	case RootIntrinsic:
		return "intrinsic"
	default:
		return "self"
	}
}

// DeclarationPath is a module chain terminated by an identifier. It is the
// shared representation underneath FunctionPath and StructurePath.
type DeclarationPath struct {
	Root    Root
	Modules []string
	Name    string
}

// New builds a DeclarationPath from its module chain and terminal name.
func New(root Root, modules []string, name string) DeclarationPath {
	mods := make([]string, len(modules))
	copy(mods, modules)
	return DeclarationPath{Root: root, Modules: mods, Name: name}
}

// String renders a path in "root::module::name" form, stable and suitable
// as a map key component.
func (p DeclarationPath) String() string {
	var b strings.Builder
	b.WriteString(p.Root.String())
	for _, m := range p.Modules {
		b.WriteString("::")
		b.WriteString(m)
	}
	b.WriteString("::")
	b.WriteString(p.Name)
	return b.String()
}

// Equal reports structural equality, used by the name resolver when
// deciding whether two references denote the same declaration.
func (p DeclarationPath) Equal(other DeclarationPath) bool {
	if p.Root != other.Root || p.Name != other.Name || len(p.Modules) != len(other.Modules) {
		return false
	}
	for i := range p.Modules {
		if p.Modules[i] != other.Modules[i] {
			return false
		}
	}
	return true
}

// FunctionPath is a DeclarationPath known to name a function.
type FunctionPath struct{ DeclarationPath }

// StructurePath is a DeclarationPath known to name a structure.
type StructurePath struct{ DeclarationPath }

// Function wraps a DeclarationPath as a FunctionPath.
func Function(p DeclarationPath) FunctionPath { return FunctionPath{p} }

// Structure wraps a DeclarationPath as a StructurePath.
func Structure(p DeclarationPath) StructurePath { return StructurePath{p} }

func (f FunctionPath) String() string  { return f.DeclarationPath.String() }
func (s StructurePath) String() string { return s.DeclarationPath.String() }
