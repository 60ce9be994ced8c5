package program

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/declaration"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

func u64Type() Type { return Type{Root: "intrinsic", Name: "u64"} }

// TestRegisterBuildsADoublingFunction covers the JSON encoding of
// `fn double(x: u64) -> u64 = x * 2`: one parameter, one binary
// expression, registered and ready for the normal inference/lowering
// pipeline.
func TestRegisterBuildsADoublingFunction(t *testing.T) {
	file := &File{Functions: []Function{{
		Name:       "double",
		Parameters: []Param{{Name: "x", Type: u64Type()}},
		Return:     &Type{Root: "intrinsic", Name: "u64"},
		Body: Expr{Kind: "binary", Op: "*",
			Left:  &Expr{Kind: "var", Variable: "x"},
			Right: &Expr{Kind: "int", Int: uint64Ptr(2)},
		},
	}}}

	registry := declaration.New()
	if err := file.Register(registry); err != nil {
		t.Fatalf("Register: %v", err)
	}

	p := path.Function(path.New(path.RootCrate, nil, "double"))
	entry, ok := registry.Function(p)
	if !ok {
		t.Fatalf("function %s not registered", p.String())
	}
	if entry.Context.Len() != 3 {
		t.Fatalf("expected 3 arena entries (var, int, binary), got %d", entry.Context.Len())
	}

	types, err := inference.NewDriver(registry.AsDeclarations()).Infer(entry.Context)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if _, err := basic.Lower(entry.Context, types, basic.Reversible); err != nil {
		t.Fatalf("Lower: %v", err)
	}
}

// TestRegisterRejectsAnUndefinedVariable covers the builder's scope check:
// a "var" node referencing a name no earlier "let" or parameter bound is
// a program-description error, not a silent zero Variable.
func TestRegisterRejectsAnUndefinedVariable(t *testing.T) {
	file := &File{Functions: []Function{{
		Name: "broken",
		Body: Expr{Kind: "var", Variable: "missing"},
	}}}

	registry := declaration.New()
	if err := file.Register(registry); err == nil {
		t.Fatalf("expected an error for an undefined variable reference")
	}
}

// TestRegisterBuildsALetBinding covers the "let" expression kind's
// translation into a Let node wrapped with its continuation in a Block,
// mirroring how node-building sequences a binding and its scope.
func TestRegisterBuildsALetBinding(t *testing.T) {
	file := &File{Functions: []Function{{
		Name:   "withLet",
		Return: &Type{Root: "intrinsic", Name: "u64"},
		Body: Expr{Kind: "let", Variable: "y",
			Value: &Expr{Kind: "int", Int: uint64Ptr(1)},
			Body:  &Expr{Kind: "var", Variable: "y"},
		},
	}}}

	registry := declaration.New()
	if err := file.Register(registry); err != nil {
		t.Fatalf("Register: %v", err)
	}

	p := path.Function(path.New(path.RootCrate, nil, "withLet"))
	entry, ok := registry.Function(p)
	if !ok {
		t.Fatalf("function %s not registered", p.String())
	}
	if _, err := inference.NewDriver(registry.AsDeclarations()).Infer(entry.Context); err != nil {
		t.Fatalf("Infer: %v", err)
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }
