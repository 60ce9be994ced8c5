package declaration

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

func fp(name string) path.FunctionPath { return path.Function(path.New(path.RootCrate, nil, name)) }

func TestRegistryDefineAndLookupFunction(t *testing.T) {
	r := New()
	p := fp("double")
	entry := &FunctionEntry{
		Span:      SourceSpan{SourceID: "main.lex", Start: 0, End: 10},
		Signature: inference.FunctionSignature{Path: p},
	}
	r.DefineFunction(p, entry)

	got, ok := r.Function(p)
	if !ok || got != entry {
		t.Fatalf("expected to find the exact entry back, got %v %v", got, ok)
	}

	if _, ok := r.Function(fp("missing")); ok {
		t.Fatal("expected a lookup miss for an undefined path")
	}
}

func TestRegistryDefineFunctionTwicePanics(t *testing.T) {
	r := New()
	p := fp("double")
	r.DefineFunction(p, &FunctionEntry{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected redefining the same path to panic")
		}
	}()
	r.DefineFunction(p, &FunctionEntry{})
}

func TestRegistryAsDeclarationsAdaptsSignatures(t *testing.T) {
	r := New()
	p := fp("identity")
	sig := inference.FunctionSignature{Path: p, Templates: []string{"T"}}
	r.DefineFunction(p, &FunctionEntry{Signature: sig})

	decls := r.AsDeclarations()
	got, ok := decls.Function(p)
	if !ok || len(got.Templates) != 1 || got.Templates[0] != "T" {
		t.Fatalf("expected the adapted Declarations view to surface the signature, got %+v %v", got, ok)
	}
	if _, ok := decls.Structure(path.Structure(path.New(path.RootCrate, nil, "Missing"))); ok {
		t.Fatal("expected a structure lookup miss for an undefined path")
	}
}
