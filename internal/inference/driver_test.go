package inference

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

type fakeDeclarations struct {
	functions  map[string]FunctionSignature
	structures map[string]StructureSignature
}

func newFakeDeclarations() *fakeDeclarations {
	return &fakeDeclarations{
		functions:  make(map[string]FunctionSignature),
		structures: make(map[string]StructureSignature),
	}
}

func (f *fakeDeclarations) addFunction(sig FunctionSignature) {
	f.functions[sig.Path.String()] = sig
}

func (f *fakeDeclarations) addStructure(sig StructureSignature) {
	f.structures[sig.Path.String()] = sig
}

func (f *fakeDeclarations) Function(p path.FunctionPath) (FunctionSignature, bool) {
	sig, ok := f.functions[p.String()]
	return sig, ok
}

func (f *fakeDeclarations) Structure(p path.StructurePath) (StructureSignature, bool) {
	sig, ok := f.structures[p.String()]
	return sig, ok
}

func u64Reference() node.TypeReference {
	return node.TypeReference{Structure: path.Structure(path.New(path.RootIntrinsic, nil, "u64"))}
}

func truthReference() node.TypeReference {
	return node.TypeReference{Structure: path.Structure(path.New(path.RootIntrinsic, nil, "truth"))}
}

func fp(name string) path.FunctionPath {
	return path.Function(path.New(path.RootCrate, nil, name))
}

// TestDriverIdentityFunction types `fn id(x: u64) -> u64 = x` exactly as
// named in spec.md §8 scenario 1.
func TestDriverIdentityFunction(t *testing.T) {
	fc := node.NewFunctionContext(fp("id"), []node.BindingPattern{
		node.Terminal(node.BindingVariable{Variable: node.NewVariable("x"), Ascription: ref(u64Reference())}),
	}, ref(u64Reference()), nil)

	x := node.NewVariable("x")
	entry := fc.Alloc(node.VariableRef{Variable: x})
	fc.Entry = entry

	ctx, err := NewDriver(newFakeDeclarations()).Infer(fc)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	resolved, ok := ctx.Expression(entry)
	if !ok {
		t.Fatal("missing expression type")
	}
	if !resolved.Equal(Concrete(path.Structure(path.New(path.RootIntrinsic, nil, "u64")))) {
		t.Fatalf("expected u64, got %s", resolved)
	}
}

func TestDriverLetBindingUnifiesAscriptionAndValue(t *testing.T) {
	fc := node.NewFunctionContext(fp("let_example"), nil, nil, nil)
	value := fc.Alloc(node.TruthLiteral{Value: true})
	v := node.NewVariable("flag")
	letKey := fc.Alloc(node.Let{
		Pattern:    node.Terminal(node.BindingVariable{Variable: v}),
		Ascription: ref(truthReference()),
		Value:      value,
	})
	refExpr := fc.Alloc(node.VariableRef{Variable: v})
	block := fc.Alloc(node.Block{Expressions: []node.ExpressionKey{letKey, refExpr}})
	fc.Entry = block

	ctx, err := NewDriver(newFakeDeclarations()).Infer(fc)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	resolved, ok := ctx.Expression(refExpr)
	if !ok {
		t.Fatal("missing variable reference type")
	}
	if !resolved.Equal(Concrete(path.Structure(path.New(path.RootIntrinsic, nil, "truth")))) {
		t.Fatalf("expected truth, got %s", resolved)
	}
}

func TestDriverLetAscriptionMismatchFails(t *testing.T) {
	fc := node.NewFunctionContext(fp("mismatch"), nil, nil, nil)
	value := fc.Alloc(node.TruthLiteral{Value: true})
	letKey := fc.Alloc(node.Let{
		Pattern:    node.Terminal(node.BindingVariable{Variable: node.NewVariable("n")}),
		Ascription: ref(u64Reference()),
		Value:      value,
	})
	fc.Entry = letKey

	if _, err := NewDriver(newFakeDeclarations()).Infer(fc); err == nil {
		t.Fatal("expected unification failure between u64 ascription and a truth value")
	}
}

func TestDriverConditionalBranchesUnifyToCommonResult(t *testing.T) {
	fc := node.NewFunctionContext(fp("cond"), nil, nil, nil)
	condA := fc.Alloc(node.TruthLiteral{Value: true})
	bodyA := fc.Alloc(node.IntegerLiteral{Value: 1})
	condB := fc.Alloc(node.TruthLiteral{Value: false})
	bodyB := fc.Alloc(node.IntegerLiteral{Value: 2})
	conditional := fc.Alloc(node.Conditional{Branches: []node.ConditionalBranch{
		{Start: condA, Body: bodyA},
		{Start: condB, Body: bodyB},
	}})
	fc.Entry = conditional

	ctx, err := NewDriver(newFakeDeclarations()).Infer(fc)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	a, _ := ctx.Expression(bodyA)
	b, _ := ctx.Expression(bodyB)
	if !a.Equal(b) {
		t.Fatalf("expected both branch bodies to share a type, got %s and %s", a, b)
	}
}

func TestDriverCallArityMismatchFails(t *testing.T) {
	decls := newFakeDeclarations()
	decls.addFunction(FunctionSignature{
		Path:       fp("add"),
		Parameters: []node.TypeReference{u64Reference(), u64Reference()},
		Return:     u64Reference(),
	})

	fc := node.NewFunctionContext(fp("caller"), nil, nil, nil)
	arg := fc.Alloc(node.IntegerLiteral{Value: 1})
	call := fc.Alloc(node.Call{Function: fp("add"), Arguments: []node.ExpressionKey{arg}})
	fc.Entry = call

	if _, err := NewDriver(decls).Infer(fc); err == nil {
		t.Fatal("expected arity-mismatch error")
	}
}

func TestDriverCallInstantiatesReturnType(t *testing.T) {
	decls := newFakeDeclarations()
	decls.addFunction(FunctionSignature{
		Path:       fp("add"),
		Parameters: []node.TypeReference{u64Reference(), u64Reference()},
		Return:     u64Reference(),
	})

	fc := node.NewFunctionContext(fp("caller"), nil, nil, nil)
	left := fc.Alloc(node.IntegerLiteral{Value: 1})
	right := fc.Alloc(node.IntegerLiteral{Value: 2})
	call := fc.Alloc(node.Call{Function: fp("add"), Arguments: []node.ExpressionKey{left, right}})
	fc.Entry = call

	ctx, err := NewDriver(decls).Infer(fc)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	resolved, ok := ctx.Expression(call)
	if !ok {
		t.Fatal("missing call expression type")
	}
	if !resolved.Equal(Concrete(path.Structure(path.New(path.RootIntrinsic, nil, "u64")))) {
		t.Fatalf("expected u64, got %s", resolved)
	}
}

func TestDriverFieldAccessSecondPass(t *testing.T) {
	decls := newFakeDeclarations()
	point := path.Structure(path.New(path.RootCrate, nil, "Point"))
	decls.addStructure(StructureSignature{Path: point, Fields: map[string]node.TypeReference{
		"x": u64Reference(),
	}})

	fc := node.NewFunctionContext(fp("read_x"), nil, nil, nil)
	literal := fc.Alloc(node.StructureLiteral{Structure: point, Fields: map[string]node.ExpressionKey{
		"x": fc.Alloc(node.IntegerLiteral{Value: 9}),
	}})
	access := fc.Alloc(node.FieldAccess{Receiver: literal, Field: "x"})
	fc.Entry = access

	ctx, err := NewDriver(decls).Infer(fc)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	resolved, ok := ctx.Expression(access)
	if !ok {
		t.Fatal("missing field access type")
	}
	if !resolved.Equal(Concrete(path.Structure(path.New(path.RootIntrinsic, nil, "u64")))) {
		t.Fatalf("expected u64, got %s", resolved)
	}
}

func TestDriverFieldAccessUndefinedFieldFails(t *testing.T) {
	decls := newFakeDeclarations()
	point := path.Structure(path.New(path.RootCrate, nil, "Point"))
	decls.addStructure(StructureSignature{Path: point, Fields: map[string]node.TypeReference{
		"x": u64Reference(),
	}})

	fc := node.NewFunctionContext(fp("read_y"), nil, nil, nil)
	literal := fc.Alloc(node.StructureLiteral{Structure: point, Fields: map[string]node.ExpressionKey{
		"x": fc.Alloc(node.IntegerLiteral{Value: 9}),
	}})
	access := fc.Alloc(node.FieldAccess{Receiver: literal, Field: "y"})
	fc.Entry = access

	if _, err := NewDriver(decls).Infer(fc); err == nil {
		t.Fatal("expected undefined-field error")
	}
}

func TestDriverMethodCallSynthesisesReference(t *testing.T) {
	decls := newFakeDeclarations()
	point := path.Structure(path.New(path.RootCrate, nil, "Point"))
	decls.addStructure(StructureSignature{Path: point, Fields: map[string]node.TypeReference{"x": u64Reference()}})
	decls.addFunction(FunctionSignature{
		Path: fp("translate"),
		Parameters: []node.TypeReference{
			{Structure: path.Structure(ReferencePath), Arguments: []node.TypeReference{{Structure: point}}},
			u64Reference(),
		},
		Return: u64Reference(),
	})

	fc := node.NewFunctionContext(fp("caller"), nil, nil, nil)
	receiver := fc.Alloc(node.StructureLiteral{Structure: point, Fields: map[string]node.ExpressionKey{
		"x": fc.Alloc(node.IntegerLiteral{Value: 1}),
	}})
	delta := fc.Alloc(node.IntegerLiteral{Value: 2})
	call := fc.Alloc(node.Call{
		Function:       fp("translate"),
		Method:         true,
		MethodReceiver: receiver,
		Arguments:      []node.ExpressionKey{delta},
	})
	fc.Entry = call

	if _, err := NewDriver(decls).Infer(fc); err != nil {
		t.Fatalf("infer: %v", err)
	}
}

func TestDriverUndefinedVariableFails(t *testing.T) {
	fc := node.NewFunctionContext(fp("bad"), nil, nil, nil)
	entry := fc.Alloc(node.VariableRef{Variable: node.NewVariable("missing")})
	fc.Entry = entry

	if _, err := NewDriver(newFakeDeclarations()).Infer(fc); err == nil {
		t.Fatal("expected undefined-variable error")
	}
}

func ref(t node.TypeReference) *node.TypeReference { return &t }
