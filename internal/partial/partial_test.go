package partial

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

func fnPath(name string) path.FunctionPath { return path.Function(path.New(path.RootCrate, nil, name)) }

func emptyTypes(t *testing.T) *inference.TypeContext {
	t.Helper()
	types, err := inference.NewEnvironment(inference.NewForest()).Finalize()
	if err != nil {
		t.Fatalf("finalize empty environment: %v", err)
	}
	return types
}

// constantBasicFunction builds a zero-argument Entropic basic function
// that returns 21 + 21, standing in for `fn k() -> u64 = 21 + 21` (spec.md
// §8 scenario 4).
func constantBasicFunction() *basic.BasicFunction {
	sum := node.NewVariable("sum")
	return &basic.BasicFunction{
		Nodes: []basic.BasicNode{{
			Statements: []basic.Statement{
				basic.NewBinding(errors.Span{}, sum, basic.BinaryOpRhs{
					Op:   "+",
					Left: basic.ItemValue(item.NewUnsigned(21, item.Width64)),
					Right: basic.ItemValue(item.NewUnsigned(21, item.Width64)),
				}),
			},
			Advance: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: sum})},
		}},
		Entry: 0,
		Exit:  0,
	}
}

// doublingBasicFunction builds a one-argument Entropic basic function that
// doubles its sole parameter.
func doublingBasicFunction() *basic.BasicFunction {
	result := node.NewVariable("result")
	paramsVar := node.Internal("params")
	return &basic.BasicFunction{
		Nodes: []basic.BasicNode{{
			Statements: []basic.Statement{
				basic.NewBinding(errors.Span{}, result, basic.BinaryOpRhs{
					Op:   "*",
					Left: basic.LocationValue(basic.Location{Variable: paramsVar}.WithField("0")),
					Right: basic.ItemValue(item.NewUnsigned(2, item.Width64)),
				}),
			},
			Advance: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: result})},
		}},
		Entry: 0,
		Exit:  0,
	}
}

// TestEvaluateReplacesCompileCallWithResult covers spec.md §8 scenario 4:
// `fn k() -> u64 = 21 + 21; caller: #k()` leaves the call site holding the
// Item literal 42.
func TestEvaluateReplacesCompileCallWithResult(t *testing.T) {
	fc := node.NewFunctionContext(fnPath("caller"), nil, nil, nil)
	callKey := fc.Alloc(node.Call{Function: fnPath("k"), Execution: node.Compile})
	fc.Entry = callKey

	resolve := func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		if p.String() != fnPath("k").String() {
			t.Fatalf("unexpected callee resolved: %s", p.String())
		}
		if reversibility != basic.Entropic {
			t.Fatalf("expected the callee to be resolved in Entropic mode, got %v", reversibility)
		}
		return constantBasicFunction(), nil
	}

	if err := Evaluate(fc, emptyTypes(t), resolve); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	literal, ok := fc.Expression(callKey).(node.ItemLiteral)
	if !ok {
		t.Fatalf("expected the call site to hold an ItemLiteral, got %T", fc.Expression(callKey))
	}
	got, _ := literal.Value.Unsigned()
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

// TestEvaluateFailsOnRuntimeArgument checks that a Compile-tagged call
// whose argument is not itself compile-time available fails with EVA001
// rather than being silently left in place (spec.md §4.4 step 1).
func TestEvaluateFailsOnRuntimeArgument(t *testing.T) {
	fc := node.NewFunctionContext(fnPath("caller"), nil, nil, nil)
	argKey := fc.Alloc(node.VariableRef{Variable: node.NewVariable("unbound")})
	callKey := fc.Alloc(node.Call{Function: fnPath("k"), Execution: node.Compile, Arguments: []node.ExpressionKey{argKey}})
	fc.Entry = callKey

	resolve := func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		return constantBasicFunction(), nil
	}

	err := Evaluate(fc, emptyTypes(t), resolve)
	if err == nil {
		t.Fatal("expected an error for a runtime-dependent compile-time call argument")
	}
	report, ok := errors.AsReport(err)
	if !ok {
		t.Fatalf("expected a structured report, got %v", err)
	}
	if report.Code != errors.EVA001 {
		t.Fatalf("expected EVA001, got %s", report.Code)
	}
}

// TestEvaluateTracksLetBindingsIntoLaterCompileCalls checks that a Let
// binding a compile-time value is available to a later Compile-tagged
// call's VariableRef argument.
func TestEvaluateTracksLetBindingsIntoLaterCompileCalls(t *testing.T) {
	fc := node.NewFunctionContext(fnPath("caller"), nil, nil, nil)
	n := node.NewVariable("n")

	literalKey := fc.Alloc(node.IntegerLiteral{Value: 5, Signed: false})
	fc.Alloc(node.Let{Pattern: node.Terminal(node.BindingVariable{Variable: n}), Value: literalKey})
	refKey := fc.Alloc(node.VariableRef{Variable: n})
	callKey := fc.Alloc(node.Call{Function: fnPath("double"), Execution: node.Compile, Arguments: []node.ExpressionKey{refKey}})
	fc.Entry = callKey

	resolve := func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		return doublingBasicFunction(), nil
	}

	if err := Evaluate(fc, emptyTypes(t), resolve); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	literal, ok := fc.Expression(callKey).(node.ItemLiteral)
	if !ok {
		t.Fatalf("expected the call site to hold an ItemLiteral, got %T", fc.Expression(callKey))
	}
	got, _ := literal.Value.Unsigned()
	if got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

// TestEvaluateIsIdempotent checks the fixed-point property (spec.md §8):
// after one pass no Execution::Compile call remains, so a second pass is
// a no-op.
func TestEvaluateIsIdempotent(t *testing.T) {
	fc := node.NewFunctionContext(fnPath("caller"), nil, nil, nil)
	callKey := fc.Alloc(node.Call{Function: fnPath("k"), Execution: node.Compile})
	fc.Entry = callKey

	calls := 0
	resolve := func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		calls++
		return constantBasicFunction(), nil
	}

	if err := Evaluate(fc, emptyTypes(t), resolve); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if err := Evaluate(fc, emptyTypes(t), resolve); err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the callee to be resolved exactly once across both passes, got %d", calls)
	}

	for _, key := range fc.Keys() {
		if call, ok := fc.Expression(key).(node.Call); ok && call.Execution == node.Compile {
			t.Fatalf("expected no remaining Execution::Compile call, found one at key %d", key)
		}
	}
}
