package runtime

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

func paramsVar() node.Variable { return node.Internal("params") }

func noSpan() errors.Span { return errors.Span{} }

// TestRunAddsTwoParameters builds a two-node function equivalent to
// `fn add(a: u64, b: u64) -> u64 = a + b` directly at the basic-IR level
// and checks the interpreter's advance step evaluates it.
func TestRunAddsTwoParameters(t *testing.T) {
	a := node.NewVariable("a")
	b := node.NewVariable("b")
	sum := node.NewVariable("sum")

	fn := &basic.BasicFunction{
		Path: path.Function(path.New(path.RootCrate, nil, "add")),
		Nodes: []basic.BasicNode{
			{
				Statements: []basic.Statement{
					basic.NewBinding(noSpan(), a, basic.ValueRhs{Value: basic.LocationValue(
						basic.Location{Variable: paramsVar()}.WithField("0"))}),
					basic.NewBinding(noSpan(), b, basic.ValueRhs{Value: basic.LocationValue(
						basic.Location{Variable: paramsVar()}.WithField("1"))}),
					basic.NewBinding(noSpan(), sum, basic.BinaryOpRhs{
						Op:   "+",
						Left: basic.LocationValue(basic.Location{Variable: a}),
						Right: basic.LocationValue(basic.Location{Variable: b}),
					}),
				},
				Advance: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: sum})},
			},
		},
		Entry: 0,
		Exit:  0,
	}

	in := New(nil)
	result, err := in.Run(fn, basic.Advance, item.NewTuple(item.NewUnsigned(3, item.Width64), item.NewUnsigned(4, item.Width64)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, _ := result.Unsigned()
	if got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

// TestRunFollowsDivergence builds a two-branch divergence over a boolean
// discriminant and checks both cases are followed correctly.
func TestRunFollowsDivergence(t *testing.T) {
	trueExit := node.NewVariable("true_result")
	falseExit := node.NewVariable("false_result")

	fn := &basic.BasicFunction{
		Nodes: []basic.BasicNode{
			{
				Advance: basic.DivergenceBranch{
					Discriminant: basic.LocationValue(basic.Location{Variable: paramsVar()}.WithField("0")),
					Cases:        []basic.DivergenceCase{{Match: item.NewTruth(true), Target: 1}},
					Default:      2,
				},
			},
			{
				Statements: []basic.Statement{
					basic.NewBinding(noSpan(), trueExit, basic.ValueRhs{Value: basic.ItemValue(item.NewUnsigned(1, item.Width64))}),
				},
				Advance: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: trueExit})},
			},
			{
				Statements: []basic.Statement{
					basic.NewBinding(noSpan(), falseExit, basic.ValueRhs{Value: basic.ItemValue(item.NewUnsigned(0, item.Width64))}),
				},
				Advance: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: falseExit})},
			},
		},
		Entry: 0,
		Exit:  0,
	}

	in := New(nil)

	result, err := in.Run(fn, basic.Advance, item.NewTuple(item.NewTruth(true)))
	if err != nil {
		t.Fatalf("run (true branch): %v", err)
	}
	got, _ := result.Unsigned()
	if got != 1 {
		t.Fatalf("expected the true-branch result 1, got %d", got)
	}

	result, err = in.Run(fn, basic.Advance, item.NewTuple(item.NewTruth(false)))
	if err != nil {
		t.Fatalf("run (false branch): %v", err)
	}
	got, _ = result.Unsigned()
	if got != 0 {
		t.Fatalf("expected the false-branch result 0, got %d", got)
	}
}

// TestReverseCallRestoresArgumentLocations covers spec.md §4.5 "When
// reversing into a function call, the return item must be a tuple
// instance whose fields correspond to the original argument locations;
// restoring writes each field back into its source variable." It drives
// step() directly in Reverse over a Binding/CallRhs statement, with the
// call's bound variable already holding the stored result tuple (as it
// would after the matching forward call ran), and checks that reversing
// it resolves the callee's Reversible form and writes each tuple field
// back to the caller's original argument variables.
func TestReverseCallRestoresArgumentLocations(t *testing.T) {
	calleePath := path.Function(path.New(path.RootCrate, nil, "swap"))
	calleeFn := &basic.BasicFunction{
		Path:          calleePath,
		Reversibility: basic.Reversible,
		Nodes: []basic.BasicNode{
			{Reverse: basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: paramsVar()})}},
		},
		Entry: 0,
		Exit:  0,
	}

	var resolvedWith basic.Reversibility
	resolver := func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		if !p.Equal(calleePath.DeclarationPath) {
			t.Fatalf("unexpected callee path %v", p)
		}
		resolvedWith = reversibility
		return calleeFn, nil
	}

	a := node.NewVariable("a")
	b := node.NewVariable("b")
	callResult := node.NewVariable("call_result")

	frame := &FunctionFrame{Values: map[node.Variable]item.Item{
		a:          item.NewUnsigned(5, item.Width64),
		b:          item.NewUnsigned(9, item.Width64),
		callResult: item.NewTuple(item.NewUnsigned(50, item.Width64), item.NewUnsigned(90, item.Width64)),
	}}

	stmt := basic.NewBinding(noSpan(), callResult, basic.CallRhs{
		Function: calleePath,
		Arguments: []basic.Value{
			basic.LocationValue(basic.Location{Variable: a}),
			basic.LocationValue(basic.Location{Variable: b}),
		},
	})

	in := New(resolver)
	if err := in.step(frame, &DropStack{}, stmt, basic.Reverse); err != nil {
		t.Fatalf("reverse step: %v", err)
	}
	if resolvedWith != basic.Reversible {
		t.Fatalf("expected the callee to be resolved in Reversible mode, got %v", resolvedWith)
	}

	gotA, _ := frame.Values[a].Unsigned()
	if gotA != 50 {
		t.Fatalf("expected argument a restored to 50, got %d", gotA)
	}
	gotB, _ := frame.Values[b].Unsigned()
	if gotB != 90 {
		t.Fatalf("expected argument b restored to 90, got %d", gotB)
	}
	if _, ok := frame.Values[callResult]; ok {
		t.Fatal("expected the call's result binding to be removed after reversal")
	}
}

// TestMutationReversalUndoesInLIFOOrder runs two Mutations to the same
// variable forward, then replays their node in Reverse with the Advance
// run's DropStack. Undoing them in the wrong order would leave the
// variable holding the first Mutation's target value (2) instead of its
// original value (1); only popping the DropStack last-pushed-first gives
// back the value that was live before either Mutation ran.
func TestMutationReversalUndoesInLIFOOrder(t *testing.T) {
	x := node.NewVariable("x")

	bindX := basic.NewBinding(noSpan(), x, basic.ValueRhs{Value: basic.ItemValue(item.NewUnsigned(1, item.Width64))})
	mutateTo2 := basic.NewMutation(noSpan(), basic.Location{Variable: x}, basic.ItemValue(item.NewUnsigned(2, item.Width64)))
	mutateTo3 := basic.NewMutation(noSpan(), basic.Location{Variable: x}, basic.ItemValue(item.NewUnsigned(3, item.Width64)))

	fn := &basic.BasicFunction{
		Nodes: []basic.BasicNode{
			{
				Statements: []basic.Statement{bindX},
				Advance:    basic.JumpBranch{Target: 1},
				Reverse:    basic.UnreachableBranch{},
			},
			{
				Statements: []basic.Statement{mutateTo2, mutateTo3},
				Advance:    basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: x})},
				Reverse:    basic.ReturnBranch{Value: basic.LocationValue(basic.Location{Variable: x})},
			},
		},
		Entry: 0,
		Exit:  1,
	}

	in := New(nil)
	forward, drops, err := in.RunTrace(fn, basic.Advance, item.NewUnit(), nil)
	if err != nil {
		t.Fatalf("advance run: %v", err)
	}
	got, _ := forward.Unsigned()
	if got != 3 {
		t.Fatalf("expected 3 after both mutations, got %d", got)
	}

	reversed, drops, err := in.RunTrace(fn, basic.Reverse, item.NewUnit(), drops)
	if err != nil {
		t.Fatalf("reverse run: %v", err)
	}
	got, _ = reversed.Unsigned()
	if got != 1 {
		t.Fatalf("expected both mutations undone back to 1, got %d", got)
	}
	if drops.Len() != 0 {
		t.Fatalf("expected the drop stack fully unwound, got %d entries left", drops.Len())
	}
}
