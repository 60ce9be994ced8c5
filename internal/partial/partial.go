// Package partial implements the compile-time call evaluator: a single
// forward scan over a function's expression arena that executes every
// Execution::Compile call against the evaluation runtime and installs the
// result as an Item literal in place (spec.md §4.4 "Partial evaluation").
package partial

import (
	"strconv"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/runtime"
)

// Evaluate walks fc's expression arena in ascending key order, replacing
// every Execution::Compile call's arena slot with the Item literal its
// execution produced (spec.md §4.4 steps 1-4; §5 "the expression arena is
// walked in ascending key order by the partial evaluator"). resolve looks
// up a callee's Entropic basic form, normally backed by
// internal/cache.Caches.BasicFunctions; types supplies the integer-literal
// widths inference already settled for fc.
//
// A single forward pass suffices: fc.Replace never introduces a new
// Compile-tagged call for a later key to find, since the replacement is
// always a plain Item literal.
func Evaluate(fc *node.FunctionContext, types *inference.TypeContext, resolve runtime.Resolver) error {
	e := &evaluator{
		fc:          fc,
		types:       types,
		resolve:     resolve,
		interpreter: runtime.New(resolve),
		bindings:    make(map[node.Variable]item.Item),
	}
	for _, key := range fc.Keys() {
		if err := e.visit(key); err != nil {
			return err
		}
	}
	return nil
}

type evaluator struct {
	fc          *node.FunctionContext
	types       *inference.TypeContext
	resolve     runtime.Resolver
	interpreter *runtime.Interpreter
	// bindings tracks every variable whose bound value turned out to be
	// compile-time available, populated opportunistically as Let
	// expressions are visited in ascending order; a Let whose value does
	// not resolve is simply left unrecorded, since most Lets are
	// legitimately runtime-valued.
	bindings map[node.Variable]item.Item
}

// visit inspects the expression at key, replacing it when it is an
// Execution::Compile call, and recording a Let's bound variable when its
// value happens to resolve at compile time.
func (e *evaluator) visit(key node.ExpressionKey) error {
	switch expr := e.fc.Expression(key).(type) {
	case node.Let:
		if value, ok, err := e.resolveItem(expr.Value); err == nil && ok {
			e.bindPattern(expr.Pattern, value)
		}
		return nil
	case node.Call:
		if expr.Execution != node.Compile {
			return nil
		}
		result, err := e.evalCall(expr)
		if err != nil {
			return err
		}
		e.fc.Replace(key, node.ItemLiteral{Value: result})
		return nil
	}
	return nil
}

// bindPattern destructures a compile-time value against a binding pattern,
// mirroring internal/basic.Lowerer.bindPattern's own tuple projection so
// the two passes agree on how a pattern's leaves line up with a value's
// elements.
func (e *evaluator) bindPattern(pattern node.BindingPattern, value item.Item) {
	switch pattern.Kind {
	case node.PatternWildcard:
		return
	case node.PatternTerminal:
		e.bindings[pattern.Terminal.Variable] = value
	case node.PatternTuple:
		for i, element := range pattern.Elements {
			field, ok := value.Field(strconv.Itoa(i))
			if !ok {
				return
			}
			e.bindPattern(element, field)
		}
	}
}

// evalCall assembles a Compile-tagged call's parameter tuple (the method
// receiver first, then arguments in order — the same order
// internal/basic.Lowerer.lowerCall assembles a CallRhs's Arguments) and
// executes the callee's Entropic basic form against it.
func (e *evaluator) evalCall(call node.Call) (item.Item, error) {
	var elements []item.Item
	if call.Method {
		receiver, ok, err := e.resolveItem(call.MethodReceiver)
		if err != nil {
			return item.Item{}, err
		}
		if !ok {
			return item.Item{}, runtimeExpressionError(call.Span())
		}
		elements = append(elements, receiver)
	}
	for _, argument := range call.Arguments {
		value, ok, err := e.resolveItem(argument)
		if err != nil {
			return item.Item{}, err
		}
		if !ok {
			return item.Item{}, runtimeExpressionError(call.Span())
		}
		elements = append(elements, value)
	}

	callee, err := e.resolve(call.Function, basic.Entropic)
	if err != nil {
		return item.Item{}, err
	}
	return e.interpreter.Run(callee, basic.Advance, item.NewTuple(elements...))
}

// resolveItem recursively resolves an expression to a compile-time value.
// ok is false when the expression genuinely depends on something only
// known at runtime (an unresolved variable, a Runtime-tagged call); err is
// non-nil only for a genuine evaluation failure (arithmetic overflow, a
// callee that itself failed), which must propagate rather than be
// mistaken for ordinary runtime-dependence.
func (e *evaluator) resolveItem(key node.ExpressionKey) (item.Item, bool, error) {
	switch expr := e.fc.Expression(key).(type) {
	case node.ItemLiteral:
		return expr.Value, true, nil
	case node.IntegerLiteral:
		width := item.Width64
		signed := expr.Signed
		if resolved, ok := e.types.Expression(key); ok {
			if w, s, ok2 := basic.IntegerWidth(resolved); ok2 {
				width, signed = w, s
			}
		}
		if signed {
			return item.NewSigned(int64(expr.Value), width), true, nil
		}
		return item.NewUnsigned(expr.Value, width), true, nil
	case node.TruthLiteral:
		return item.NewTruth(expr.Value), true, nil
	case node.VariableRef:
		value, ok := e.bindings[expr.Variable]
		return value, ok, nil
	case node.UnaryOp:
		operand, ok, err := e.resolveItem(expr.Operand)
		if err != nil || !ok {
			return item.Item{}, false, err
		}
		result, err := runtime.UnaryArithmetic(expr.Op, operand)
		if err != nil {
			return item.Item{}, false, err
		}
		return result, true, nil
	case node.BinaryOp:
		left, ok, err := e.resolveItem(expr.Left)
		if err != nil || !ok {
			return item.Item{}, false, err
		}
		right, ok, err := e.resolveItem(expr.Right)
		if err != nil || !ok {
			return item.Item{}, false, err
		}
		result, err := runtime.BinaryArithmetic(expr.Op, left, right)
		if err != nil {
			return item.Item{}, false, err
		}
		return result, true, nil
	case node.FieldAccess:
		receiver, ok, err := e.resolveItem(expr.Receiver)
		if err != nil || !ok {
			return item.Item{}, false, err
		}
		field, ok := receiver.Field(expr.Field)
		return field, ok, nil
	case node.StructureLiteral:
		fields := make(map[string]item.Item, len(expr.Fields))
		for name, fieldKey := range expr.Fields {
			value, ok, err := e.resolveItem(fieldKey)
			if err != nil || !ok {
				return item.Item{}, false, err
			}
			fields[name] = value
		}
		return item.NewInstance(expr.Structure.Name, fields), true, nil
	case node.Call:
		if expr.Execution != node.Compile {
			return item.Item{}, false, nil
		}
		result, err := e.evalCall(expr)
		if err != nil {
			return item.Item{}, false, err
		}
		return result, true, nil
	}
	return item.Item{}, false, nil
}

func runtimeExpressionError(span errors.Span) error {
	return errors.Wrap(errors.New("evaluation", errors.EVA001,
		"compile-time call argument is not available at compile time").At(span))
}
