package runtime

import (
	"fmt"
	"strconv"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// Resolver looks up the basic form of a callee so the interpreter can step
// into function-call statements (spec.md §4.5 "A function-call statement
// pushes a new frame"). internal/partial and internal/declaration provide
// concrete implementations over the caches/registry.
type Resolver func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error)

// Interpreter steps BasicFunctions, maintaining one FunctionFrame per
// active call and a DropStack per frame for implicit-drop restoration on
// reversal (spec.md §4.5).
type Interpreter struct {
	resolve Resolver
}

// New creates an interpreter that resolves callees through resolve.
func New(resolve Resolver) *Interpreter { return &Interpreter{resolve: resolve} }

// Run executes fn in the given direction, starting from arguments bound
// into the parameter tuple variable "params" the lowering engine always
// installs, and returns the value reached at the function's return
// branch. direction == Advance runs forward from Entry to Exit; Reverse
// runs backward from Exit to Entry (spec.md §4.5 "Reverse step: symmetric").
// A fresh, empty DropStack backs this run; to actually reverse a specific
// prior Advance execution rather than merely type-check a Reverse run in
// isolation, use RunTrace with that execution's returned DropStack.
func (in *Interpreter) Run(fn *basic.BasicFunction, direction basic.Direction, params item.Item) (item.Item, error) {
	result, _, err := in.RunTrace(fn, direction, params, nil)
	return result, err
}

// RunTrace is Run with an explicit DropStack: pass nil to start empty (an
// ordinary Advance call), or pass the DropStack an earlier Advance call
// returned to drive the matching Reverse call, so Mutation and
// ImplicitDrop statements restore the exact values that run recorded
// (spec.md §4.5 "a DropStack records items removed by implicit drops so
// reversal can restore them"). Returns the DropStack as left after the
// run, which is empty again once a full Reverse unwind completes.
func (in *Interpreter) RunTrace(fn *basic.BasicFunction, direction basic.Direction, params item.Item, drops *DropStack) (item.Item, *DropStack, error) {
	frame := newFrame(fn, direction)
	frame.Set(node.Internal("params"), params)
	if drops == nil {
		drops = &DropStack{}
	}

	for {
		n := fn.Node(frame.Node)
		if frame.Statement >= 0 && frame.Statement < len(n.Statements) {
			stmt := n.Statements[frame.Statement]
			if err := in.step(frame, drops, stmt, direction); err != nil {
				return item.Item{}, drops, err
			}
			if direction == basic.Advance {
				frame.Statement++
			} else {
				frame.Statement--
			}
			continue
		}

		branch := n.Branch(direction)
		result, next, done, err := in.branch(frame, branch, direction)
		if err != nil {
			return item.Item{}, drops, err
		}
		if done {
			return result, drops, nil
		}
		frame.Node = next
		frame.Statement = entryStatement(fn.Node(next), direction)
	}
}

// step executes one Advance or Reverse statement. In Advance a Binding
// introduces a fresh value and an ImplicitDrop removes one, pushing it
// onto the drop stack; in Reverse a Mutation's effect is undone and a
// previously-recorded drop is restored (spec.md §4.5, §9 "Inverting
// statement order on drop"). Run steps a node's statements back to front
// when reversing, so undoes land in the same LIFO order the DropStack
// recorded them in; a node the lowering engine's invert() physically
// reversed gets that cancelled back out, replaying in the order its
// construction code intended.
func (in *Interpreter) step(frame *FunctionFrame, drops *DropStack, stmt basic.Statement, direction basic.Direction) error {
	switch s := stmt.(type) {
	case basic.Binding:
		if direction == basic.Advance {
			value, err := in.evalRhs(frame, s.Rhs)
			if err != nil {
				return err
			}
			frame.Set(s.Variable, value)
			return nil
		}
		if call, ok := s.Rhs.(basic.CallRhs); ok {
			if err := in.uncall(frame, s.Variable, call); err != nil {
				return err
			}
		}
		delete(frame.Values, s.Variable)
		return nil

	case basic.Mutation:
		if direction == basic.Advance {
			previous, _ := in.read(frame, basic.LocationValue(s.Target))
			drops.Push(s.Target.Variable, previous)
			value, err := in.resolveValue(frame, s.Value)
			if err != nil {
				return err
			}
			return in.write(frame, s.Target, value)
		}
		entry, ok := drops.Pop()
		if !ok {
			return fatalError("reverse mutation with no matching recorded prior value")
		}
		return in.write(frame, s.Target, entry.Value)

	case basic.ImplicitDrop:
		if direction == basic.Advance {
			value, ok := frame.Get(s.Variable)
			if !ok {
				value = item.NewUninitialised()
			}
			drops.Push(s.Variable, value)
			delete(frame.Values, s.Variable)
			return nil
		}
		entry, ok := drops.Pop()
		if !ok {
			return fatalError("reverse implicit-drop with no matching recorded value")
		}
		frame.Set(entry.Variable, entry.Value)
		return nil
	}
	return fatalError(fmt.Sprintf("unhandled statement kind %T", stmt))
}

// evalRhs evaluates a Binding's right-hand side, including a call that
// recurses into the interpreter for the callee's basic form.
func (in *Interpreter) evalRhs(frame *FunctionFrame, rhs basic.Rhs) (item.Item, error) {
	switch r := rhs.(type) {
	case basic.ValueRhs:
		return in.resolveValue(frame, r.Value)
	case basic.UnaryOpRhs:
		operand, err := in.resolveValue(frame, r.Operand)
		if err != nil {
			return item.Item{}, err
		}
		return UnaryArithmetic(r.Op, operand)
	case basic.BinaryOpRhs:
		left, err := in.resolveValue(frame, r.Left)
		if err != nil {
			return item.Item{}, err
		}
		right, err := in.resolveValue(frame, r.Right)
		if err != nil {
			return item.Item{}, err
		}
		return BinaryArithmetic(r.Op, left, right)
	case basic.TupleRhs:
		elements := make([]item.Item, len(r.Elements))
		for i, v := range r.Elements {
			value, err := in.resolveValue(frame, v)
			if err != nil {
				return item.Item{}, err
			}
			elements[i] = value
		}
		return item.NewTuple(elements...), nil
	case basic.StructureLiteralRhs:
		fields := make(map[string]item.Item, len(r.Fields))
		for name, v := range r.Fields {
			value, err := in.resolveValue(frame, v)
			if err != nil {
				return item.Item{}, err
			}
			fields[name] = value
		}
		return item.NewInstance(r.Structure.Name, fields), nil
	case basic.CallRhs:
		return in.call(frame, r)
	}
	return item.Item{}, fatalError(fmt.Sprintf("unhandled rhs kind %T", rhs))
}

// call steps into a callee's basic form, per spec.md §4.5's advance-step
// contract for function-call statements.
func (in *Interpreter) call(frame *FunctionFrame, r basic.CallRhs) (item.Item, error) {
	if in.resolve == nil {
		return item.Item{}, fatalError("call encountered with no resolver configured")
	}
	callee, err := in.resolve(r.Function, basic.Entropic)
	if err != nil {
		return item.Item{}, err
	}
	arguments := make([]item.Item, len(r.Arguments))
	for i, v := range r.Arguments {
		value, err := in.resolveValue(frame, v)
		if err != nil {
			return item.Item{}, err
		}
		arguments[i] = value
	}
	return in.Run(callee, basic.Advance, item.NewTuple(arguments...))
}

// uncall reverses into the callee that produced the value bound at
// variable, restoring each argument location from the resulting tuple
// (spec.md §4.5 "the return item must be a tuple instance whose fields
// correspond to the original argument locations"). The callee is resolved
// in its reversible form, since only that form installs the Entry node's
// Reverse branch returning the original parameter tuple (internal/basic's
// lowering engine, CallRhs forward evaluation uses Entropic instead).
func (in *Interpreter) uncall(frame *FunctionFrame, variable node.Variable, call basic.CallRhs) error {
	if in.resolve == nil {
		return fatalError("call encountered with no resolver configured")
	}
	result, ok := frame.Get(variable)
	if !ok {
		return fatalError(fmt.Sprintf("reverse call with no recorded result for %s", variable.Name))
	}
	callee, err := in.resolve(call.Function, basic.Reversible)
	if err != nil {
		return err
	}
	arguments, err := in.Run(callee, basic.Reverse, result)
	if err != nil {
		return err
	}
	for i, target := range call.Arguments {
		if target.Kind != basic.ValueLocation {
			continue
		}
		field, ok := arguments.Field(strconv.Itoa(i))
		if !ok {
			return fatalError(fmt.Sprintf("reversed call result missing argument %d", i))
		}
		if err := in.write(frame, target.Location, field); err != nil {
			return err
		}
	}
	return nil
}

// branch follows a node's terminal control transfer.
func (in *Interpreter) branch(frame *FunctionFrame, b basic.Branch, direction basic.Direction) (item.Item, basic.NodeTarget, bool, error) {
	switch br := b.(type) {
	case basic.ReturnBranch:
		value, err := in.resolveValue(frame, br.Value)
		return value, 0, true, err
	case basic.JumpBranch:
		return item.Item{}, br.Target, false, nil
	case basic.DivergenceBranch:
		discriminant, err := in.resolveValue(frame, br.Discriminant)
		if err != nil {
			return item.Item{}, 0, false, err
		}
		for _, c := range br.Cases {
			if discriminant.Equal(c.Match) {
				return item.Item{}, c.Target, false, nil
			}
		}
		return item.Item{}, br.Default, false, nil
	case basic.UnreachableBranch:
		return item.Item{}, 0, false, fatalError("reached an unreachable branch")
	case nil:
		return item.Item{}, 0, false, fatalError("stepped past a node with no branch installed for this direction")
	}
	return item.Item{}, 0, false, fatalError(fmt.Sprintf("unhandled branch kind %T", b))
}

func (in *Interpreter) resolveValue(frame *FunctionFrame, v basic.Value) (item.Item, error) {
	return in.read(frame, v)
}

func (in *Interpreter) read(frame *FunctionFrame, v basic.Value) (item.Item, error) {
	if v.Kind == basic.ValueItem {
		return v.Item, nil
	}
	value, ok := frame.Get(v.Location.Variable)
	if !ok {
		return item.Item{}, fatalError(fmt.Sprintf("read of unbound variable %s", v.Location.Variable.Name))
	}
	for _, proj := range v.Location.Projections {
		switch proj.Kind {
		case basic.ProjectField:
			field, ok := value.Field(proj.Field)
			if !ok {
				return item.Item{}, fatalError(fmt.Sprintf("field %q not present on value", proj.Field))
			}
			value = field
		case basic.ProjectDereference:
			// References are transparent at runtime: the referent is the
			// same Item as the reference itself (spec.md §4.2 "reference
			// synthesis" needs no separate boxed representation here).
		}
	}
	return value, nil
}

func (in *Interpreter) write(frame *FunctionFrame, target basic.Location, value item.Item) error {
	if len(target.Projections) == 0 {
		frame.Set(target.Variable, value)
		return nil
	}
	root, ok := frame.Get(target.Variable)
	if !ok {
		return fatalError(fmt.Sprintf("write through unbound variable %s", target.Variable.Name))
	}
	updated, err := writeProjected(root, target.Projections, value)
	if err != nil {
		return err
	}
	frame.Set(target.Variable, updated)
	return nil
}

// writeProjected rebuilds root with value written at the end of
// projections, copying each Instance on the path (spec.md §4.5 via
// item.Item.WithField's copy-on-write discipline).
func writeProjected(root item.Item, projections []basic.Projection, value item.Item) (item.Item, error) {
	if len(projections) == 0 {
		return value, nil
	}
	head := projections[0]
	switch head.Kind {
	case basic.ProjectField:
		child, ok := root.Field(head.Field)
		if !ok {
			return item.Item{}, fatalError(fmt.Sprintf("field %q not present on value", head.Field))
		}
		updatedChild, err := writeProjected(child, projections[1:], value)
		if err != nil {
			return item.Item{}, err
		}
		return root.WithField(head.Field, updatedChild), nil
	case basic.ProjectDereference:
		return writeProjected(root, projections[1:], value)
	}
	return item.Item{}, fatalError("unknown projection kind")
}

func fatalError(message string) error {
	return errors.Wrap(errors.New("evaluation", errors.EVA003, message))
}
