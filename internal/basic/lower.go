package basic

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
)

// Lowerer consumes a typed node.FunctionContext and produces a
// BasicFunction honouring a reversibility mode (spec.md §4.3 "the heart").
// One Lowerer belongs to exactly one function's lowering pass.
type Lowerer struct {
	builder       *Builder
	fc            *node.FunctionContext
	types         *inference.TypeContext
	reversibility Reversibility
	frames        []frame
}

type frame struct {
	bindings []node.Variable
}

// Lower produces the flattened BasicFunction for fc under the given
// reversibility mode, using the TypeContext the inference driver already
// computed for it.
func Lower(fc *node.FunctionContext, types *inference.TypeContext, reversibility Reversibility) (*BasicFunction, error) {
	l := &Lowerer{
		builder:       NewBuilder(reversibility),
		fc:            fc,
		types:         types,
		reversibility: reversibility,
	}
	l.pushFrame()

	entrySpan := fc.Expression(fc.Entry).Span()
	paramsVar := node.Internal("params")
	preamble := l.builder.component()
	for i, parameter := range fc.Parameters {
		element := LocationValue(Location{Variable: paramsVar}.WithField(strconv.Itoa(i)))
		preamble = l.bindPattern(parameter, element, preamble, entrySpan)
	}

	bodyValue, bodyComp, err := l.lowerExpression(fc.Entry)
	if err != nil {
		return nil, err
	}

	whole := l.builder.join(preamble, bodyComp, errors.Span{})
	whole = l.popFrame(whole, bodyValue, errors.Span{})

	l.builder.node(whole.Exit).SetBranch(Advance, ReturnBranch{Value: bodyValue})
	if reversibility == Reversible {
		l.builder.node(whole.Entry).SetBranch(Reverse, ReturnBranch{Value: LocationValue(Location{Variable: paramsVar})})
	}

	nodes := l.builder.Flatten(whole.Entry, whole.Exit)
	entry, exit := l.builder.EntryExit()
	return &BasicFunction{
		Path:          fc.Path,
		Reversibility: reversibility,
		Nodes:         nodes,
		Entry:         entry,
		Exit:          exit,
	}, nil
}

func (l *Lowerer) pushFrame() { l.frames = append(l.frames, frame{}) }

func (l *Lowerer) recordBinding(v node.Variable) {
	top := &l.frames[len(l.frames)-1]
	top.bindings = append(top.bindings, v)
}

// popFrame closes the current frame, synthesising ImplicitDrop statements
// in reversible mode for every variable still live — except the one
// escaping as kept's root variable, if any (spec.md §4.3.4).
func (l *Lowerer) popFrame(c Component, kept Value, span errors.Span) Component {
	top := l.frames[len(l.frames)-1]
	l.frames = l.frames[:len(l.frames)-1]
	if l.reversibility != Reversible {
		return c
	}
	var keptVariable node.Variable
	hasKept := kept.Kind == ValueLocation && len(kept.Location.Projections) == 0
	if hasKept {
		keptVariable = kept.Location.Variable
	}
	for i := len(top.bindings) - 1; i >= 0; i-- {
		v := top.bindings[i]
		if hasKept && v.Equal(keptVariable) {
			continue
		}
		c = l.pushStmt(c, NewImplicitDrop(span, v))
	}
	return c
}

// pushStmt pushes a statement through the builder and records Binding
// variables in the current frame for implicit-drop tracking.
func (l *Lowerer) pushStmt(c Component, stmt Statement) Component {
	c = l.builder.push(c, stmt)
	if b, ok := stmt.(Binding); ok {
		l.recordBinding(b.Variable)
	}
	return c
}

func (l *Lowerer) fresh(hint string) node.Variable { return l.fc.FreshVariable(hint) }

// bindPattern recursively binds every leaf of a binding pattern from an
// already-lowered value, projecting tuple elements as needed.
func (l *Lowerer) bindPattern(pattern node.BindingPattern, value Value, c Component, span errors.Span) Component {
	switch pattern.Kind {
	case node.PatternWildcard:
		return c
	case node.PatternTerminal:
		return l.pushStmt(c, NewBinding(span, pattern.Terminal.Variable, ValueRhs{Value: value}))
	case node.PatternTuple:
		for i, element := range pattern.Elements {
			c = l.bindPattern(element, l.project(value, i), c, span)
		}
		return c
	}
	return c
}

// project extracts the i-th tuple element of an already-lowered value.
func (l *Lowerer) project(value Value, index int) Value {
	if value.Kind == ValueItem {
		return ItemValue(value.Item.Elements()[index])
	}
	return LocationValue(value.Location.WithField(strconv.Itoa(index)))
}

func valueLocation(v Value) (Location, bool) {
	if v.Kind != ValueLocation {
		return Location{}, false
	}
	return v.Location, true
}

// lowerExpression dispatches one arena entry to its variant-specific
// lowering, implementing the (Value, Component) contract of spec.md §4.3.1.
func (l *Lowerer) lowerExpression(key node.ExpressionKey) (Value, Component, error) {
	switch e := l.fc.Expression(key).(type) {
	case node.Block:
		return l.lowerBlock(e)
	case node.Let:
		return l.lowerLet(e)
	case node.Loop:
		return l.lowerLoop(e)
	case node.Conditional:
		return l.lowerConditional(e)
	case node.Mutation:
		return l.lowerMutation(e)
	case node.Drop:
		return l.lowerDrop(e)
	case node.FieldAccess:
		return l.lowerFieldAccess(key, e)
	case node.Call:
		return l.lowerCall(e)
	case node.UnaryOp:
		return l.lowerUnaryOp(e)
	case node.BinaryOp:
		return l.lowerBinaryOp(e)
	case node.StructureLiteral:
		return l.lowerStructureLiteral(e)
	case node.Match:
		return l.lowerMatch(e)
	case node.VariableRef:
		return LocationValue(Location{Variable: e.Variable}), l.builder.component(), nil
	case node.IntegerLiteral:
		return l.lowerIntegerLiteral(key, e)
	case node.TruthLiteral:
		return ItemValue(item.NewTruth(e.Value)), l.builder.component(), nil
	case node.ItemLiteral:
		return ItemValue(e.Value), l.builder.component(), nil
	default:
		return Value{}, Component{}, errors.Wrap(errors.New("evaluation", errors.EVA003,
			fmt.Sprintf("lowering: unhandled expression variant %T", e)))
	}
}

func (l *Lowerer) lowerBlock(e node.Block) (Value, Component, error) {
	l.pushFrame()
	comp := l.builder.component()
	value := ItemValue(item.NewUnit())
	for _, child := range e.Expressions {
		childValue, childComp, err := l.lowerExpression(child)
		if err != nil {
			return Value{}, Component{}, err
		}
		comp = l.builder.join(comp, childComp, e.Span())
		value = childValue
	}
	comp = l.popFrame(comp, value, e.Span())
	return value, comp, nil
}

func (l *Lowerer) lowerLet(e node.Let) (Value, Component, error) {
	value, comp, err := l.lowerExpression(e.Value)
	if err != nil {
		return Value{}, Component{}, err
	}
	comp = l.bindPattern(e.Pattern, value, comp, e.Span())
	return ItemValue(item.NewUnit()), comp, nil
}

// lowerLoop lowers the termination loop: Ce gates advance into the body
// or out to exit; the body jumps back to the Ce check (spec.md §4.3.3
// "Termination loop"). In reversible mode without an explicit Cs, a
// counter is synthesised, incremented once per body iteration, and
// Cs := counter == 0 drives the mirrored reverse divergence installed at
// a separately-lowered (and inverted) start check.
func (l *Lowerer) lowerLoop(e node.Loop) (Value, Component, error) {
	endValue, endComp, err := l.lowerExpression(e.End)
	if err != nil {
		return Value{}, Component{}, err
	}
	_, bodyComp, err := l.lowerExpression(e.Body)
	if err != nil {
		return Value{}, Component{}, err
	}

	exitComp := l.builder.component()
	l.builder.divergence(Advance, endComp.Exit, endValue,
		[]DivergenceCase{{Match: item.NewTruth(true), Target: exitComp.Entry}}, bodyComp.Entry)

	var preamble Component
	hasPreamble := false
	synthesizeStart := e.Start == nil
	var counterVar node.Variable
	if synthesizeStart && l.reversibility == Reversible {
		counterVar = l.fresh("loop_counter")
		preamble = l.builder.component()
		preamble = l.pushStmt(preamble, NewBinding(e.Span(), counterVar, ValueRhs{Value: ItemValue(item.NewUnsigned(0, item.Width64))}))
		hasPreamble = true

		increment := l.fresh("loop_increment")
		bodyComp = l.pushStmt(bodyComp, NewBinding(e.Span(), increment, BinaryOpRhs{
			Op: "+", Left: LocationValue(Location{Variable: counterVar}), Right: ItemValue(item.NewUnsigned(1, item.Width64)),
		}))
		bodyComp = l.pushStmt(bodyComp, NewMutation(e.Span(), Location{Variable: counterVar}, LocationValue(Location{Variable: increment})))
	}
	l.builder.link(Advance, bodyComp.Exit, endComp.Entry, e.Span())

	nodes := append(append(append([]NodeTarget{}, endComp.Nodes...), bodyComp.Nodes...), exitComp.Nodes...)
	loop := Component{Entry: endComp.Entry, Exit: exitComp.Entry, Nodes: nodes}
	if hasPreamble {
		loop = l.builder.join(preamble, loop, e.Span())
	}

	if l.reversibility == Reversible {
		var startValue Value
		var startComp Component
		if e.Start != nil {
			startValue, startComp, err = l.lowerExpression(*e.Start)
			if err != nil {
				return Value{}, Component{}, err
			}
		} else {
			startComp = l.builder.component()
			eqVar := l.fresh("loop_start_eq")
			startComp = l.pushStmt(startComp, NewBinding(e.Span(), eqVar, BinaryOpRhs{
				Op: "==", Left: LocationValue(Location{Variable: counterVar}), Right: ItemValue(item.NewUnsigned(0, item.Width64)),
			}))
			startValue = LocationValue(Location{Variable: eqVar})
		}
		startComp = l.builder.invert(startComp)

		// Reverse: exit -> start; start decides Cs true (before the first
		// iteration, continue reversing out past the loop) or Cs false
		// (one more iteration to undo, back into the body).
		l.builder.link(Reverse, loop.Exit, startComp.Entry, e.Span())
		l.builder.divergence(Reverse, startComp.Exit, startValue,
			[]DivergenceCase{{Match: item.NewTruth(true), Target: loop.Entry}}, bodyComp.Exit)
		l.builder.link(Reverse, bodyComp.Entry, startComp.Entry, e.Span())

		loop.Nodes = append(loop.Nodes, startComp.Nodes...)
	}

	return ItemValue(item.NewUnit()), loop, nil
}

// lowerConditional lowers a branch chain: each branch's Cs gates advance
// into its body or fallthrough to the next branch, the last falling
// through to an UnreachableBranch (spec.md §4.3.3 "Conditional" — callers
// are expected to have proven the chain exhaustive). In reversible mode
// every body is tagged with its branch index into one shared discriminator
// variable, and a single reverse divergence at the shared exit dispatches
// on that index; a branch's own Ce, when present, only ever gates its
// forward entry and plays no further role, since the index alone already
// identifies which body ran.
func (l *Lowerer) lowerConditional(e node.Conditional) (Value, Component, error) {
	resultVar := l.fresh("cond_result")
	var discriminatorVar node.Variable
	if l.reversibility == Reversible {
		discriminatorVar = l.fresh("cond_tag")
	}

	type loweredBranch struct {
		start      Component
		startValue Value
		body       Component
	}
	branches := make([]loweredBranch, len(e.Branches))
	for i, br := range e.Branches {
		startValue, startComp, err := l.lowerExpression(br.Start)
		if err != nil {
			return Value{}, Component{}, err
		}
		bodyValue, bodyComp, err := l.lowerExpression(br.Body)
		if err != nil {
			return Value{}, Component{}, err
		}
		if l.reversibility == Reversible {
			bodyComp = l.pushStmt(bodyComp, NewBinding(e.Span(), discriminatorVar,
				ValueRhs{Value: ItemValue(item.NewUnsigned(uint64(i), item.Width64))}))
		}
		bodyComp = l.pushStmt(bodyComp, NewBinding(e.Span(), resultVar, ValueRhs{Value: bodyValue}))
		branches[i] = loweredBranch{start: startComp, startValue: startValue, body: bodyComp}
	}

	exit := l.builder.component()
	unreachable := l.builder.component()
	l.builder.node(unreachable.Entry).SetBranch(Advance, UnreachableBranch{})

	for i := len(branches) - 1; i >= 0; i-- {
		b := branches[i]
		fallback := unreachable.Entry
		if i+1 < len(branches) {
			fallback = branches[i+1].start.Entry
		}
		l.builder.divergence(Advance, b.start.Exit, b.startValue,
			[]DivergenceCase{{Match: item.NewTruth(true), Target: b.body.Entry}}, fallback)
		l.builder.link(Advance, b.body.Exit, exit.Entry, e.Span())
	}

	nodes := []NodeTarget{exit.Entry, unreachable.Entry}
	for _, b := range branches {
		nodes = append(nodes, b.start.Nodes...)
		nodes = append(nodes, b.body.Nodes...)
	}
	cond := Component{Entry: branches[0].start.Entry, Exit: exit.Entry, Nodes: nodes}

	if l.reversibility == Reversible {
		cases := make([]DivergenceCase, len(branches))
		for i, b := range branches {
			cases[i] = DivergenceCase{Match: item.NewUnsigned(uint64(i), item.Width64), Target: b.body.Exit}
			l.builder.link(Reverse, b.body.Entry, cond.Entry, e.Span())
		}
		l.builder.divergence(Reverse, exit.Entry, LocationValue(Location{Variable: discriminatorVar}), cases, cond.Entry)
	}

	return LocationValue(Location{Variable: resultVar}), cond, nil
}

// lowerMatch lowers a match expression to a sequential divergence chain:
// each arm's guard (or an unconditional match, for the first unguarded
// arm) gates entry to its body; field/tuple patterns bind from
// projections of the scrutinee. Reversibility uses the same shared-index
// discriminator technique as Conditional (spec.md §4.3, §10 "Supplemental:
// match lowering" — recovered from original_source/, not required by the
// core spec, so full nominal-tag dispatch is left to code generation).
func (l *Lowerer) lowerMatch(e node.Match) (Value, Component, error) {
	scrutinee, comp, err := l.lowerExpression(e.Scrutinee)
	if err != nil {
		return Value{}, Component{}, err
	}
	resultVar := l.fresh("match_result")
	var discriminatorVar node.Variable
	if l.reversibility == Reversible {
		discriminatorVar = l.fresh("match_tag")
	}

	type loweredArm struct {
		guard      Component
		guardValue Value
		body       Component
	}
	arms := make([]loweredArm, len(e.Arms))
	for i, arm := range e.Arms {
		guard := l.builder.component()
		if arm.Discriminant != nil {
			for name, pattern := range arm.Fields {
				if pattern.Kind == node.PatternTerminal {
					guard = l.pushStmt(guard, NewBinding(e.Span(), pattern.Terminal,
						ValueRhs{Value: l.fieldOf(scrutinee, name)}))
				}
			}
		} else {
			for index, pattern := range arm.Tuple {
				if pattern.Kind == node.PatternTerminal {
					guard = l.pushStmt(guard, NewBinding(e.Span(), pattern.Terminal,
						ValueRhs{Value: l.project(scrutinee, index)}))
				}
			}
		}

		guardValue := ItemValue(item.NewTruth(true))
		if arm.Guard != nil {
			var guardValueComp Component
			guardValue, guardValueComp, err = l.lowerExpression(*arm.Guard)
			if err != nil {
				return Value{}, Component{}, err
			}
			guard = l.builder.join(guard, guardValueComp, e.Span())
		}

		bodyValue, bodyComp, err := l.lowerExpression(arm.Body)
		if err != nil {
			return Value{}, Component{}, err
		}
		if l.reversibility == Reversible {
			bodyComp = l.pushStmt(bodyComp, NewBinding(e.Span(), discriminatorVar,
				ValueRhs{Value: ItemValue(item.NewUnsigned(uint64(i), item.Width64))}))
		}
		bodyComp = l.pushStmt(bodyComp, NewBinding(e.Span(), resultVar, ValueRhs{Value: bodyValue}))

		arms[i] = loweredArm{guard: guard, guardValue: guardValue, body: bodyComp}
	}

	exit := l.builder.component()
	unreachable := l.builder.component()
	l.builder.node(unreachable.Entry).SetBranch(Advance, UnreachableBranch{})

	for i := len(arms) - 1; i >= 0; i-- {
		a := arms[i]
		fallback := unreachable.Entry
		if i+1 < len(arms) {
			fallback = arms[i+1].guard.Entry
		}
		l.builder.divergence(Advance, a.guard.Exit, a.guardValue,
			[]DivergenceCase{{Match: item.NewTruth(true), Target: a.body.Entry}}, fallback)
		l.builder.link(Advance, a.body.Exit, exit.Entry, e.Span())
	}

	chainNodes := []NodeTarget{exit.Entry, unreachable.Entry}
	for _, a := range arms {
		chainNodes = append(chainNodes, a.guard.Nodes...)
		chainNodes = append(chainNodes, a.body.Nodes...)
	}
	chain := Component{Entry: arms[0].guard.Entry, Exit: exit.Entry, Nodes: chainNodes}
	match := l.builder.join(comp, chain, e.Span())

	if l.reversibility == Reversible {
		cases := make([]DivergenceCase, len(arms))
		for i, a := range arms {
			cases[i] = DivergenceCase{Match: item.NewUnsigned(uint64(i), item.Width64), Target: a.body.Exit}
			l.builder.link(Reverse, a.body.Entry, match.Entry, e.Span())
		}
		l.builder.divergence(Reverse, exit.Entry, LocationValue(Location{Variable: discriminatorVar}), cases, match.Entry)
	}

	return LocationValue(Location{Variable: resultVar}), match, nil
}

func (l *Lowerer) fieldOf(value Value, name string) Value {
	if value.Kind == ValueItem {
		if field, ok := value.Item.Field(name); ok {
			return ItemValue(field)
		}
		return ItemValue(item.Item{})
	}
	return LocationValue(value.Location.WithField(name))
}

func (l *Lowerer) lowerMutation(e node.Mutation) (Value, Component, error) {
	value, comp, err := l.lowerExpression(e.Value)
	if err != nil {
		return Value{}, Component{}, err
	}
	targetValue, targetComp, err := l.lowerExpression(e.Target)
	if err != nil {
		return Value{}, Component{}, err
	}
	comp = l.builder.join(comp, targetComp, e.Span())
	target, ok := valueLocation(targetValue)
	if !ok {
		return Value{}, Component{}, errors.Wrap(errors.New("evaluation", errors.EVA004,
			"mutation target did not lower to a location").At(e.Span()))
	}
	if l.reversibility == Reversible {
		comp = l.pushStmt(comp, NewImplicitDrop(e.Span(), target.Variable))
	}
	comp = l.pushStmt(comp, NewMutation(e.Span(), target, value))
	return ItemValue(item.NewUnit()), comp, nil
}

// lowerDrop lowers an explicit drop to the inverse of its bound
// expression, wrapped in sentinel entry/exit nodes so the dropped
// variable is resurrected on reversal (spec.md §4.3.3 "Explicit drop").
func (l *Lowerer) lowerDrop(e node.Drop) (Value, Component, error) {
	_, comp, err := l.lowerExpression(e.Value)
	if err != nil {
		return Value{}, Component{}, err
	}
	if l.reversibility == Reversible {
		comp = l.builder.invert(comp)
	}
	entrySentinel := l.builder.component()
	exitSentinel := l.builder.component()
	wrapped := l.builder.join(entrySentinel, comp, e.Span())
	wrapped = l.builder.join(wrapped, exitSentinel, e.Span())
	return ItemValue(item.NewUnit()), wrapped, nil
}

// lowerFieldAccess inserts a dereference projection for every reference
// layer in the receiver's resolved type, then a field projection (spec.md
// §4.3.3 "Field access / method call"). A receiver that already folded to
// a literal instance is resolved directly without touching the IR.
func (l *Lowerer) lowerFieldAccess(key node.ExpressionKey, e node.FieldAccess) (Value, Component, error) {
	receiver, comp, err := l.lowerExpression(e.Receiver)
	if err != nil {
		return Value{}, Component{}, err
	}
	if receiver.Kind == ValueItem {
		field, ok := receiver.Item.Field(e.Field)
		if !ok {
			return Value{}, Component{}, errors.Wrap(errors.New("typing", errors.TYP005,
				fmt.Sprintf("instance has no field %q", e.Field)).At(e.Span()))
		}
		return ItemValue(field), comp, nil
	}
	loc := receiver.Location
	if resolved, ok := l.types.Expression(e.Receiver); ok {
		depth, _ := unwrapReferences(resolved)
		for i := 0; i < depth; i++ {
			loc = loc.WithDereference()
		}
	}
	_ = key
	return LocationValue(loc.WithField(e.Field)), comp, nil
}

func unwrapReferences(t inference.TypeResolution) (int, inference.TypeResolution) {
	depth := 0
	for !t.IsTemplate() && t.Structure().Equal(inference.ReferencePath) && len(t.Arguments()) == 1 {
		depth++
		t = t.Arguments()[0]
	}
	return depth, t
}

func (l *Lowerer) lowerCall(e node.Call) (Value, Component, error) {
	if e.Execution == node.Compile {
		return Value{}, Component{}, errors.Wrap(errors.New("evaluation", errors.EVA001,
			"compile-time call reached the lowering engine").At(e.Span()))
	}
	comp := l.builder.component()
	var arguments []Value
	if e.Method {
		receiver, receiverComp, err := l.lowerExpression(e.MethodReceiver)
		if err != nil {
			return Value{}, Component{}, err
		}
		comp = l.builder.join(comp, receiverComp, e.Span())
		arguments = append(arguments, receiver)
	}
	for _, argument := range e.Arguments {
		value, argComp, err := l.lowerExpression(argument)
		if err != nil {
			return Value{}, Component{}, err
		}
		comp = l.builder.join(comp, argComp, e.Span())
		arguments = append(arguments, value)
	}
	result := l.fresh("call")
	comp = l.pushStmt(comp, NewBinding(e.Span(), result, CallRhs{Function: e.Function, Method: e.Method, Arguments: arguments}))
	return LocationValue(Location{Variable: result}), comp, nil
}

func (l *Lowerer) lowerUnaryOp(e node.UnaryOp) (Value, Component, error) {
	operand, comp, err := l.lowerExpression(e.Operand)
	if err != nil {
		return Value{}, Component{}, err
	}
	result := l.fresh("unary")
	comp = l.pushStmt(comp, NewBinding(e.Span(), result, UnaryOpRhs{Op: e.Op, Operand: operand}))
	return LocationValue(Location{Variable: result}), comp, nil
}

func (l *Lowerer) lowerBinaryOp(e node.BinaryOp) (Value, Component, error) {
	left, leftComp, err := l.lowerExpression(e.Left)
	if err != nil {
		return Value{}, Component{}, err
	}
	right, rightComp, err := l.lowerExpression(e.Right)
	if err != nil {
		return Value{}, Component{}, err
	}
	comp := l.builder.join(leftComp, rightComp, e.Span())
	result := l.fresh("binary")
	comp = l.pushStmt(comp, NewBinding(e.Span(), result, BinaryOpRhs{Op: e.Op, Left: left, Right: right}))
	return LocationValue(Location{Variable: result}), comp, nil
}

func (l *Lowerer) lowerStructureLiteral(e node.StructureLiteral) (Value, Component, error) {
	comp := l.builder.component()
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(map[string]Value, len(names))
	for _, name := range names {
		value, fieldComp, err := l.lowerExpression(e.Fields[name])
		if err != nil {
			return Value{}, Component{}, err
		}
		comp = l.builder.join(comp, fieldComp, e.Span())
		fields[name] = value
	}
	result := l.fresh("instance")
	comp = l.pushStmt(comp, NewBinding(e.Span(), result, StructureLiteralRhs{Structure: e.Structure, Fields: fields}))
	return LocationValue(Location{Variable: result}), comp, nil
}

func (l *Lowerer) lowerIntegerLiteral(key node.ExpressionKey, e node.IntegerLiteral) (Value, Component, error) {
	width := item.Width64
	signed := e.Signed
	if resolved, ok := l.types.Expression(key); ok {
		if w, s, ok2 := IntegerWidth(resolved); ok2 {
			width, signed = w, s
		}
	}
	var value item.Item
	if signed {
		value = item.NewSigned(int64(e.Value), width)
	} else {
		value = item.NewUnsigned(e.Value, width)
	}
	return ItemValue(value), l.builder.component(), nil
}

// IntegerWidth recovers width and signedness from an intrinsic integer
// structure name ("u8".."u64", "i8".."i64"); ok is false for anything else.
func IntegerWidth(t inference.TypeResolution) (item.Width, bool, bool) {
	name := t.Structure().Name
	if len(name) < 2 {
		return 0, false, false
	}
	var signed bool
	switch name[0] {
	case 'u':
		signed = false
	case 'i':
		signed = true
	default:
		return 0, false, false
	}
	bits, err := strconv.Atoi(name[1:])
	if err != nil {
		return 0, false, false
	}
	switch bits {
	case 8:
		return item.Width8, signed, true
	case 16:
		return item.Width16, signed, true
	case 32:
		return item.Width32, signed, true
	case 64:
		return item.Width64, signed, true
	default:
		return 0, false, false
	}
}
