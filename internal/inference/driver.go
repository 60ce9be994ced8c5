package inference

import (
	"fmt"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// Driver walks a node.FunctionContext once, applying the per-expression-
// variant contracts of spec.md §4.2 to build an Environment, then finalises
// it into a TypeContext. One Driver (and its Forest) belongs to exactly one
// function's inference pass.
type Driver struct {
	declarations Declarations
	forest       *Forest
	env          *Environment
	fc           *node.FunctionContext
	own          map[string]InferenceType // this function's own template bindings
	pending      []pendingField
}

type pendingField struct {
	receiver InferenceType
	field    string
	result   InferenceType
	span     errors.Span
}

// NewDriver creates a driver that resolves calls and field accesses against
// the given declaration registry.
func NewDriver(declarations Declarations) *Driver {
	return &Driver{declarations: declarations}
}

// Infer walks fc once and returns its finalised TypeContext.
func (d *Driver) Infer(fc *node.FunctionContext) (*TypeContext, error) {
	d.fc = fc
	d.forest = NewForest()
	d.env = NewEnvironment(d.forest)
	d.own = make(map[string]InferenceType, len(fc.Templates))
	d.pending = nil

	for _, name := range fc.Templates {
		t := d.forest.NewVariableType()
		d.forest.MarkTemplate(t.VariableID())
		d.own[name] = t
	}

	for _, parameter := range fc.Parameters {
		if _, err := d.bindPattern(parameter); err != nil {
			return nil, err
		}
	}

	if _, err := d.infer(fc.Entry); err != nil {
		return nil, err
	}

	if err := d.resolvePendingFields(); err != nil {
		return nil, err
	}

	if fc.ReturnAscription != nil {
		entry, ok := d.env.ExpressionType(fc.Entry)
		if !ok {
			return nil, errors.Wrap(errors.New("typing", errors.TYP001, "function body produced no type"))
		}
		if err := d.unify(entry, d.instantiateOwn(*fc.ReturnAscription), errors.Span{}); err != nil {
			return nil, err
		}
	}

	return d.env.Finalize()
}

// infer computes and records the InferenceType of one expression, recursing
// into its children first.
func (d *Driver) infer(key node.ExpressionKey) (InferenceType, error) {
	var result InferenceType
	switch e := d.fc.Expression(key).(type) {
	case node.Block:
		result = Unit()
		for _, child := range e.Expressions {
			t, err := d.infer(child)
			if err != nil {
				return InferenceType{}, err
			}
			result = t
		}

	case node.Let:
		valueType, err := d.infer(e.Value)
		if err != nil {
			return InferenceType{}, err
		}
		patternType, err := d.bindPattern(e.Pattern)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(patternType, valueType, e.Span()); err != nil {
			return InferenceType{}, err
		}
		if e.Ascription != nil {
			ascriptionType := d.instantiateOwn(*e.Ascription)
			if err := d.unify(patternType, ascriptionType, e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		result = Unit()

	case node.Loop:
		if e.Start != nil {
			start, err := d.infer(*e.Start)
			if err != nil {
				return InferenceType{}, err
			}
			if err := d.unify(start, Truth(), e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		end, err := d.infer(e.End)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(end, Truth(), e.Span()); err != nil {
			return InferenceType{}, err
		}
		if _, err := d.infer(e.Body); err != nil {
			return InferenceType{}, err
		}
		result = Unit()

	case node.Conditional:
		branchResult := d.forest.NewVariableType()
		for _, branch := range e.Branches {
			start, err := d.infer(branch.Start)
			if err != nil {
				return InferenceType{}, err
			}
			if err := d.unify(start, Truth(), e.Span()); err != nil {
				return InferenceType{}, err
			}
			if branch.End != nil {
				end, err := d.infer(*branch.End)
				if err != nil {
					return InferenceType{}, err
				}
				if err := d.unify(end, Truth(), e.Span()); err != nil {
					return InferenceType{}, err
				}
			}
			body, err := d.infer(branch.Body)
			if err != nil {
				return InferenceType{}, err
			}
			if err := d.unify(body, branchResult, e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		result = branchResult

	case node.Mutation:
		target, err := d.infer(e.Target)
		if err != nil {
			return InferenceType{}, err
		}
		value, err := d.infer(e.Value)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(target, value, e.Span()); err != nil {
			return InferenceType{}, err
		}
		result = Unit()

	case node.Drop:
		patternType, err := d.variablePatternType(e.Pattern, e.Span())
		if err != nil {
			return InferenceType{}, err
		}
		valueType, err := d.infer(e.Value)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(patternType, valueType, e.Span()); err != nil {
			return InferenceType{}, err
		}
		result = Unit()

	case node.FieldAccess:
		receiver, err := d.infer(e.Receiver)
		if err != nil {
			return InferenceType{}, err
		}
		fieldType := d.forest.NewVariableType()
		d.pending = append(d.pending, pendingField{receiver: receiver, field: e.Field, result: fieldType, span: e.Span()})
		result = fieldType

	case node.Call:
		result, err := d.inferCall(e)
		if err != nil {
			return InferenceType{}, err
		}
		d.env.SetExpression(key, result)
		return result, nil

	case node.UnaryOp:
		operand, err := d.infer(e.Operand)
		if err != nil {
			return InferenceType{}, err
		}
		if e.Op == "!" {
			if err := d.unify(operand, Truth(), e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		result = operand

	case node.BinaryOp:
		left, err := d.infer(e.Left)
		if err != nil {
			return InferenceType{}, err
		}
		right, err := d.infer(e.Right)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(left, right, e.Span()); err != nil {
			return InferenceType{}, err
		}
		if isComparisonOp(e.Op) {
			result = Truth()
		} else {
			result = left
		}

	case node.StructureLiteral:
		signature, ok := d.declarations.Structure(e.Structure)
		if !ok {
			return InferenceType{}, errors.Wrap(errors.New("resolution", errors.RES003,
				fmt.Sprintf("undefined structure %s", e.Structure.String())).At(e.Span()))
		}
		for name, child := range e.Fields {
			fieldType, err := d.infer(child)
			if err != nil {
				return InferenceType{}, err
			}
			ascription, ok := signature.Fields[name]
			if !ok {
				return InferenceType{}, errors.Wrap(errors.New("typing", errors.TYP005,
					fmt.Sprintf("structure %s has no field %q", e.Structure.String(), name)).At(e.Span()))
			}
			if err := d.unify(d.instantiateOwn(ascription), fieldType, e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		result = Constructed(e.Structure)

	case node.Match:
		matchResult, err := d.inferMatch(e)
		if err != nil {
			return InferenceType{}, err
		}
		result = matchResult

	case node.VariableRef:
		t, ok := d.env.VariableType(e.Variable)
		if !ok {
			return InferenceType{}, errors.Wrap(errors.New("structural", errors.STR002,
				fmt.Sprintf("undefined variable %s", e.Variable.String())).At(e.Span()))
		}
		result = t

	case node.IntegerLiteral:
		result = d.forest.NewVariableType()

	case node.TruthLiteral:
		result = Truth()

	case node.ItemLiteral:
		result = d.itemType(e.Value)

	default:
		return InferenceType{}, errors.Wrap(errors.New("typing", errors.TYP001,
			fmt.Sprintf("inference driver: unhandled expression variant %T", e)))
	}

	d.env.SetExpression(key, result)
	return result, nil
}

func (d *Driver) inferCall(e node.Call) (InferenceType, error) {
	signature, ok := d.declarations.Function(e.Function)
	if !ok {
		return InferenceType{}, errors.Wrap(errors.New("resolution", errors.RES003,
			fmt.Sprintf("undefined function %s", e.Function.String())).At(e.Span()))
	}

	expected := len(signature.Parameters)
	actual := len(e.Arguments)
	if e.Method {
		actual++
	}
	if actual != expected {
		return InferenceType{}, errors.Wrap(errors.New("typing", errors.TYP004,
			fmt.Sprintf("call to %s: expected %d arguments, found %d", e.Function.String(), expected, actual)).At(e.Span()))
	}

	templateVars := make(map[string]InferenceType, len(signature.Templates))
	parameterIndex := 0
	if e.Method {
		receiver, err := d.infer(e.MethodReceiver)
		if err != nil {
			return InferenceType{}, err
		}
		first := signature.Parameters[0]
		expectedType := d.instantiate(first, signature.Templates, templateVars)
		if isReferenceAscription(first) {
			if err := d.unify(expectedType, Reference(receiver), e.Span()); err != nil {
				return InferenceType{}, err
			}
		} else {
			if err := d.unify(expectedType, receiver, e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		parameterIndex = 1
	}

	for i, argument := range e.Arguments {
		argType, err := d.infer(argument)
		if err != nil {
			return InferenceType{}, err
		}
		parameterType := d.instantiate(signature.Parameters[parameterIndex+i], signature.Templates, templateVars)
		if err := d.unify(parameterType, argType, e.Span()); err != nil {
			return InferenceType{}, err
		}
	}

	return d.instantiate(signature.Return, signature.Templates, templateVars), nil
}

func (d *Driver) inferMatch(e node.Match) (InferenceType, error) {
	scrutinee, err := d.infer(e.Scrutinee)
	if err != nil {
		return InferenceType{}, err
	}
	branchResult := d.forest.NewVariableType()
	for _, arm := range e.Arms {
		switch {
		case arm.Discriminant != nil:
			signature, ok := d.declarations.Structure(path.Structure(path.New(path.RootRelative, nil, *arm.Discriminant)))
			if !ok {
				return InferenceType{}, errors.Wrap(errors.New("resolution", errors.RES003,
					fmt.Sprintf("undefined structure %s", *arm.Discriminant)).At(e.Span()))
			}
			for name, pattern := range arm.Fields {
				ascription, ok := signature.Fields[name]
				if !ok {
					return InferenceType{}, errors.Wrap(errors.New("typing", errors.TYP005,
						fmt.Sprintf("structure %s has no field %q", *arm.Discriminant, name)).At(e.Span()))
				}
				d.bindVariablePattern(pattern, d.instantiateOwn(ascription))
			}
		case arm.Tuple != nil:
			elements := make([]InferenceType, len(arm.Tuple))
			for i, pattern := range arm.Tuple {
				elements[i] = d.forest.NewVariableType()
				d.bindVariablePattern(pattern, elements[i])
			}
			if err := d.unify(scrutinee, TupleType(elements...), e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		if arm.Guard != nil {
			guard, err := d.infer(*arm.Guard)
			if err != nil {
				return InferenceType{}, err
			}
			if err := d.unify(guard, Truth(), e.Span()); err != nil {
				return InferenceType{}, err
			}
		}
		body, err := d.infer(arm.Body)
		if err != nil {
			return InferenceType{}, err
		}
		if err := d.unify(body, branchResult, e.Span()); err != nil {
			return InferenceType{}, err
		}
	}
	return branchResult, nil
}

// resolvePendingFields is the field-access second pass: by the time the
// first walk completes every receiver has a type, so each deferred access
// can look up its structure, looking through any reference layers, and
// unify the recorded placeholder with the named field's ascription
// (spec.md §4.2 "Field access: second pass").
func (d *Driver) resolvePendingFields() error {
	for _, p := range d.pending {
		resolved := d.forest.repr(p.receiver)
		for !resolved.IsVariable() && resolved.construct.structure.Equal(ReferencePath) && len(resolved.construct.arguments) == 1 {
			resolved = d.forest.repr(resolved.construct.arguments[0])
		}
		if resolved.IsVariable() {
			return errors.Wrap(UnresolvedError(d.forest.find(resolved.variable), d.forest))
		}
		signature, ok := d.declarations.Structure(resolved.construct.structure)
		if !ok {
			return errors.Wrap(errors.New("resolution", errors.RES003,
				fmt.Sprintf("undefined structure %s", resolved.construct.structure.String())).At(p.span))
		}
		ascription, ok := signature.Fields[p.field]
		if !ok {
			return errors.Wrap(errors.New("typing", errors.TYP005,
				fmt.Sprintf("structure %s has no field %q", resolved.construct.structure.String(), p.field)).At(p.span))
		}
		if err := d.unify(d.instantiateOwn(ascription), p.result, p.span); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) unify(a, b InferenceType, span errors.Span) error {
	if err := d.forest.Unify(a, b); err != nil {
		if report, ok := errors.AsReport(err); ok {
			report.At(span)
		}
		return err
	}
	return nil
}

// bindPattern binds every variable in a binding pattern to a fresh (or
// ascribed) inference type and returns the pattern's overall type.
func (d *Driver) bindPattern(p node.BindingPattern) (InferenceType, error) {
	switch p.Kind {
	case node.PatternWildcard:
		return d.forest.NewVariableType(), nil
	case node.PatternTerminal:
		var t InferenceType
		if p.Terminal.Ascription != nil {
			t = d.instantiateOwn(*p.Terminal.Ascription)
		} else {
			t = d.forest.NewVariableType()
		}
		d.env.BindVariable(p.Terminal.Variable, t)
		return t, nil
	case node.PatternTuple:
		elements := make([]InferenceType, len(p.Elements))
		for i, element := range p.Elements {
			t, err := d.bindPattern(element)
			if err != nil {
				return InferenceType{}, err
			}
			elements[i] = t
		}
		return TupleType(elements...), nil
	}
	return InferenceType{}, fmt.Errorf("inference: invalid binding pattern kind %d", p.Kind)
}

// variablePatternType resolves a drop pattern's type from variables already
// bound earlier in the function.
func (d *Driver) variablePatternType(p node.VariablePattern, span errors.Span) (InferenceType, error) {
	switch p.Kind {
	case node.PatternWildcard:
		return d.forest.NewVariableType(), nil
	case node.PatternTerminal:
		t, ok := d.env.VariableType(p.Terminal)
		if !ok {
			return InferenceType{}, errors.Wrap(errors.New("structural", errors.STR002,
				fmt.Sprintf("undefined variable %s", p.Terminal.String())).At(span))
		}
		return t, nil
	case node.PatternTuple:
		elements := make([]InferenceType, len(p.Elements))
		for i, element := range p.Elements {
			t, err := d.variablePatternType(element, span)
			if err != nil {
				return InferenceType{}, err
			}
			elements[i] = t
		}
		return TupleType(elements...), nil
	}
	return InferenceType{}, fmt.Errorf("inference: invalid variable pattern kind %d", p.Kind)
}

// bindVariablePattern binds a match arm's destructured variables to the
// given element type without requiring them to already exist.
func (d *Driver) bindVariablePattern(p node.VariablePattern, t InferenceType) {
	switch p.Kind {
	case node.PatternTerminal:
		d.env.BindVariable(p.Terminal, t)
	case node.PatternTuple:
		for _, element := range p.Elements {
			d.bindVariablePattern(element, d.forest.NewVariableType())
		}
	}
}

// instantiateOwn converts a surface TypeReference using this function's own
// template bindings (spec.md "Templates vs. free variables").
func (d *Driver) instantiateOwn(t node.TypeReference) InferenceType {
	if name, ok := templateName(t, d.fc.Templates); ok {
		return d.own[name]
	}
	arguments := make([]InferenceType, len(t.Arguments))
	for i, a := range t.Arguments {
		arguments[i] = d.instantiateOwn(a)
	}
	return Constructed(t.Structure, arguments...)
}

// instantiate converts a callee's surface TypeReference, instantiating each
// of the callee's template parameters with a fresh variable shared across
// the whole call (rank-1 polymorphism: one substitution per call site).
func (d *Driver) instantiate(t node.TypeReference, templates []string, vars map[string]InferenceType) InferenceType {
	if name, ok := templateName(t, templates); ok {
		if v, ok := vars[name]; ok {
			return v
		}
		fresh := d.forest.NewVariableType()
		d.forest.MarkTemplate(fresh.VariableID())
		vars[name] = fresh
		return fresh
	}
	arguments := make([]InferenceType, len(t.Arguments))
	for i, a := range t.Arguments {
		arguments[i] = d.instantiate(a, templates, vars)
	}
	return Constructed(t.Structure, arguments...)
}

// templateName reports whether tr names one of the given template
// parameters rather than a concrete structure (spec.md arena.go note: "A
// TypeReference whose Structure names one of these is a template
// reference, not a structure instantiation").
func templateName(t node.TypeReference, templates []string) (string, bool) {
	if t.Structure.Root != path.RootRelative || len(t.Structure.Modules) != 0 {
		return "", false
	}
	for _, name := range templates {
		if name == t.Structure.Name {
			return name, true
		}
	}
	return "", false
}

// isReferenceAscription reports whether a parameter ascription names the
// intrinsic reference wrapper.
func isReferenceAscription(t node.TypeReference) bool {
	return t.Structure.Equal(ReferencePath)
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

// itemType assigns an InferenceType shape to an already-evaluated Item,
// used when the partial evaluator installs an ItemLiteral in place of a
// Compile-tagged call (spec.md §4.4) and inference runs again afterwards.
func (d *Driver) itemType(value item.Item) InferenceType {
	switch value.Kind() {
	case item.Unit:
		return Unit()
	case item.Truth:
		return Truth()
	case item.Signed:
		_, width := value.Signed()
		return Signed(int(width))
	case item.Unsigned:
		_, width := value.Unsigned()
		return Unsigned(int(width))
	case item.Tuple:
		elements := make([]InferenceType, len(value.Elements()))
		for i, e := range value.Elements() {
			elements[i] = d.itemType(e)
		}
		return TupleType(elements...)
	case item.Instance:
		return Constructed(path.Structure(path.New(path.RootRelative, nil, value.TypeName())))
	default:
		return d.forest.NewVariableType()
	}
}
