package node

import (
	"github.com/Techno-coder/lexica-sub000/internal/path"
	"github.com/Techno-coder/lexica-sub000/internal/sid"
)

// FunctionContext is the typed, name-resolved AST for a single function:
// an expression arena plus the function's path, parameters, and return
// ascription (spec.md §3 "Lifecycles": constructed once per (path,
// reversibility) key, then read-only except for the partial evaluator's
// in-place rewrite).
type FunctionContext struct {
	Path             path.FunctionPath
	Parameters       []BindingPattern
	ReturnAscription *TypeReference
	// Templates lists the lexically-introduced type parameter names in
	// scope for this function (spec.md "Templates vs. free variables").
	// A TypeReference whose Structure names one of these is a template
	// reference, not a structure instantiation.
	Templates []string
	Entry     ExpressionKey

	arena          []Expression
	ids            []sid.SID
	nextVariable   uint64
	nextExpression ExpressionKey
}

// NewFunctionContext constructs an empty arena for the given function path
// and parameter list; the node builder then fills it in by calling Alloc
// to append expressions before setting Entry.
func NewFunctionContext(fp path.FunctionPath, parameters []BindingPattern, ret *TypeReference, templates []string) *FunctionContext {
	tmpl := make([]string, len(templates))
	copy(tmpl, templates)
	return &FunctionContext{
		Path:             fp,
		Parameters:       parameters,
		ReturnAscription: ret,
		Templates:        tmpl,
	}
}

// Alloc appends an expression to the arena and returns its key. Allocation
// order is the determinism source the lowering engine's node numbering
// relies on (spec.md §6 "Determinism").
func (fc *FunctionContext) Alloc(expr Expression) ExpressionKey {
	key := fc.nextExpression
	fc.arena = append(fc.arena, expr)
	span := expr.Span()
	fc.ids = append(fc.ids, sid.NewSID(fc.Path.String(), span.Start, span.End, kindName(expr), []int{int(key)}))
	fc.nextExpression++
	return key
}

// Expression looks up an arena entry by key.
func (fc *FunctionContext) Expression(key ExpressionKey) Expression {
	return fc.arena[key]
}

// Replace overwrites an arena slot in place. This is the sole mutation
// path the partial evaluator uses to install an ItemLiteral after
// evaluating a Compile-tagged call (spec.md §4.4); no other pass may call
// it once the function has entered the basic cache.
func (fc *FunctionContext) Replace(key ExpressionKey, expr Expression) {
	fc.arena[key] = expr
}

// Len reports the number of allocated expressions, for passes that walk
// the arena "in ascending key order" (spec.md §5 "Ordering").
func (fc *FunctionContext) Len() int { return len(fc.arena) }

// Keys returns every allocated key in ascending order.
func (fc *FunctionContext) Keys() []ExpressionKey {
	keys := make([]ExpressionKey, fc.Len())
	for i := range keys {
		keys[i] = ExpressionKey(i)
	}
	return keys
}

// FreshVariable allocates a new internal temporary; used by lowering for
// synthesised loop counters and branch discriminators (spec.md §4.3.3).
func (fc *FunctionContext) FreshVariable(hint string) Variable {
	fc.nextVariable++
	return Variable{Name: hint, Generation: InternalGeneration - fc.nextVariable}
}
