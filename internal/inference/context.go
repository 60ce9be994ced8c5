package inference

import "github.com/Techno-coder/lexica-sub000/internal/node"

// TypeContext is the per-function immutable map from variables and
// expression keys to resolved types (spec.md §3 "TypeContext"). It is
// built by an Environment during the driver's walk and frozen by
// Finalize; nothing may mutate it afterwards.
type TypeContext struct {
	variables   map[node.Variable]TypeResolution
	expressions map[node.ExpressionKey]TypeResolution
}

// Variable looks up a bound variable's resolved type.
func (c *TypeContext) Variable(v node.Variable) (TypeResolution, bool) {
	t, ok := c.variables[v]
	return t, ok
}

// Expression looks up an expression's resolved type.
func (c *TypeContext) Expression(k node.ExpressionKey) (TypeResolution, bool) {
	t, ok := c.expressions[k]
	return t, ok
}

// Environment is the mutable builder the driver walks a function with; it
// accumulates inference types per variable and expression, then Finalize
// resolves everything through the Forest into a frozen TypeContext.
type Environment struct {
	forest      *Forest
	variables   map[node.Variable]InferenceType
	expressions map[node.ExpressionKey]InferenceType
}

// NewEnvironment creates an empty environment over the given forest.
func NewEnvironment(forest *Forest) *Environment {
	return &Environment{
		forest:      forest,
		variables:   make(map[node.Variable]InferenceType),
		expressions: make(map[node.ExpressionKey]InferenceType),
	}
}

// BindVariable records the inference type assigned to a variable at its
// binding site (spec.md §4.2 "Variable: the inference variable recorded
// at binding time").
func (e *Environment) BindVariable(v node.Variable, t InferenceType) { e.variables[v] = t }

// VariableType looks up a previously-bound variable's inference type.
func (e *Environment) VariableType(v node.Variable) (InferenceType, bool) {
	t, ok := e.variables[v]
	return t, ok
}

// SetExpression records the inference type computed for an expression.
func (e *Environment) SetExpression(k node.ExpressionKey, t InferenceType) { e.expressions[k] = t }

// ExpressionType looks up a previously-typed expression.
func (e *Environment) ExpressionType(k node.ExpressionKey) (InferenceType, bool) {
	t, ok := e.expressions[k]
	return t, ok
}

// Finalize resolves every recorded variable and expression type through
// the forest, producing a frozen TypeContext. The first resolution
// failure aborts with its diagnostic.
func (e *Environment) Finalize() (*TypeContext, error) {
	ctx := &TypeContext{
		variables:   make(map[node.Variable]TypeResolution, len(e.variables)),
		expressions: make(map[node.ExpressionKey]TypeResolution, len(e.expressions)),
	}
	for v, t := range e.variables {
		resolved, err := e.forest.Construct(t)
		if err != nil {
			return nil, err
		}
		ctx.variables[v] = resolved
	}
	for k, t := range e.expressions {
		resolved, err := e.forest.Construct(t)
		if err != nil {
			return nil, err
		}
		ctx.expressions[k] = resolved
	}
	return ctx, nil
}
