// Package inference implements the type engine (a disjoint-set forest
// over inference variables) and the inference driver that walks a
// node.FunctionContext once to build a TypeContext (spec.md §4.1, §4.2).
package inference

import "github.com/Techno-coder/lexica-sub000/internal/path"

// VariableID names an inference variable within one Forest.
type VariableID int

// InferenceType is either a fresh variable or a constructed type: a
// structure path applied to a (possibly empty) vector of inference types
// (spec.md §3 "Inference type").
type InferenceType struct {
	variable  VariableID
	construct *constructed
}

type constructed struct {
	structure path.StructurePath
	arguments []InferenceType
}

// Variable wraps a VariableID as an InferenceType.
func Variable(id VariableID) InferenceType { return InferenceType{variable: id} }

// Constructed builds a constructed InferenceType.
func Constructed(structure path.StructurePath, arguments ...InferenceType) InferenceType {
	args := make([]InferenceType, len(arguments))
	copy(args, arguments)
	return InferenceType{construct: &constructed{structure: structure, arguments: args}}
}

// IsVariable reports whether t is presently a bare variable reference
// (not yet resolved through the forest).
func (t InferenceType) IsVariable() bool { return t.construct == nil }

// VariableID returns the underlying variable id; only meaningful when
// IsVariable() is true.
func (t InferenceType) VariableID() VariableID { return t.variable }
