package inference

import (
	"fmt"
	"strconv"

	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// TypeResolution is a fully-ground type — no free variables — except that
// it may denote a template parameter, which survives resolution without
// being "unresolved" (spec.md §3 "Resolved type (TypeResolution)").
type TypeResolution struct {
	isTemplate bool
	templateID VariableID
	structure  path.StructurePath
	arguments  []TypeResolution
}

// Concrete builds a ground TypeResolution for a structure path applied to
// resolved arguments.
func Concrete(structure path.StructurePath, arguments ...TypeResolution) TypeResolution {
	args := make([]TypeResolution, len(arguments))
	copy(args, arguments)
	return TypeResolution{structure: structure, arguments: args}
}

// TemplateResolution builds the TypeResolution that stands for an
// unresolved template parameter.
func TemplateResolution(id VariableID) TypeResolution {
	return TypeResolution{isTemplate: true, templateID: id}
}

// IsTemplate reports whether this resolution denotes a template
// parameter rather than a concrete structure.
func (t TypeResolution) IsTemplate() bool { return t.isTemplate }

// Structure returns the structure path of a concrete resolution.
func (t TypeResolution) Structure() path.StructurePath { return t.structure }

// Arguments returns the resolved type arguments of a concrete resolution.
func (t TypeResolution) Arguments() []TypeResolution { return t.arguments }

// Equal compares two resolutions structurally, used by the "inference
// idempotence" property test (spec.md §8, property 4).
func (t TypeResolution) Equal(other TypeResolution) bool {
	if t.isTemplate != other.isTemplate {
		return false
	}
	if t.isTemplate {
		return t.templateID == other.templateID
	}
	if !t.structure.Equal(other.structure.DeclarationPath) || len(t.arguments) != len(other.arguments) {
		return false
	}
	for i := range t.arguments {
		if !t.arguments[i].Equal(other.arguments[i]) {
			return false
		}
	}
	return true
}

func (t TypeResolution) String() string {
	if t.isTemplate {
		return fmt.Sprintf("$%d", t.templateID)
	}
	if len(t.arguments) == 0 {
		return t.structure.String()
	}
	s := t.structure.String() + "<"
	for i, a := range t.arguments {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}

// Intrinsic structure paths for the built-in ground types (spec.md §3
// "Item"): truth, unit, fixed-width signed/unsigned integers, and tuples.
var (
	TruthPath = path.New(path.RootIntrinsic, nil, "truth")
	UnitPath  = path.New(path.RootIntrinsic, nil, "unit")
)

// UnsignedPath names the unsigned integer structure of the given width.
func UnsignedPath(width int) path.DeclarationPath {
	return path.New(path.RootIntrinsic, nil, "u"+strconv.Itoa(width))
}

// SignedPath names the signed integer structure of the given width.
func SignedPath(width int) path.DeclarationPath {
	return path.New(path.RootIntrinsic, nil, "i"+strconv.Itoa(width))
}

// TuplePath names the tuple structure of the given arity; the arity is
// encoded in the module chain so distinct arities never unify with each
// other even with zero arguments in common.
func TuplePath(arity int) path.DeclarationPath {
	return path.New(path.RootIntrinsic, []string{"tuple"}, strconv.Itoa(arity))
}

// Truth is the InferenceType for the boolean structure.
func Truth() InferenceType { return Constructed(path.Structure(TruthPath)) }

// Unit is the InferenceType for the unit structure.
func Unit() InferenceType { return Constructed(path.Structure(UnitPath)) }

// Unsigned is the InferenceType for a fixed-width unsigned integer.
func Unsigned(width int) InferenceType { return Constructed(path.Structure(UnsignedPath(width))) }

// Signed is the InferenceType for a fixed-width signed integer.
func Signed(width int) InferenceType { return Constructed(path.Structure(SignedPath(width))) }

// TupleType is the InferenceType for a tuple of the given element types.
func TupleType(elements ...InferenceType) InferenceType {
	return Constructed(path.Structure(TuplePath(len(elements))), elements...)
}

// ReferencePath names the intrinsic reference wrapper structure; a method
// call's receiver is implicitly wrapped in one when the callee's first
// parameter ascription names it (spec.md §4.2 "Method calls synthesise a
// reference if the first parameter is a reference ascription").
var ReferencePath = path.New(path.RootIntrinsic, nil, "ref")

// Reference is the InferenceType for a reference to inner.
func Reference(inner InferenceType) InferenceType {
	return Constructed(path.Structure(ReferencePath), inner)
}
