package inference

import (
	"fmt"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
)

// cell is one node of the disjoint-set forest: a parent pointer (self if
// root), a union-by-rank counter, and — only meaningful on a root — the
// constructed type the variable has been bound to, if any.
type cell struct {
	parent VariableID
	rank   int
	bound  *InferenceType
}

// Forest is the type engine: "a disjoint-set forest over inference types
// with path compression" (spec.md §4.1). One Forest belongs to exactly
// one function's inference pass.
type Forest struct {
	cells     []cell
	templates map[VariableID]bool
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{templates: make(map[VariableID]bool)}
}

// NewVariable allocates a fresh, unbound inference variable.
func (f *Forest) NewVariable() VariableID {
	id := VariableID(len(f.cells))
	f.cells = append(f.cells, cell{parent: id})
	return id
}

// NewVariableType allocates a fresh variable and wraps it as an
// InferenceType, for call sites that don't need the bare id.
func (f *Forest) NewVariableType() InferenceType { return Variable(f.NewVariable()) }

// MarkTemplate records that a variable denotes a lexically-introduced
// template parameter, so Construct does not report it as unresolved
// (spec.md §4.1 "Unresolved ... only if the variable is not a template
// parameter", DESIGN NOTES "Templates vs. free variables").
func (f *Forest) MarkTemplate(id VariableID) { f.templates[id] = true }

// IsTemplate reports whether id was marked as a template parameter.
func (f *Forest) IsTemplate(id VariableID) bool { return f.templates[id] }

// find returns the representative of v's set, compressing the path.
func (f *Forest) find(v VariableID) VariableID {
	if f.cells[v].parent == v {
		return v
	}
	root := f.find(f.cells[v].parent)
	f.cells[v].parent = root
	return root
}

// repr resolves t one level: a Constructed type is returned unchanged; a
// Variable is path-compressed to its root and, if that root is bound,
// the bound construct is returned instead.
func (f *Forest) repr(t InferenceType) InferenceType {
	if !t.IsVariable() {
		return t
	}
	root := f.find(t.variable)
	if f.cells[root].bound != nil {
		return *f.cells[root].bound
	}
	return Variable(root)
}

// Unify finds the representative of each operand and either unions two
// variables, binds a variable to a construct (after an occurs check), or
// recurses pairwise over two constructs of matching shape (spec.md
// §4.1 "unify").
func (f *Forest) Unify(a, b InferenceType) error {
	a, b = f.repr(a), f.repr(b)

	switch {
	case a.IsVariable() && b.IsVariable():
		f.union(a.variable, b.variable)
		return nil
	case a.IsVariable() && !b.IsVariable():
		return f.bind(a.variable, b)
	case !a.IsVariable() && b.IsVariable():
		return f.bind(b.variable, a)
	default:
		return f.unifyConstructed(a, b)
	}
}

func (f *Forest) union(a, b VariableID) {
	a, b = f.find(a), f.find(b)
	if a == b {
		return
	}
	ra, rb := f.cells[a].rank, f.cells[b].rank
	switch {
	case ra < rb:
		f.cells[a].parent = b
	case ra > rb:
		f.cells[b].parent = a
	default:
		f.cells[b].parent = a
		f.cells[a].rank++
	}
}

func (f *Forest) bind(v VariableID, t InferenceType) error {
	root := f.find(v)
	if f.occurs(root, t) {
		return errors.Wrap(RecursiveError(root, f))
	}
	bound := t
	f.cells[root].bound = &bound
	return nil
}

func (f *Forest) unifyConstructed(a, b InferenceType) error {
	ca, cb := a.construct, b.construct
	if !ca.structure.Equal(cb.structure.DeclarationPath) || len(ca.arguments) != len(cb.arguments) {
		return errors.Wrap(UnificationError(a, b, f))
	}
	for i := range ca.arguments {
		if err := f.Unify(ca.arguments[i], cb.arguments[i]); err != nil {
			return err
		}
	}
	return nil
}

// occurs reports whether variable root appears anywhere inside t, after
// resolving t's own variables through the forest.
func (f *Forest) occurs(root VariableID, t InferenceType) bool {
	t = f.repr(t)
	if t.IsVariable() {
		return f.find(t.variable) == root
	}
	for _, arg := range t.construct.arguments {
		if f.occurs(root, arg) {
			return true
		}
	}
	return false
}

// Construct walks the representative chain and resolves t into a fully
// ground TypeResolution. A remaining free variable at the root is an
// error unless it is a template parameter (spec.md §4.1 "construct").
func (f *Forest) Construct(t InferenceType) (TypeResolution, error) {
	t = f.repr(t)
	if t.IsVariable() {
		root := f.find(t.variable)
		if f.IsTemplate(root) {
			return TemplateResolution(root), nil
		}
		return TypeResolution{}, errors.Wrap(UnresolvedError(root, f))
	}
	args := make([]TypeResolution, len(t.construct.arguments))
	for i, a := range t.construct.arguments {
		resolved, err := f.Construct(a)
		if err != nil {
			return TypeResolution{}, err
		}
		args[i] = resolved
	}
	return Concrete(t.construct.structure, args...), nil
}

// Describe renders an InferenceType for diagnostics.
func (f *Forest) Describe(t InferenceType) string {
	t = f.repr(t)
	if t.IsVariable() {
		return f.DescribeVariable(t.variable)
	}
	if len(t.construct.arguments) == 0 {
		return t.construct.structure.String()
	}
	args := ""
	for i, a := range t.construct.arguments {
		if i > 0 {
			args += ", "
		}
		args += f.Describe(a)
	}
	return fmt.Sprintf("%s<%s>", t.construct.structure.String(), args)
}

// DescribeVariable renders a bare variable id for diagnostics.
func (f *Forest) DescribeVariable(id VariableID) string {
	return fmt.Sprintf("$%d", f.find(id))
}
