package node

import (
	"fmt"
	"strings"

	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// PatternKind discriminates the three shapes of Pattern[T] described in
// spec.md §3: "Pattern<T>. Wildcard | Terminal(T) | Tuple(Vec<Pattern<T>>)".
// Go has no generic sum type, so Pattern[T] is a single generic struct with
// a kind tag; a traversal helper (Walk) is provided per the DESIGN NOTES
// "pattern polymorphism" guidance.
type PatternKind int

const (
	PatternWildcard PatternKind = iota
	PatternTerminal
	PatternTuple
)

// Pattern[T] is used with three terminals in this core: BindingVariable
// (binding patterns), Variable (variable-reference patterns), and
// TypeReference (ascription patterns).
type Pattern[T any] struct {
	Kind     PatternKind
	Terminal T
	Elements []Pattern[T]
}

// Wildcard constructs the `_` pattern.
func Wildcard[T any]() Pattern[T] { return Pattern[T]{Kind: PatternWildcard} }

// Terminal constructs a leaf pattern carrying a value of T.
func Terminal[T any](value T) Pattern[T] { return Pattern[T]{Kind: PatternTerminal, Terminal: value} }

// Tuple constructs a tuple pattern from its element patterns.
func Tuple[T any](elements ...Pattern[T]) Pattern[T] {
	cp := make([]Pattern[T], len(elements))
	copy(cp, elements)
	return Pattern[T]{Kind: PatternTuple, Elements: cp}
}

// Walk visits every Terminal leaf of a pattern in left-to-right order.
func Walk[T any](p Pattern[T], visit func(T)) {
	switch p.Kind {
	case PatternTerminal:
		visit(p.Terminal)
	case PatternTuple:
		for _, e := range p.Elements {
			Walk(e, visit)
		}
	}
}

func (p Pattern[T]) String() string {
	switch p.Kind {
	case PatternWildcard:
		return "_"
	case PatternTerminal:
		return fmt.Sprintf("%v", p.Terminal)
	case PatternTuple:
		parts := make([]string, len(p.Elements))
		for i, e := range p.Elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid pattern>"
}

// TypeReference is an unresolved, surface-level reference to a structure
// type with its (possibly template) type arguments — the third Pattern<T>
// instantiation, "ascription patterns (type references)".
type TypeReference struct {
	Structure path.StructurePath
	Arguments []TypeReference
}

func (t TypeReference) String() string {
	if len(t.Arguments) == 0 {
		return t.Structure.String()
	}
	parts := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Structure.String(), strings.Join(parts, ", "))
}

// BindingVariable is the terminal of a binding pattern: a freshly-bound
// variable with an optional explicit type ascription.
type BindingVariable struct {
	Variable   Variable
	Ascription *TypeReference
}

// Three Pattern[T] instantiations named in spec.md §3.
type (
	BindingPattern    = Pattern[BindingVariable]
	VariablePattern   = Pattern[Variable]
	AscriptionPattern = Pattern[TypeReference]
)

// Variables returns every variable named by a pattern's terminals, in
// left-to-right order: a BindingVariable terminal contributes its Variable
// and a Variable terminal contributes itself; an AscriptionPattern yields
// none.
func (p Pattern[T]) Variables() []Variable {
	var out []Variable
	Walk(p, func(t T) {
		switch v := any(t).(type) {
		case BindingVariable:
			out = append(out, v.Variable)
		case Variable:
			out = append(out, v)
		}
	})
	return out
}
