package cache

import (
	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// Key identifies one cached entity by declaration path and reversibility
// mode (spec.md §3 "keying all caches on (path, reversibility)"). The path
// is held in its String form, since a DeclarationPath is not comparable.
// Passes whose output does not depend on reversibility — parsing and
// inference — always key with Reversibility's zero value, Reversible.
type Key struct {
	Path          string
	Reversibility basic.Reversibility
}

// FunctionKey builds a Key for a function path, ignoring reversibility.
func FunctionKey(p path.FunctionPath) Key { return Key{Path: p.String()} }

// LoweringKey builds a Key for a function lowered under a given mode.
func LoweringKey(p path.FunctionPath, r basic.Reversibility) Key {
	return Key{Path: p.String(), Reversibility: r}
}

// Caches bundles the five concurrent memoising maps spanning the pipeline
// (spec.md §5 "Concurrency & resource model"): node-building, inference,
// lowering, and partial evaluation each read the prior stage's cache and
// write their own, so a single Caches value is threaded through a whole
// compilation.
type Caches struct {
	// NodeFunctions holds each function's built expression arena, keyed by
	// path alone — the arena does not vary with reversibility, though the
	// partial evaluator mutates FunctionContext slots in place after this
	// entry is frozen (spec.md §3 "Lifecycles").
	NodeFunctions *Memo[Key, *node.FunctionContext]

	// FunctionTypes and TypeContexts both come out of one inference pass;
	// they are separate caches because callers sometimes only need the
	// function's external signature, not every expression's resolved type.
	FunctionTypes *Memo[Key, inference.FunctionSignature]
	TypeContexts  *Memo[Key, *inference.TypeContext]

	// BasicFunctions holds lowered basic IR, keyed by (path, reversibility)
	// since Reversible and Entropic lowerings of the same function differ.
	BasicFunctions *Memo[Key, *basic.BasicFunction]

	// PartialFunctions holds the result of running the partial evaluator
	// over a NodeFunctions entry's arena: the same function with every
	// compile-time call folded to an item.Item literal.
	PartialFunctions *Memo[Key, *node.FunctionContext]
}

// NewCaches allocates an empty set of caches for one compilation.
func NewCaches() *Caches {
	return &Caches{
		NodeFunctions:    New[Key, *node.FunctionContext](),
		FunctionTypes:    New[Key, inference.FunctionSignature](),
		TypeContexts:     New[Key, *inference.TypeContext](),
		BasicFunctions:   New[Key, *basic.BasicFunction](),
		PartialFunctions: New[Key, *node.FunctionContext](),
	}
}
