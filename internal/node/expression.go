package node

import (
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// ExpressionKey indexes into a FunctionContext's expression arena. Keys are
// never reused across a rebuild, and the partial evaluator's in-place
// rewrite replaces the arena slot without renumbering other keys, so a
// key remains valid across partial evaluation (spec.md §3 "Lifecycles").
type ExpressionKey int

// Execution tags a function/method call as resolved at compile time or
// left for code generation (spec.md §3 "Expression tree", glossary
// "Execution tag").
type Execution int

const (
	Runtime Execution = iota
	Compile
)

// Expression is the base interface every arena entry implements.
type Expression interface {
	Span() errors.Span
	exprNode()
}

// base is embedded by every concrete Expression to supply its span.
type base struct {
	span errors.Span
}

func (b base) Span() errors.Span { return b.span }

// NewBase constructs the span-carrying embed every expression variant uses.
func NewBase(span errors.Span) base { return base{span: span} }

// Block sequences expressions; the last one's value is the block's value
// (unit if empty), per spec.md §4.2 "Block".
type Block struct {
	base
	Expressions []ExpressionKey
}

func (Block) exprNode() {}

// Let is a non-recursive binding: `let pattern: ascription? = value`.
type Let struct {
	base
	Pattern    BindingPattern
	Ascription *TypeReference
	Value      ExpressionKey
}

func (Let) exprNode() {}

// Loop is the termination loop: an optional start condition Cs, a body,
// and a mandatory end condition Ce (spec.md §4.3.3 "Termination loop").
type Loop struct {
	base
	Start *ExpressionKey // Cs, optional
	End   ExpressionKey  // Ce
	Body  ExpressionKey
}

func (Loop) exprNode() {}

// ConditionalBranch is one `(Cs, Ce?, body)` arm of a Conditional.
type ConditionalBranch struct {
	Start ExpressionKey  // Cs
	End   *ExpressionKey // Ce, optional
	Body  ExpressionKey
}

// Conditional is a chain of branches; the first unsatisfied Cs falls
// through to the next (spec.md §4.3.3 "Conditional").
type Conditional struct {
	base
	Branches []ConditionalBranch
}

func (Conditional) exprNode() {}

// Mutation assigns a new value to an existing location.
type Mutation struct {
	base
	Target ExpressionKey
	Value  ExpressionKey
}

func (Mutation) exprNode() {}

// Drop is an explicit drop: `drop pattern = expression`, lowered to the
// inverse of the bound expression (spec.md §4.3.3 "Explicit drop").
type Drop struct {
	base
	Pattern VariablePattern
	Value   ExpressionKey
}

func (Drop) exprNode() {}

// FieldAccess reads a named field off a receiver expression.
type FieldAccess struct {
	base
	Receiver ExpressionKey
	Field    string
}

func (FieldAccess) exprNode() {}

// Call is a function or method call; method calls carry MethodReceiver.
type Call struct {
	base
	Function       path.FunctionPath
	Method         bool
	MethodReceiver ExpressionKey // valid iff Method
	Arguments      []ExpressionKey
	Execution      Execution
}

func (Call) exprNode() {}

// UnaryOp applies a unary operator to an operand.
type UnaryOp struct {
	base
	Op      string
	Operand ExpressionKey
}

func (UnaryOp) exprNode() {}

// BinaryOp applies a binary operator to two operands.
type BinaryOp struct {
	base
	Op    string
	Left  ExpressionKey
	Right ExpressionKey
}

func (BinaryOp) exprNode() {}

// StructureLiteral constructs a nominal instance from field expressions.
type StructureLiteral struct {
	base
	Structure path.StructurePath
	Fields    map[string]ExpressionKey
}

func (StructureLiteral) exprNode() {}

// MatchArm destructures a Match scrutinee either by tuple position or by
// instance field name (spec.md §4.3.3 Supplemental: match lowering,
// recovered from original_source/ per SPEC_FULL.md §4.3/§10).
type MatchArm struct {
	// Discriminant, if non-nil, names the nominal structure this arm
	// matches; nil means a catch-all arm.
	Discriminant *string
	// Exactly one of Tuple or Fields is populated, matching how the
	// scrutinee's resolved type is shaped.
	Tuple  []VariablePattern
	Fields map[string]VariablePattern
	Guard  *ExpressionKey
	Body   ExpressionKey
}

// Match pattern-matches a scrutinee against a sequence of arms, lowered to
// a divergence chain over field-projected locations (spec.md §4.3, §10).
type Match struct {
	base
	Scrutinee ExpressionKey
	Arms      []MatchArm
}

func (Match) exprNode() {}

// VariableRef references a previously-bound variable.
type VariableRef struct {
	base
	Variable Variable
}

func (VariableRef) exprNode() {}

// IntegerLiteral is an integer literal; its width is fixed only by an
// ascription elsewhere, per spec.md §4.2 "Literal integer".
type IntegerLiteral struct {
	base
	Value  uint64
	Signed bool
}

func (IntegerLiteral) exprNode() {}

// TruthLiteral is a boolean literal.
type TruthLiteral struct {
	base
	Value bool
}

func (TruthLiteral) exprNode() {}

// ItemLiteral holds a fully-evaluated compile-time value, installed either
// by the parser (rare) or by the partial evaluator's in-place rewrite
// (spec.md §4.4 "Replace the expression node with an Item literal").
type ItemLiteral struct {
	base
	Value item.Item
}

func (ItemLiteral) exprNode() {}
