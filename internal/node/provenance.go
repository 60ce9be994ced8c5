package node

import (
	"fmt"

	"github.com/Techno-coder/lexica-sub000/internal/sid"
)

// StableID reports the content-addressed identity computed for an arena
// entry at allocation time (see Alloc), surviving across rebuilds of an
// unchanged function the way the source surface's own stable IDs survive
// a re-parse. Because the ID is fixed at Alloc rather than recomputed, the
// partial evaluator's in-place Replace leaves a rewritten call's identity
// attached to the Item literal now sitting in its place, rather than
// minting a fresh one for the replacement.
func (fc *FunctionContext) StableID(key ExpressionKey) sid.SID { return fc.ids[key] }

// kindName names an expression variant for stable-ID hashing. It is a
// small closed set kept in sync with the Expression variants in
// expression.go; unrecognised variants fall back to their dynamic type
// name so a future addition still hashes deterministically rather than
// panicking.
func kindName(expr Expression) string {
	switch expr.(type) {
	case Block:
		return "block"
	case Let:
		return "let"
	case Loop:
		return "loop"
	case Conditional:
		return "conditional"
	case Mutation:
		return "mutation"
	case Drop:
		return "drop"
	case FieldAccess:
		return "field"
	case Call:
		return "call"
	case UnaryOp:
		return "unary"
	case BinaryOp:
		return "binary"
	case StructureLiteral:
		return "structure"
	case Match:
		return "match"
	case VariableRef:
		return "variable"
	case IntegerLiteral:
		return "integer"
	case TruthLiteral:
		return "truth"
	case ItemLiteral:
		return "item"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
