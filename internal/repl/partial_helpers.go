package repl

import (
	"github.com/Techno-coder/lexica-sub000/internal/declaration"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/partial"
)

// evaluatePartial runs the compile-time call evaluator over entry's
// expression arena in place, using the same resolver the rest of the
// session's pipeline shares.
func (r *REPL) evaluatePartial(entry *declaration.FunctionEntry, types *inference.TypeContext) error {
	return partial.Evaluate(entry.Context, types, r.resolve)
}

// countCompileCalls reports how many Execution::Compile calls remain in
// fc's arena, used by :partial to report progress before/after a pass.
func countCompileCalls(fc *node.FunctionContext) int {
	count := 0
	for _, key := range fc.Keys() {
		if call, ok := fc.Expression(key).(node.Call); ok && call.Execution == node.Compile {
			count++
		}
	}
	return count
}
