package inference

import (
	"fmt"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
)

// UnificationError reports two types that could not be unified (spec.md
// §4.1 "Failure modes": Unification(left, right)).
func UnificationError(left, right InferenceType, forest *Forest) *errors.Report {
	return errors.New("typing", errors.TYP001,
		fmt.Sprintf("cannot unify %s with %s", forest.Describe(left), forest.Describe(right)))
}

// RecursiveError reports an occurs-check failure (Recursive(variable)).
func RecursiveError(v VariableID, forest *Forest) *errors.Report {
	return errors.New("typing", errors.TYP002,
		fmt.Sprintf("recursive type: variable %s occurs in its own binding", forest.DescribeVariable(v)))
}

// UnresolvedError reports a free, non-template variable surviving to
// construction (Unresolved(variable)).
func UnresolvedError(v VariableID, forest *Forest) *errors.Report {
	return errors.New("typing", errors.TYP003,
		fmt.Sprintf("unresolved inference variable %s", forest.DescribeVariable(v)))
}
