package expressions

import (
	"context"
	"strings"

	"github.com/rendis/flowtree/pkg/schema"
)

// Guard condition dialects. A condition may carry a dialect prefix
// ("cel:" or "expr:"); untagged conditions default to CEL.
const (
	DialectCEL  = "cel"
	DialectExpr = "expr"
)

// SplitDialect separates the dialect tag from the bare expression.
func SplitDialect(condition string) (dialect, expression string) {
	if rest, ok := strings.CutPrefix(condition, DialectCEL+":"); ok {
		return DialectCEL, strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(condition, DialectExpr+":"); ok {
		return DialectExpr, strings.TrimSpace(rest)
	}
	return DialectCEL, strings.TrimSpace(condition)
}

// GuardSet resolves guard conditions declared on sequence flows to the
// dialect-matching engine. Safe for concurrent use.
type GuardSet struct {
	cel  *CELEngine
	expr *ExprEngine
}

// NewGuardSet creates a GuardSet backed by fresh CEL and Expr engines.
func NewGuardSet() (*GuardSet, error) {
	celEngine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	return &GuardSet{cel: celEngine, expr: NewExprEngine()}, nil
}

// Check compiles the condition without evaluating it. Used by the validation
// pipeline to reject guard expressions that can never run.
func (g *GuardSet) Check(condition string) error {
	dialect, expression := SplitDialect(condition)
	if expression == "" {
		return schema.NewError(schema.ErrCodeValidation, "empty guard condition")
	}
	switch dialect {
	case DialectExpr:
		return g.expr.Compile(expression)
	default:
		return g.cel.Compile(expression)
	}
}

// Evaluate runs the condition against the given data and coerces the result
// to a boolean. A non-boolean result is an execution error: guards decide
// flow, they do not transform data.
func (g *GuardSet) Evaluate(ctx context.Context, condition string, data map[string]any) (bool, error) {
	dialect, expression := SplitDialect(condition)

	var engine Engine = g.cel
	if dialect == DialectExpr {
		engine = g.expr
	}

	out, err := engine.Evaluate(ctx, expression, data)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, schema.NewErrorf(schema.ErrCodeExecution,
			"guard condition %q returned %T, expected bool", condition, out)
	}
	return b, nil
}
