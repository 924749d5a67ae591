package expressions

import "context"

// Engine evaluates expressions attached to a process model.
// Three implementations: CEL and Expr for edge guard conditions, GoJQ for
// queries over conversion output.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
