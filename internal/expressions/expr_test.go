package expressions

import (
	"context"
	"testing"

	"github.com/rendis/flowtree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprEngine_Name(t *testing.T) {
	e := NewExprEngine()
	assert.Equal(t, "expr", e.Name())
}

func TestExprEngine_Evaluate_Basic(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), `attributes.retries > 2`, map[string]any{
		"attributes": map[string]any{"retries": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExprEngine_Evaluate_NilCoalescing(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), `attributes?.missing ?? "fallback"`, map[string]any{
		"attributes": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)
}

func TestExprEngine_Evaluate_UndefinedVariablesAllowed(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), `unknown == nil`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExprEngine_Evaluate_EmptyExpression(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "", nil)
	require.Error(t, err)
	fterr, ok := err.(*schema.FlowtreeError)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCodeValidation, fterr.Code)
}

func TestExprEngine_Compile_Invalid(t *testing.T) {
	e := NewExprEngine()

	err := e.Compile("1 +")
	require.Error(t, err)
	fterr, ok := err.(*schema.FlowtreeError)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCodeValidation, fterr.Code)
}

func TestExprEngine_CacheReuse(t *testing.T) {
	e := NewExprEngine()

	require.NoError(t, e.Compile("1 + 1 == 2"))
	require.NoError(t, e.Compile("1 + 1 == 2"))
	assert.Len(t, e.cache, 1)
}
