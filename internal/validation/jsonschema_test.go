package validation

import (
	"testing"

	"github.com/rendis/flowtree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGraph() *schema.ProcessGraph {
	return &schema.ProcessGraph{
		ID: "proc",
		Nodes: []schema.Node{
			{ID: "start", Kind: schema.NodeKindStart},
			{ID: "A", Kind: schema.NodeKindTask, Attributes: map[string]string{schema.AttrOperation: "click"}},
			{ID: "end", Kind: schema.NodeKindEnd},
		},
		Edges: []schema.Edge{
			{ID: "f1", Source: "start", Target: "A"},
			{ID: "f2", Source: "A", Target: "end"},
		},
	}
}

func TestJSONSchemaValidator_ValidGraph(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	assert.NoError(t, v.ValidateGraph(validGraph()))
}

func TestJSONSchemaValidator_NilGraph(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	assert.Error(t, v.ValidateGraph(nil))
}

func TestJSONSchemaValidator_MissingRequiredFields(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	err = v.ValidateDocument(map[string]any{"name": "no id or nodes"})
	require.Error(t, err)

	fterr, ok := err.(*schema.FlowtreeError)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCodeValidation, fterr.Code)
}

func TestJSONSchemaValidator_UnknownKind(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	err = v.ValidateDocument(map[string]any{
		"id": "proc",
		"nodes": []any{
			map[string]any{"id": "n1", "kind": "teleport"},
		},
		"edges": []any{},
	})
	assert.Error(t, err)
}

func TestJSONSchemaValidator_NestedSubprocessDocument(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	err = v.ValidateDocument(map[string]any{
		"id": "proc",
		"nodes": []any{
			map[string]any{"id": "start", "kind": "start"},
			map[string]any{
				"id":   "S",
				"kind": "subprocess",
				"graph": map[string]any{
					"id": "inner",
					"nodes": []any{
						map[string]any{"id": "istart", "kind": "start"},
						map[string]any{"id": "iend", "kind": "end"},
					},
					"edges": []any{
						map[string]any{"source": "istart", "target": "iend"},
					},
				},
			},
			map[string]any{"id": "end", "kind": "end"},
		},
		"edges": []any{
			map[string]any{"source": "start", "target": "S"},
			map[string]any{"source": "S", "target": "end"},
		},
	})
	assert.NoError(t, err)
}

func TestJSONSchemaValidator_EdgeWithoutEndpoints(t *testing.T) {
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)

	err = v.ValidateDocument(map[string]any{
		"id": "proc",
		"nodes": []any{
			map[string]any{"id": "start", "kind": "start"},
		},
		"edges": []any{
			map[string]any{"id": "f1"},
		},
	})
	assert.Error(t, err)
}
