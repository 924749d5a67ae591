package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rendis/flowtree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test helpers ---

func buildRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	}
}

func sampleDocument() map[string]any {
	return map[string]any{
		"id":   "proc",
		"name": "Sample process",
		"nodes": []any{
			map[string]any{"id": "start", "kind": "start"},
			map[string]any{
				"id":         "A",
				"kind":       "task",
				"name":       "Step A",
				"attributes": map[string]any{"operation": "opA"},
			},
			map[string]any{
				"id":         "B",
				"kind":       "task",
				"name":       "Step B",
				"attributes": map[string]any{"operation": "opB"},
			},
			map[string]any{"id": "end", "kind": "end"},
		},
		"edges": []any{
			map[string]any{"id": "f1", "source": "start", "target": "A"},
			map[string]any{"id": "f2", "source": "A", "target": "B"},
			map[string]any{"id": "f3", "source": "B", "target": "end"},
		},
	}
}

func newTestServer(t *testing.T) *FlowtreeServer {
	t.Helper()
	s, err := NewFlowtreeServer(FlowtreeServerDeps{})
	require.NoError(t, err)
	return s
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

func unmarshalResult(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	text := extractText(t, result)
	require.NoError(t, json.Unmarshal([]byte(text), target))
}

// --- Tests ---

func TestConvertTool(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.convert", map[string]any{
		"document": sampleDocument(),
	})

	result, err := s.handleConvert(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	var resp struct {
		ConversionID string          `json:"conversion_id"`
		Tree         json.RawMessage `json:"tree"`
		Info         map[string]any  `json:"info"`
	}
	unmarshalResult(t, result, &resp)

	assert.NotEmpty(t, resp.ConversionID)
	assert.JSONEq(t, `{"Process":["A","B"]}`, string(resp.Tree))
	assert.Len(t, resp.Info, 2)

	// Result is retained for later queries.
	_, ok := s.results.Get(resp.ConversionID)
	assert.True(t, ok)
}

func TestConvertToolMissingDocument(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.convert", map[string]any{})
	result, err := s.handleConvert(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestConvertToolInvalidDocument(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.convert", map[string]any{
		"document": map[string]any{"name": "no id, nodes, or edges"},
	})
	result, err := s.handleConvert(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestConvertToolStrictJoins(t *testing.T) {
	doc := sampleDocument()
	doc["nodes"] = []any{
		map[string]any{"id": "start", "kind": "start"},
		map[string]any{"id": "split", "kind": "parallel", "attributes": map[string]any{"operation": "fork"}},
		map[string]any{"id": "A", "kind": "task", "attributes": map[string]any{"operation": "opA"}},
		map[string]any{"id": "B", "kind": "task", "attributes": map[string]any{"operation": "opB"}},
		map[string]any{"id": "join", "kind": "parallel", "attributes": map[string]any{"operation": "merge"}},
		map[string]any{"id": "end", "kind": "end"},
	}
	doc["edges"] = []any{
		map[string]any{"id": "f1", "source": "start", "target": "split"},
		map[string]any{"id": "f2", "source": "split", "target": "A"},
		map[string]any{"id": "f3", "source": "split", "target": "B"},
		map[string]any{"id": "f4", "source": "A", "target": "join"},
		map[string]any{"id": "f5", "source": "join", "target": "end"},
	}

	s := newTestServer(t)

	// Branch B dead-ends before the join: lenient by default.
	req := buildRequest("flowtree.convert", map[string]any{"document": doc})
	result, err := s.handleConvert(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	// Strict mode rejects the same document.
	req = buildRequest("flowtree.convert", map[string]any{
		"document":     doc,
		"strict_joins": true,
	})
	result, err = s.handleConvert(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), schema.ErrCodeInconsistentJoin)
}

func TestValidateTool(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.validate", map[string]any{
		"document": sampleDocument(),
	})

	result, err := s.handleValidate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var vr schema.ValidationResult
	unmarshalResult(t, result, &vr)
	assert.True(t, vr.Valid())
	assert.Empty(t, vr.Errors)
}

func TestValidateToolReportsIssues(t *testing.T) {
	doc := sampleDocument()
	// Drop the operation from task A.
	doc["nodes"].([]any)[1].(map[string]any)["attributes"] = map[string]any{}

	s := newTestServer(t)

	req := buildRequest("flowtree.validate", map[string]any{"document": doc})
	result, err := s.handleValidate(context.Background(), req)
	require.NoError(t, err)
	// Validation problems are part of the result, not a tool error.
	assert.False(t, result.IsError)

	var vr schema.ValidationResult
	unmarshalResult(t, result, &vr)
	assert.False(t, vr.Valid())
	require.NotEmpty(t, vr.Errors)
	assert.Equal(t, schema.ErrCodeMissingOperation, vr.Errors[0].Code)
}

func TestValidateToolStructuralFailure(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.validate", map[string]any{
		"document": map[string]any{"nodes": "not a list"},
	})
	result, err := s.handleValidate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var vr schema.ValidationResult
	unmarshalResult(t, result, &vr)
	assert.False(t, vr.Valid())
}

func TestValidateToolMissingDocument(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.validate", map[string]any{})
	result, err := s.handleValidate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestQueryTool(t *testing.T) {
	s := newTestServer(t)

	convReq := buildRequest("flowtree.convert", map[string]any{
		"document": sampleDocument(),
	})
	convResult, err := s.handleConvert(context.Background(), convReq)
	require.NoError(t, err)
	require.False(t, convResult.IsError)

	var resp struct {
		ConversionID string `json:"conversion_id"`
	}
	unmarshalResult(t, convResult, &resp)

	req := buildRequest("flowtree.query", map[string]any{
		"conversion_id": resp.ConversionID,
		"expression":    `.tree.Process | length`,
	})
	result, err := s.handleQuery(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var count float64
	unmarshalResult(t, result, &count)
	assert.Equal(t, float64(2), count)
}

func TestQueryToolInfoLookup(t *testing.T) {
	s := newTestServer(t)

	convResult, err := s.handleConvert(context.Background(), buildRequest("flowtree.convert", map[string]any{
		"document": sampleDocument(),
	}))
	require.NoError(t, err)
	require.False(t, convResult.IsError)

	var resp struct {
		ConversionID string `json:"conversion_id"`
	}
	unmarshalResult(t, convResult, &resp)

	result, err := s.handleQuery(context.Background(), buildRequest("flowtree.query", map[string]any{
		"conversion_id": resp.ConversionID,
		"expression":    `.info.A.concept`,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var concept string
	unmarshalResult(t, result, &concept)
	assert.Equal(t, "opA", concept)
}

func TestQueryToolUnknownConversion(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowtree.query", map[string]any{
		"conversion_id": "nope",
		"expression":    ".",
	})
	result, err := s.handleQuery(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestQueryToolMissingParams(t *testing.T) {
	s := newTestServer(t)

	// Missing conversion_id.
	result, err := s.handleQuery(context.Background(), buildRequest("flowtree.query", map[string]any{
		"expression": ".",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	// Missing expression.
	result, err = s.handleQuery(context.Background(), buildRequest("flowtree.query", map[string]any{
		"conversion_id": "abc",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestConversionRegistry(t *testing.T) {
	r := NewConversionRegistry()
	assert.Equal(t, 0, r.Len())

	tree := &schema.ProcessTree{}
	r.Put("a", tree)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, tree, got)

	r.Remove("a")
	_, ok = r.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
