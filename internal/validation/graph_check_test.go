package validation

import (
	"testing"

	"github.com/rendis/flowtree/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateFlowGraph_Acyclic(t *testing.T) {
	result := validateFlowGraph(validGraph())
	assert.True(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

func TestValidateFlowGraph_Cycle(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, schema.Node{ID: "B", Kind: schema.NodeKindTask,
		Attributes: map[string]string{schema.AttrOperation: "loop"}})
	g.Edges = append(g.Edges,
		schema.Edge{ID: "f3", Source: "A", Target: "B"},
		schema.Edge{ID: "f4", Source: "B", Target: "A"},
	)

	result := validateFlowGraph(g)
	assert.False(t, result.Valid())
}

func TestValidateFlowGraph_UnreachableNodeWarns(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, schema.Node{ID: "orphan", Kind: schema.NodeKindTask,
		Attributes: map[string]string{schema.AttrOperation: "never"}})

	result := validateFlowGraph(g)
	assert.True(t, result.Valid())
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "orphan")
}

func TestValidateFlowGraph_CycleInSubprocess(t *testing.T) {
	inner := validGraph()
	inner.ID = "inner"
	inner.Edges = append(inner.Edges, schema.Edge{ID: "back", Source: "A", Target: "A"})

	g := validGraph()
	g.Nodes = append(g.Nodes, schema.Node{ID: "S", Kind: schema.NodeKindSubprocess, Graph: inner})
	g.Edges = append(g.Edges, schema.Edge{ID: "f3", Source: "A", Target: "S"})

	result := validateFlowGraph(g)
	assert.False(t, result.Valid())
}
