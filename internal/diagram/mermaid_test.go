package diagram

import (
	"strings"
	"testing"

	"github.com/rendis/flowtree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *schema.ProcessGraph {
	return &schema.ProcessGraph{
		ID:   "proc",
		Name: "Order intake",
		Nodes: []schema.Node{
			{ID: "start", Kind: schema.NodeKindStart},
			{ID: "check", Kind: schema.NodeKindExclusive, Name: "Check stock",
				Attributes: map[string]string{schema.AttrOperation: "branch"}},
			{ID: "ship", Kind: schema.NodeKindTask,
				Attributes: map[string]string{schema.AttrOperation: "ship"}},
			{ID: "end", Kind: schema.NodeKindEnd},
		},
		Edges: []schema.Edge{
			{ID: "f1", Source: "start", Target: "check"},
			{ID: "f2", Source: "check", Target: "ship", Condition: `attributes.stock == "ok"`},
			{ID: "f3", Source: "ship", Target: "end"},
		},
	}
}

func TestBuild(t *testing.T) {
	model := Build(sampleGraph())

	assert.Equal(t, "Order intake", model.Title)
	require.Len(t, model.Nodes, 4)
	assert.Equal(t, "Check stock", model.Nodes[1].Label)
	require.Len(t, model.Edges, 3)
	assert.Equal(t, `attributes.stock == "ok"`, model.Edges[1].Label)
}

func TestBuild_Nil(t *testing.T) {
	model := Build(nil)
	assert.Empty(t, model.Nodes)
}

func TestBuild_SubprocessBecomesSubgraph(t *testing.T) {
	g := sampleGraph()
	g.Nodes = append(g.Nodes, schema.Node{
		ID:   "S",
		Kind: schema.NodeKindSubprocess,
		Graph: &schema.ProcessGraph{
			ID: "inner",
			Nodes: []schema.Node{
				{ID: "istart", Kind: schema.NodeKindStart},
				{ID: "iend", Kind: schema.NodeKindEnd},
			},
			Edges: []schema.Edge{{Source: "istart", Target: "iend"}},
		},
	})

	model := Build(g)
	sub := model.Nodes[4].Children
	require.NotNil(t, sub)
	assert.Equal(t, "inner", sub.Label)
	assert.Len(t, sub.Nodes, 2)
	assert.Len(t, sub.Edges, 1)
}

func TestRenderMermaid(t *testing.T) {
	out := RenderMermaid(Build(sampleGraph()))

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "%% Order intake")
	assert.Contains(t, out, `start(("start"))`)
	assert.Contains(t, out, `check{"Check stock"}`)
	assert.Contains(t, out, `ship["ship"]`)
	assert.Contains(t, out, `check -->|attributes.stock == "ok"| ship`)
}

func TestRenderMermaid_Subgraph(t *testing.T) {
	g := sampleGraph()
	g.Nodes = append(g.Nodes, schema.Node{
		ID:   "sub-proc",
		Kind: schema.NodeKindSubprocess,
		Graph: &schema.ProcessGraph{
			ID: "inner",
			Nodes: []schema.Node{
				{ID: "istart", Kind: schema.NodeKindStart},
				{ID: "iend", Kind: schema.NodeKindEnd},
			},
			Edges: []schema.Edge{{Source: "istart", Target: "iend"}},
		},
	})

	out := RenderMermaid(Build(g))
	assert.Contains(t, out, `subgraph sub_proc["inner"]`)
	assert.Contains(t, out, "istart --> iend")
}
