package diagram

import "github.com/rendis/flowtree/pkg/schema"

// Build constructs a diagram Model from a ProcessGraph. Nodes keep document
// order; subprocess nodes carry their nested body as a Subgraph.
func Build(g *schema.ProcessGraph) *Model {
	if g == nil {
		return &Model{}
	}

	return &Model{
		Title: g.Label(),
		Nodes: buildNodes(g),
		Edges: buildEdges(g),
	}
}

func buildNodes(g *schema.ProcessGraph) []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for i := range g.Nodes {
		src := &g.Nodes[i]
		node := &Node{
			ID:    src.ID,
			Label: src.Label(),
			Kind:  src.Kind,
		}
		if src.Kind == schema.NodeKindSubprocess && src.Graph != nil {
			node.Children = &Subgraph{
				Label: src.Graph.Label(),
				Nodes: buildNodes(src.Graph),
				Edges: buildEdges(src.Graph),
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func buildEdges(g *schema.ProcessGraph) []Edge {
	edges := make([]Edge, 0, len(g.Edges))
	for i := range g.Edges {
		src := &g.Edges[i]
		edges = append(edges, Edge{
			From:  src.Source,
			To:    src.Target,
			Label: src.Condition,
		})
	}
	return edges
}
