package converter

import "github.com/rendis/flowtree/pkg/schema"

// graphIndex is the id-keyed view of one ProcessGraph level. Traversal reads
// only by id, so the source model may carry reference cycles without the
// converter ever following one.
type graphIndex struct {
	graph *schema.ProcessGraph
	nodes map[string]*schema.Node
	out   map[string][]*schema.Edge // source id → outgoing edges in document order
}

func newGraphIndex(g *schema.ProcessGraph) *graphIndex {
	ix := &graphIndex{
		graph: g,
		nodes: make(map[string]*schema.Node, len(g.Nodes)),
		out:   make(map[string][]*schema.Edge, len(g.Nodes)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		ix.nodes[n.ID] = n
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		ix.out[e.Source] = append(ix.out[e.Source], e)
	}
	return ix
}

// node returns the node with the given id, or nil.
func (ix *graphIndex) node(id string) *schema.Node {
	return ix.nodes[id]
}

// outgoing returns the outgoing edges of the given node in document order.
func (ix *graphIndex) outgoing(id string) []*schema.Edge {
	return ix.out[id]
}

// firstOutgoing returns the first outgoing edge of the given node, or nil at
// a dead end.
func (ix *graphIndex) firstOutgoing(id string) *schema.Edge {
	edges := ix.out[id]
	if len(edges) == 0 {
		return nil
	}
	return edges[0]
}

// startEdge scans the sequence flows in document order for the first one
// whose source is a start node. Absence is not an error at this level; the
// caller escalates it.
func (ix *graphIndex) startEdge() (*schema.Edge, bool) {
	for i := range ix.graph.Edges {
		e := &ix.graph.Edges[i]
		if n := ix.nodes[e.Source]; n != nil && n.Kind == schema.NodeKindStart {
			return e, true
		}
	}
	return nil, false
}
