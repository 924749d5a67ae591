package schema

// NodeKind classifies a process node by its control-flow role.
type NodeKind string

const (
	NodeKindStart      NodeKind = "start"
	NodeKindEnd        NodeKind = "end"
	NodeKindTask       NodeKind = "task"
	NodeKindExclusive  NodeKind = "exclusive"
	NodeKindParallel   NodeKind = "parallel"
	NodeKindSubprocess NodeKind = "subprocess"
)

// AttrOperation is the node attribute naming the executable behavior bound to
// a node. Tasks and gateways must declare it; processes and sub-processes may.
const AttrOperation = "operation"

// Node is a single element of a process graph.
// Subprocess nodes carry their own nested ProcessGraph.
type Node struct {
	ID         string            `json:"id"`
	Kind       NodeKind          `json:"kind"`
	Name       string            `json:"name,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Graph      *ProcessGraph     `json:"graph,omitempty"`
}

// Operation returns the node's operation binding, or "" when unbound.
func (n *Node) Operation() string {
	return n.Attributes[AttrOperation]
}

// Label returns the human-readable name, falling back to the node id.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// IsGateway reports whether the node opens or closes divergent flow.
func (n *Node) IsGateway() bool {
	return n.Kind == NodeKindExclusive || n.Kind == NodeKindParallel
}

// Edge is a directed sequence flow between two nodes, referenced by id.
// Outgoing edges of a node keep document order; order is significant for
// branch ordering at splits.
type Edge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Condition string `json:"condition,omitempty"` // guard expression, exclusive splits only
}

// ProcessGraph is the read-only input model: a collection of nodes and
// directed sequence flows. The converter never mutates it.
type ProcessGraph struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Nodes      []Node            `json:"nodes"`
	Edges      []Edge            `json:"edges"`
}

// Operation returns the process's own operation binding, or "" when unbound.
// A process with an operation binding is itself an invokable unit.
func (g *ProcessGraph) Operation() string {
	return g.Attributes[AttrOperation]
}

// Label returns the process name, falling back to the process id.
func (g *ProcessGraph) Label() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}
