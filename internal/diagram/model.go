package diagram

import "github.com/rendis/flowtree/pkg/schema"

// Model is the flattened, renderer-agnostic view of a process graph.
type Model struct {
	Title string
	Nodes []*Node
	Edges []Edge
}

// Node represents a single process node in the diagram.
type Node struct {
	ID       string
	Label    string
	Kind     schema.NodeKind
	Children *Subgraph // subprocess body, nil otherwise
}

// Subgraph holds the nested body of a subprocess node.
type Subgraph struct {
	Label string
	Nodes []*Node
	Edges []Edge
}

// Edge represents a sequence flow between two nodes.
type Edge struct {
	From  string
	To    string
	Label string // guard condition, when present
}
