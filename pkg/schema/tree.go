package schema

import (
	"bytes"
	"encoding/json"
)

// Reserved group keys. Any other key is a node id.
const (
	// GroupKeyFlow marks a sequential segment with more than one element.
	GroupKeyFlow = "Flow"
	// GroupKeyProcess is the root key for processes without an operation binding.
	GroupKeyProcess = "Process"
)

// TreeNode is one element of the conversion output: either a Leaf referencing
// a task node by id, or a Group holding an ordered list of subtrees under a
// single key.
type TreeNode interface {
	treeNode()
}

// Leaf references a single task node by id. JSON form: a bare string.
type Leaf string

func (Leaf) treeNode() {}

// Group is a keyed, ordered list of subtrees. The key is "Flow" for
// sequential segments, a split node id for branch groups, and the process id
// (or "Process") at the root. JSON form: {key: [children]}.
type Group struct {
	Key      string
	Children []TreeNode
}

func (Group) treeNode() {}

// MarshalJSON renders the group as a single-key object with an ordered array
// value. An empty group marshals as {key: []}.
func (g Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	key, err := json.Marshal(g.Key)
	if err != nil {
		return nil, err
	}
	buf.Write(key)
	buf.WriteByte(':')

	buf.WriteByte('[')
	for i, child := range g.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NodeInfo is the operational metadata recorded for a node during conversion.
type NodeInfo struct {
	Label   string `json:"label"`
	Concept string `json:"concept"`
}

// NodeInfoTable maps node ids to NodeInfo, preserving discovery order.
// A node is recorded once; later writes for the same id are ignored.
type NodeInfoTable struct {
	order   []string
	entries map[string]NodeInfo
}

// NewNodeInfoTable creates an empty NodeInfoTable.
func NewNodeInfoTable() *NodeInfoTable {
	return &NodeInfoTable{entries: make(map[string]NodeInfo)}
}

// Set records info for the given node id. The first write wins, so discovery
// order is the order of first encounters during the walk.
func (t *NodeInfoTable) Set(id string, info NodeInfo) {
	if _, exists := t.entries[id]; exists {
		return
	}
	t.order = append(t.order, id)
	t.entries[id] = info
}

// Get returns the info recorded for the given node id.
func (t *NodeInfoTable) Get(id string) (NodeInfo, bool) {
	info, ok := t.entries[id]
	return info, ok
}

// Has reports whether the given node id has been recorded.
func (t *NodeInfoTable) Has(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// Len returns the number of recorded nodes.
func (t *NodeInfoTable) Len() int {
	return len(t.order)
}

// IDs returns the recorded node ids in discovery order.
func (t *NodeInfoTable) IDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// MarshalJSON renders the table as an object whose keys appear in discovery
// order.
func (t *NodeInfoTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.entries[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProcessTree is the result of one conversion: the nested tree and the
// metadata table accumulated during the walk. The caller owns both.
type ProcessTree struct {
	Root Group          `json:"tree"`
	Info *NodeInfoTable `json:"info"`
}
