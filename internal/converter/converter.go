package converter

import (
	"log/slog"

	"github.com/rendis/flowtree/pkg/schema"
)

// Converter turns a ProcessGraph into a strictly nested ProcessTree plus a
// node metadata table. Conversion is synchronous and single-threaded; the
// input graph is never mutated and all traversal state is local to one
// Convert call, so a Converter is safe for concurrent use.
type Converter struct {
	strictJoins bool
	logger      *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithStrictJoins promotes dead-ended split branches (a branch whose walk
// stops before reaching a join of the split's kind) to INCONSISTENT_JOIN.
// The default is lenient: a dead-ended branch is excluded from the same-join
// check and contributes no continuation node.
func WithStrictJoins() Option {
	return func(c *Converter) { c.strictJoins = true }
}

// WithLogger sets the logger used for walk tracing. Defaults to a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert locates the process's start node, walks its flow to the terminal
// End marker, and returns the resulting tree paired with the metadata table.
// The tree's root key is the process's own id when the process carries an
// operation binding (it is then also recorded in the table), or "Process"
// otherwise.
//
// Any failure aborts the whole conversion: no partial tree is returned.
func (c *Converter) Convert(graph *schema.ProcessGraph) (*schema.ProcessTree, error) {
	if graph == nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "process graph is nil")
	}

	w := &walker{conv: c, info: schema.NewNodeInfoTable()}

	root, err := w.parseProcess(processMeta{
		id:        graph.ID,
		label:     graph.Label(),
		operation: graph.Operation(),
	}, graph)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("conversion complete",
			slog.String("process_id", graph.ID),
			slog.Int("nodes_recorded", w.info.Len()))
	}

	return &schema.ProcessTree{Root: root, Info: w.info}, nil
}

// Convert is a convenience wrapper for one-shot conversions.
func Convert(graph *schema.ProcessGraph, opts ...Option) (*schema.ProcessTree, error) {
	return New(opts...).Convert(graph)
}

// processMeta identifies the process whose body is being walked: the graph
// itself at the root, the enclosing subprocess node below.
type processMeta struct {
	id        string
	label     string
	operation string
}

// walker carries the state of one Convert call.
type walker struct {
	conv *Converter
	info *schema.NodeInfoTable
}

// parseProcess resolves the unique edge leaving the Start node and walks the
// flow until the End marker. The returned group is keyed by the process id
// when the process carries an operation binding, "Process" otherwise. The
// root value is always the uncollapsed ordered segment list.
func (w *walker) parseProcess(meta processMeta, graph *schema.ProcessGraph) (schema.Group, error) {
	if graph == nil {
		return schema.Group{}, schema.NewErrorf(schema.ErrCodeMalformedGraph,
			"process %s has no graph payload", meta.id).WithNode(meta.id)
	}

	ix := newGraphIndex(graph)

	start, ok := ix.startEdge()
	if !ok {
		return schema.Group{}, schema.NewErrorf(schema.ErrCodeMalformedGraph,
			"process %s has no edge leaving a start node", meta.id).WithNode(meta.id)
	}

	first := ix.node(start.Target)
	if first == nil {
		return schema.Group{}, schema.NewErrorf(schema.ErrCodeMalformedGraph,
			"start edge %s targets unknown node %s", start.ID, start.Target).WithNode(meta.id)
	}

	segment, _, err := w.walkFlowUntil(ix, first, schema.NodeKindEnd)
	if err != nil {
		return schema.Group{}, err
	}

	key := schema.GroupKeyProcess
	if meta.operation != "" {
		w.info.Set(meta.id, schema.NodeInfo{Label: meta.label, Concept: meta.operation})
		key = meta.id
	}

	return schema.Group{Key: key, Children: segment}, nil
}

// walkFlowUntil walks the flow starting at node, resolving each visited node
// to a tree fragment and advancing along the first outgoing edge, until it
// reaches a node of the termination kind or the flow dead-ends. It returns
// the ordered fragments and the node where the walk stopped; the stop node is
// nil when the flow dead-ended before reaching the termination kind.
func (w *walker) walkFlowUntil(ix *graphIndex, node *schema.Node, termination schema.NodeKind) ([]schema.TreeNode, *schema.Node, error) {
	var segment []schema.TreeNode

	cur := node
	for cur != nil && cur.Kind != termination {
		fragment, next, err := w.resolveSegment(ix, cur)
		if err != nil {
			return nil, nil, err
		}
		if fragment != nil {
			segment = append(segment, fragment)
		}
		if next == nil {
			return segment, nil, nil
		}

		edge := ix.firstOutgoing(next.ID)
		if edge == nil {
			return segment, nil, nil
		}
		cur = ix.node(edge.Target)
	}

	return segment, cur, nil
}

// resolveSegment resolves a single node to a tree fragment, dispatching by
// kind. It returns the fragment (nil for kinds that contribute nothing) and
// the node from which the enclosing walk should continue (nil terminates the
// walk).
func (w *walker) resolveSegment(ix *graphIndex, node *schema.Node) (schema.TreeNode, *schema.Node, error) {
	switch node.Kind {
	case schema.NodeKindTask:
		if err := w.recordNodeInfo(node); err != nil {
			return nil, nil, err
		}
		return schema.Leaf(node.ID), node, nil

	case schema.NodeKindExclusive, schema.NodeKindParallel:
		return w.resolveSplit(ix, node)

	case schema.NodeKindSubprocess:
		// The walk continues from the enclosing subprocess node, never from
		// the inner End marker.
		sub, err := w.parseProcess(processMeta{
			id:        node.ID,
			label:     node.Label(),
			operation: node.Operation(),
		}, node.Graph)
		if err != nil {
			return nil, nil, err
		}
		return sub, node, nil

	default:
		return nil, nil, nil
	}
}

// resolveSplit explores every outgoing edge of the split independently, each
// branch walked until a join of the split's own kind. Branches are positional
// and keep edge order. All branches must converge at the same join node (by
// id); the shared join is returned so the enclosing walk can continue past
// the split.
func (w *walker) resolveSplit(ix *graphIndex, split *schema.Node) (schema.TreeNode, *schema.Node, error) {
	if err := w.recordNodeInfo(split); err != nil {
		return nil, nil, err
	}

	outgoing := ix.outgoing(split.ID)
	branches := make([]schema.TreeNode, 0, len(outgoing))

	var join *schema.Node
	for i, edge := range outgoing {
		segment, last, err := w.walkFlowUntil(ix, ix.node(edge.Target), split.Kind)
		if err != nil {
			return nil, nil, err
		}
		branches = append(branches, collapse(segment))

		if last == nil {
			if w.conv.strictJoins {
				return nil, nil, schema.NewErrorf(schema.ErrCodeInconsistentJoin,
					"branch %d of split %s dead-ends before reaching its join", i, split.ID).
					WithNode(split.ID)
			}
			continue
		}
		if join == nil {
			join = last
			continue
		}
		if join.ID != last.ID {
			return nil, nil, schema.NewErrorf(schema.ErrCodeInconsistentJoin,
				"diagram structure is inconsistent: branches of split %s join at %s and %s",
				split.ID, join.ID, last.ID).WithNode(split.ID)
		}
	}

	return schema.Group{Key: split.ID, Children: branches}, join, nil
}

// collapse applies the single-element rule: a segment with exactly one
// element is that element, anything else is wrapped in a Flow group. This is
// the sole mechanism for avoiding spurious single-child wrappers.
func collapse(segment []schema.TreeNode) schema.TreeNode {
	if len(segment) == 1 {
		return segment[0]
	}
	return schema.Group{Key: schema.GroupKeyFlow, Children: segment}
}

// recordNodeInfo registers label and concept metadata for the node. Every
// task and gateway must declare an operation binding; absence is a
// configuration error, not a recoverable case.
func (w *walker) recordNodeInfo(node *schema.Node) error {
	op := node.Operation()
	if op == "" {
		return schema.NewErrorf(schema.ErrCodeMissingOperation,
			"%s node %s has no operation binding", node.Kind, node.ID).WithNode(node.ID)
	}
	w.info.Set(node.ID, schema.NodeInfo{Label: node.Label(), Concept: op})
	return nil
}
