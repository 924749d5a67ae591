package validation

import (
	"fmt"

	"github.com/rendis/flowtree/internal/expressions"
	"github.com/rendis/flowtree/pkg/schema"
)

// validateSemantic performs semantic analysis on a process graph:
// id uniqueness, edge endpoint resolution, start/end marker counts,
// subprocess payloads, operation bindings, and guard condition placement
// and compilability. Recurses into subprocess graphs.
func validateSemantic(g *schema.ProcessGraph, guards *expressions.GuardSet) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	validateGraphSemantic(g, "", guards, result)
	return result
}

func validateGraphSemantic(g *schema.ProcessGraph, prefix string, guards *expressions.GuardSet, result *schema.ValidationResult) {
	nodeKinds := make(map[string]schema.NodeKind, len(g.Nodes))
	outDegree := make(map[string]int, len(g.Nodes))

	starts, ends := 0, 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		path := fmt.Sprintf("%snodes[%d]", prefix, i)

		if _, dup := nodeKinds[n.ID]; dup {
			result.AddError(path, schema.ErrCodeValidation,
				fmt.Sprintf("duplicate node id %q", n.ID))
		}
		nodeKinds[n.ID] = n.Kind

		switch n.Kind {
		case schema.NodeKindStart:
			starts++
		case schema.NodeKindEnd:
			ends++
		case schema.NodeKindTask, schema.NodeKindExclusive, schema.NodeKindParallel:
			if n.Operation() == "" {
				result.AddError(path, schema.ErrCodeMissingOperation,
					fmt.Sprintf("%s node %q has no operation binding", n.Kind, n.ID))
			}
		case schema.NodeKindSubprocess:
			if n.Graph == nil {
				result.AddError(path, schema.ErrCodeMalformedGraph,
					fmt.Sprintf("subprocess node %q has no graph payload", n.ID))
			} else {
				validateGraphSemantic(n.Graph, path+".graph.", guards, result)
			}
		}
	}

	if starts == 0 {
		result.AddError(prefix+"nodes", schema.ErrCodeMalformedGraph,
			fmt.Sprintf("process %q has no start node", g.ID))
	} else if starts > 1 {
		result.AddError(prefix+"nodes", schema.ErrCodeMalformedGraph,
			fmt.Sprintf("process %q has %d start nodes, expected exactly one", g.ID, starts))
	}
	if ends == 0 {
		result.AddError(prefix+"nodes", schema.ErrCodeMalformedGraph,
			fmt.Sprintf("process %q has no end node", g.ID))
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		path := fmt.Sprintf("%sedges[%d]", prefix, i)

		if e.ID != "" {
			if edgeIDs[e.ID] {
				result.AddError(path, schema.ErrCodeValidation,
					fmt.Sprintf("duplicate edge id %q", e.ID))
			}
			edgeIDs[e.ID] = true
		}

		srcKind, srcOK := nodeKinds[e.Source]
		if !srcOK {
			result.AddError(path, schema.ErrCodeValidation,
				fmt.Sprintf("edge references non-existent source node %q", e.Source))
		}
		if _, ok := nodeKinds[e.Target]; !ok {
			result.AddError(path, schema.ErrCodeValidation,
				fmt.Sprintf("edge references non-existent target node %q", e.Target))
		}
		if srcOK {
			outDegree[e.Source]++
		}

		if e.Condition != "" {
			if srcOK && srcKind != schema.NodeKindExclusive {
				result.AddWarning(path, schema.ErrCodeValidation,
					fmt.Sprintf("guard condition on edge leaving %s node %q is ignored", srcKind, e.Source))
			}
			if guards != nil {
				if err := guards.Check(e.Condition); err != nil {
					result.AddError(path, schema.ErrCodeValidation,
						fmt.Sprintf("guard condition does not compile: %s", err.Error()))
				}
			}
		}
	}

	// The start node's single outgoing edge is the process entry point.
	for i := range g.Nodes {
		if g.Nodes[i].Kind != schema.NodeKindStart {
			continue
		}
		id := g.Nodes[i].ID
		switch outDegree[id] {
		case 0:
			result.AddError(prefix+"edges", schema.ErrCodeMalformedGraph,
				fmt.Sprintf("start node %q has no outgoing edge", id))
		case 1:
		default:
			result.AddWarning(prefix+"edges", schema.ErrCodeMalformedGraph,
				fmt.Sprintf("start node %q has %d outgoing edges; only the first is followed", id, outDegree[id]))
		}
	}
}
