package validation

import (
	"fmt"
	"sort"

	"github.com/rendis/flowtree/pkg/schema"
)

// validateFlowGraph performs graph analysis on each process level:
// cycle detection (Kahn's algorithm) and reachability from the start marker
// (BFS). The converter always advances along an edge, so any cycle would
// make a walk non-terminating; cycles are hard errors. Unreachable nodes are
// warnings: they produce no tree fragment but break nothing.
func validateFlowGraph(g *schema.ProcessGraph) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	checkLevel(g, "", result)
	return result
}

func checkLevel(g *schema.ProcessGraph, prefix string, result *schema.ValidationResult) {
	nodeIDs := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		nodeIDs[g.Nodes[i].ID] = true
	}

	// forward[a] = successors of a; inDegree counts incoming flows.
	forward := make(map[string][]string, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for id := range nodeIDs {
		inDegree[id] = 0
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if !nodeIDs[e.Source] || !nodeIDs[e.Target] {
			continue // dangling refs already caught by semantic
		}
		forward[e.Source] = append(forward[e.Source], e.Target)
		inDegree[e.Target]++
	}

	// Kahn's algorithm for cycle detection.
	queue := make([]string, 0, len(g.Nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, succ := range forward[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if visited != len(nodeIDs) {
		result.AddError(prefix+"edges", schema.ErrCodeValidation,
			fmt.Sprintf("process %q contains a flow cycle", g.ID))
	} else {
		// Reachability: BFS from start nodes (meaningless under a cycle).
		reachable := make(map[string]bool, len(nodeIDs))
		var bfs []string
		for i := range g.Nodes {
			if g.Nodes[i].Kind == schema.NodeKindStart {
				bfs = append(bfs, g.Nodes[i].ID)
				reachable[g.Nodes[i].ID] = true
			}
		}
		for len(bfs) > 0 {
			node := bfs[0]
			bfs = bfs[1:]
			for _, succ := range forward[node] {
				if !reachable[succ] {
					reachable[succ] = true
					bfs = append(bfs, succ)
				}
			}
		}
		for i := range g.Nodes {
			if !reachable[g.Nodes[i].ID] {
				result.AddWarning(fmt.Sprintf("%snodes[%d]", prefix, i), schema.ErrCodeValidation,
					fmt.Sprintf("node %q is unreachable from the start node", g.Nodes[i].ID))
			}
		}
	}

	// Descend into subprocess graphs.
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind == schema.NodeKindSubprocess && n.Graph != nil {
			checkLevel(n.Graph, fmt.Sprintf("%snodes[%d].graph.", prefix, i), result)
		}
	}
}
