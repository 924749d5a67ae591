package diagram

import (
	"fmt"
	"strings"

	"github.com/rendis/flowtree/pkg/schema"
)

// RenderMermaid renders a Model as a Mermaid flowchart string.
func RenderMermaid(model *Model) string {
	var b strings.Builder

	b.WriteString("graph TD\n")

	// Title as comment.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("    %%%% %s\n", model.Title))
	}

	renderNodes(&b, model.Nodes, "    ")
	renderEdges(&b, model.Edges, "    ")

	return b.String()
}

func renderNodes(b *strings.Builder, nodes []*Node, indent string) {
	for _, node := range nodes {
		if node.Children != nil {
			b.WriteString(fmt.Sprintf("%ssubgraph %s[\"%s\"]\n",
				indent, mermaidSafeID(node.ID), node.Children.Label))
			renderNodes(b, node.Children.Nodes, indent+"    ")
			renderEdges(b, node.Children.Edges, indent+"    ")
			b.WriteString(indent + "end\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%s%s\n", indent, mermaidNodeDef(node)))
	}
}

func renderEdges(b *strings.Builder, edges []Edge, indent string) {
	for _, edge := range edges {
		label := ""
		if edge.Label != "" {
			label = fmt.Sprintf("|%s|", edge.Label)
		}
		b.WriteString(fmt.Sprintf("%s%s -->%s %s\n",
			indent, mermaidSafeID(edge.From), label, mermaidSafeID(edge.To)))
	}
}

// mermaidNodeDef returns a Mermaid node definition with the appropriate shape.
func mermaidNodeDef(node *Node) string {
	id := mermaidSafeID(node.ID)

	switch node.Kind {
	case schema.NodeKindStart, schema.NodeKindEnd:
		return fmt.Sprintf("%s((%q))", id, node.Label)
	case schema.NodeKindExclusive, schema.NodeKindParallel:
		return fmt.Sprintf("%s{%q}", id, node.Label)
	case schema.NodeKindSubprocess:
		return fmt.Sprintf("%s[[%q]]", id, node.Label)
	default: // task
		return fmt.Sprintf("%s[%q]", id, node.Label)
	}
}

// mermaidSafeID converts a node ID to a Mermaid-safe identifier.
// Replaces dots, dashes, and spaces with underscores.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(id)
}
