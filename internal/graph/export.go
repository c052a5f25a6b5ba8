package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExportJSON returns the graph as pretty-printed JSON.
func (g *Graph) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// ExportDOT returns the graph in Graphviz DOT format. When withPos is set the
// laid-out coordinates are emitted as pinned pos attributes (y flipped, DOT
// uses a bottom-left origin).
func (g *Graph) ExportDOT(withPos bool) string {
	var b strings.Builder
	b.WriteString("digraph kgview {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=ellipse, style=filled];\n\n")

	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		label := n.Label
		if n.Type != "" {
			label += "\\n(" + string(n.Type) + ")"
		}
		if withPos {
			b.WriteString(fmt.Sprintf("  %q [label=%q, pos=\"%.1f,%.1f!\"];\n", n.ID, label, n.X, -n.Y))
			continue
		}
		b.WriteString(fmt.Sprintf("  %q [label=%q];\n", n.ID, label))
	}

	b.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("label=%q", e.Label)}
		if e.Weight > 0 && e.Weight != 1 {
			attrs = append(attrs, fmt.Sprintf("penwidth=%.2f", e.Weight))
		}
		b.WriteString(fmt.Sprintf("  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", ")))
	}

	b.WriteString("}\n")
	return b.String()
}
