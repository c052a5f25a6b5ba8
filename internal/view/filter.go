package view

import "github.com/msalah0e/kgview/internal/graph"

// Segment is an edge whose endpoints both survived the filter.
type Segment struct {
	Edge     graph.Edge
	From, To graph.Node
}

// Scene is what a frame draws.
type Scene struct {
	Nodes []graph.Node
	Edges []Segment
}

// Filter keeps the nodes that match s and the edges whose two endpoints were
// kept. Edges referencing unknown ids are dropped silently.
func Filter(nodes []graph.Node, edges []graph.Edge, s State) Scene {
	scene := Scene{Nodes: make([]graph.Node, 0, len(nodes))}
	kept := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if !s.Matches(n) {
			continue
		}
		if _, dup := kept[n.ID]; !dup {
			kept[n.ID] = len(scene.Nodes)
		}
		scene.Nodes = append(scene.Nodes, n)
	}
	for _, e := range edges {
		from, okF := kept[e.Source]
		to, okT := kept[e.Target]
		if !okF || !okT {
			continue
		}
		scene.Edges = append(scene.Edges, Segment{
			Edge: e,
			From: scene.Nodes[from],
			To:   scene.Nodes[to],
		})
	}
	return scene
}
