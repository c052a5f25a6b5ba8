package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NodeType is the kind of a knowledge-graph node. The set is closed.
type NodeType string

const (
	TypeDocument     NodeType = "document"
	TypeConcept      NodeType = "concept"
	TypePerson       NodeType = "person"
	TypeOrganization NodeType = "organization"
	TypeLocation     NodeType = "location"
	TypeEvent        NodeType = "event"
	TypeTag          NodeType = "tag"
)

// NodeTypes lists every node type in display order.
var NodeTypes = []NodeType{
	TypeDocument,
	TypeConcept,
	TypePerson,
	TypeOrganization,
	TypeLocation,
	TypeEvent,
	TypeTag,
}

var (
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrUnknownNode   = errors.New("unknown node id")
	ErrInvalidType   = errors.New("invalid node type")
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseNodeType normalizes s and checks it against the known types.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Node is a vertex of the knowledge graph. X and Y are written by the layout engine.
type Node struct {
	ID         string         `json:"id" toml:"id" validate:"required"`
	Label      string         `json:"label" toml:"label"`
	Type       NodeType       `json:"type" toml:"type" validate:"required,nodetype"`
	Properties map[string]any `json:"properties,omitempty" toml:"properties,omitempty"`
	Size       float64        `json:"size,omitempty" toml:"size,omitempty" validate:"gte=0"`
	X          float64        `json:"x" toml:"x"`
	Y          float64        `json:"y" toml:"y"`
}

// Edge is a directed, labeled relation between two nodes.
type Edge struct {
	ID         string         `json:"id" toml:"id" validate:"required"`
	Source     string         `json:"source" toml:"source" validate:"required"`
	Target     string         `json:"target" toml:"target" validate:"required"`
	Label      string         `json:"label" toml:"label"`
	Type       string         `json:"type,omitempty" toml:"type,omitempty"`
	Weight     float64        `json:"weight,omitempty" toml:"weight,omitempty" validate:"gte=0"`
	Properties map[string]any `json:"properties,omitempty" toml:"properties,omitempty"`
}

// EffectiveWeight returns the edge weight, treating an unset weight as 1.
func (e Edge) EffectiveWeight() float64 {
	if e.Weight <= 0 {
		return 1
	}
	return e.Weight
}

// Graph is a set of nodes and the edges between them. Edges are expected to
// reference existing node ids but nothing here enforces it; see Validate.
type Graph struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// Stats holds summary counts.
type Stats struct {
	Nodes    int
	Edges    int
	Dangling int
	ByType   map[NodeType]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// Index maps node ids to their position in Nodes. The first occurrence of a
// duplicated id wins.
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := idx[n.ID]; !dup {
			idx[n.ID] = i
		}
	}
	return idx
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a copy whose node and edge slices can be mutated freely.
// Property maps are shared.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)
	return c
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool {
	return g == nil || len(g.Nodes) == 0
}

// GetStats returns summary statistics.
func (g *Graph) GetStats() Stats {
	s := Stats{
		Nodes:  len(g.Nodes),
		Edges:  len(g.Edges),
		ByType: make(map[NodeType]int),
	}
	for _, n := range g.Nodes {
		s.ByType[n.Type]++
	}
	idx := g.Index()
	for _, e := range g.Edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if !okS || !okT {
			s.Dangling++
		}
	}
	return s
}

// Types returns the node types present in the graph, in NodeTypes order,
// followed by any unknown types sorted by name.
func (g *Graph) Types() []NodeType {
	seen := make(map[NodeType]bool)
	for _, n := range g.Nodes {
		seen[n.Type] = true
	}
	var out []NodeType
	for _, t := range NodeTypes {
		if seen[t] {
			out = append(out, t)
			delete(seen, t)
		}
	}
	var rest []string
	for t := range seen {
		rest = append(rest, string(t))
	}
	sort.Strings(rest)
	for _, t := range rest {
		out = append(out, NodeType(t))
	}
	return out
}
