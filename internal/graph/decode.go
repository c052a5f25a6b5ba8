package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Format is a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the decoder from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported graph file %q (use .json or .toml)", path)
	}
}

// Load reads a graph file from disk.
func Load(path string) (*Graph, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Decode parses a graph and fills in defaults: a missing label becomes the
// node id, a missing edge id becomes a fresh UUID and node types are
// lower-cased. Referential integrity is not checked here.
func Decode(r io.Reader, format Format) (*Graph, error) {
	g := New()
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(g); err != nil {
			return nil, fmt.Errorf("graph parse: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(g); err != nil {
			return nil, fmt.Errorf("graph parse: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
	applyDefaults(g)
	return g, nil
}

func applyDefaults(g *Graph) {
	if g.Nodes == nil {
		g.Nodes = make([]Node, 0)
	}
	if g.Edges == nil {
		g.Edges = make([]Edge, 0)
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.ID = strings.TrimSpace(n.ID)
		n.Type = NodeType(strings.ToLower(strings.TrimSpace(string(n.Type))))
		if n.Label == "" {
			n.Label = n.ID
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
	}
}
