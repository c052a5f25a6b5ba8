package graph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "a", Label: "Alpha", Type: TypeDocument},
			{ID: "b", Label: "Beta", Type: TypeConcept},
			{ID: "c", Label: "Gamma", Type: TypePerson},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b", Label: "references"},
			{ID: "e2", Source: "b", Target: "c", Label: "authored-by", Weight: 2},
		},
	}
}

func TestParseNodeType(t *testing.T) {
	got, err := ParseNodeType("  Person ")
	require.NoError(t, err)
	assert.Equal(t, TypePerson, got)

	_, err = ParseNodeType("spaceship")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestEffectiveWeight(t *testing.T) {
	assert.Equal(t, 1.0, Edge{}.EffectiveWeight())
	assert.Equal(t, 2.5, Edge{Weight: 2.5}.EffectiveWeight())
}

func TestIndexFirstOccurrenceWins(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "x"}, {ID: "y"}, {ID: "x"}}}
	idx := g.Index()
	assert.Len(t, idx, 2)
	assert.Equal(t, 0, idx["x"])
	assert.Equal(t, 1, idx["y"])
}

func TestCloneIsIndependent(t *testing.T) {
	g := sample()
	c := g.Clone()
	c.Nodes[0].X = 42
	c.Edges[0].Label = "changed"
	assert.Zero(t, g.Nodes[0].X)
	assert.Equal(t, "references", g.Edges[0].Label)
}

func TestGetStats(t *testing.T) {
	g := sample()
	g.Edges = append(g.Edges, Edge{ID: "e3", Source: "a", Target: "missing"})

	s := g.GetStats()
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, 1, s.Dangling)
	assert.Equal(t, 1, s.ByType[TypePerson])
}

func TestTypesOrder(t *testing.T) {
	g := &Graph{Nodes: []Node{{Type: TypeTag}, {Type: "zzz"}, {Type: TypeDocument}, {Type: TypeTag}}}
	assert.Equal(t, []NodeType{TypeDocument, TypeTag, "zzz"}, g.Types())
}

func TestDecodeJSONDefaults(t *testing.T) {
	in := `{
  "nodes": [
    {"id": "a", "type": "Document"},
    {"id": "b", "label": "Beta", "type": "concept", "properties": {"year": 2021}}
  ],
  "edges": [{"source": "a", "target": "b", "label": "cites"}]
}`
	g, err := Decode(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "a", g.Nodes[0].Label)
	assert.Equal(t, TypeDocument, g.Nodes[0].Type)
	assert.EqualValues(t, 2021, g.Nodes[1].Properties["year"])

	require.Len(t, g.Edges, 1)
	assert.NotEmpty(t, g.Edges[0].ID)
	assert.Equal(t, 1.0, g.Edges[0].EffectiveWeight())
	assert.NoError(t, g.Validate())
}

func TestDecodeTOML(t *testing.T) {
	in := `
[[nodes]]
id = "acme"
label = "Acme Corp"
type = "organization"
size = 30.0

[[nodes]]
id = "paris"
type = "location"

[[edges]]
id = "hq"
source = "acme"
target = "paris"
label = "headquartered-in"
weight = 3.0
`
	g, err := Decode(strings.NewReader(in), FormatTOML)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, 30.0, g.Nodes[0].Size)
	assert.Equal(t, "paris", g.Nodes[1].Label)
	assert.Equal(t, 3.0, g.Edges[0].Weight)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{nodes:"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("{}"), Format("yaml"))
	assert.Error(t, err)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a","type":"tag"}],"edges":[]}`), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)

	_, err = Load(filepath.Join(dir, "g.yaml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	g := sample()
	assert.NoError(t, g.Validate())

	g.Nodes = append(g.Nodes, Node{ID: "a", Type: TypeTag}, Node{ID: "d", Type: "robot"})
	g.Edges = append(g.Edges, Edge{ID: "e3", Source: "a", Target: "ghost"})

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNode))
	assert.True(t, errors.Is(err, ErrInvalidType))
	assert.True(t, errors.Is(err, ErrUnknownNode))
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateMissingFields(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{Type: TypeTag}},
		Edges: []Edge{{ID: "e", Weight: -1}},
	}
	err := g.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "node #0")
	assert.Contains(t, msg, "Weight")
	assert.Contains(t, msg, "Source")
}

func TestExportDOT(t *testing.T) {
	out := sample().ExportDOT(false)
	assert.True(t, strings.HasPrefix(out, "digraph kgview {"))
	assert.Contains(t, out, `"a" [label="Alpha\\n(document)"];`)
	assert.Contains(t, out, `"b" -> "c" [label="authored-by", penwidth=2.00];`)

	g := sample()
	g.Nodes[0].X, g.Nodes[0].Y = 10, 20
	assert.Contains(t, g.ExportDOT(true), `pos="10.0,-20.0!"`)
}

func TestExportJSONRoundTrip(t *testing.T) {
	data, err := sample().ExportJSON()
	require.NoError(t, err)

	g, err := Decode(strings.NewReader(string(data)), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, sample().Nodes, g.Nodes)
}
