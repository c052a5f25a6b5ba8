package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/kgview/internal/graph"
)

func scenario() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "A", Label: "Alpha", Type: graph.TypeDocument, X: 100, Y: 100},
		{ID: "B", Label: "Beta", Type: graph.TypeConcept, X: 200, Y: 100},
		{ID: "C", Label: "Gamma", Type: graph.TypePerson, X: 300, Y: 100},
	}
	edges := []graph.Edge{
		{ID: "ab", Source: "A", Target: "B", Label: "references"},
		{ID: "bc", Source: "B", Target: "C", Label: "authored-by"},
	}
	return nodes, edges
}

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, r2.Vec{}, s.Pan)
	assert.Equal(t, TypeAll, s.TypeFilter)
	assert.True(t, s.ShowLabels)
	assert.Equal(t, DefaultNodeSize, s.NodeSize)
	assert.Empty(t, s.Selected)
}

func TestZoomClampsAfterRepeatedScrolls(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		s.ZoomOut()
	}
	assert.GreaterOrEqual(t, s.Zoom, MinZoom)
	assert.Equal(t, MinZoom, s.Zoom)

	for i := 0; i < 100; i++ {
		s.ZoomIn()
	}
	assert.LessOrEqual(t, s.Zoom, MaxZoom)
	assert.Equal(t, MaxZoom, s.Zoom)
}

func TestClampZoom(t *testing.T) {
	tests := map[string]struct {
		in, want float64
	}{
		"inside":   {in: 2, want: 2},
		"low":      {in: 0.01, want: MinZoom},
		"zero":     {in: 0, want: MinZoom},
		"negative": {in: -3, want: MinZoom},
		"high":     {in: 12, want: MaxZoom},
		"nan":      {in: math.NaN(), want: MinZoom},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampZoom(tt.in))
		})
	}
}

func TestResetRestoresOrigin(t *testing.T) {
	s := New()
	s.PanBy(120, -45)
	s.ZoomIn()
	s.ZoomIn()
	s.Select("A")
	s.Search = "alp"

	s.Reset()
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, r2.Vec{}, s.Pan)
	assert.Equal(t, "A", s.Selected, "reset keeps selection")
	assert.Equal(t, "alp", s.Search, "reset keeps filters")
}

func TestCoordinateRoundTrip(t *testing.T) {
	s := New()
	s.Pan = r2.Vec{X: 50, Y: -20}
	s.SetZoom(2.5)

	p := r2.Vec{X: 13, Y: 77}
	back := s.ToGraph(s.ToScreen(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)

	screen := s.ToScreen(r2.Vec{X: 10, Y: 10})
	assert.Equal(t, r2.Vec{X: 75, Y: 5}, screen)
}

func TestRadiusScalesWithZoom(t *testing.T) {
	s := New()
	s.SetZoom(2)
	assert.Equal(t, 10.0, s.Radius(graph.Node{}))
	assert.Equal(t, 15.0, s.Radius(graph.Node{Size: 30}))
}

func TestSetTypeFilter(t *testing.T) {
	s := New()
	require.NoError(t, s.SetTypeFilter("Person"))
	assert.Equal(t, "person", s.TypeFilter)

	require.NoError(t, s.SetTypeFilter(""))
	assert.Equal(t, TypeAll, s.TypeFilter)

	assert.Error(t, s.SetTypeFilter("planet"))
	assert.Equal(t, TypeAll, s.TypeFilter)
}

func TestSetNodeSize(t *testing.T) {
	s := New()
	s.SetNodeSize(32)
	assert.Equal(t, 32.0, s.NodeSize)
	s.SetNodeSize(-1)
	assert.Equal(t, DefaultNodeSize, s.NodeSize)
}

func TestFilterByType(t *testing.T) {
	nodes, edges := scenario()
	s := New()
	require.NoError(t, s.SetTypeFilter("person"))

	scene := Filter(nodes, edges, s)
	require.Len(t, scene.Nodes, 1)
	assert.Equal(t, "C", scene.Nodes[0].ID)
	assert.Empty(t, scene.Edges)
}

func TestSearchIgnoresEdgeLabels(t *testing.T) {
	nodes, edges := scenario()
	s := New()
	s.Search = "auth"

	scene := Filter(nodes, edges, s)
	assert.Empty(t, scene.Nodes)
	assert.Empty(t, scene.Edges)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	nodes, edges := scenario()
	s := New()
	s.Search = "ETA"

	scene := Filter(nodes, edges, s)
	require.Len(t, scene.Nodes, 1)
	assert.Equal(t, "B", scene.Nodes[0].ID)
}

func TestFilterNoDanglingEdges(t *testing.T) {
	nodes, edges := scenario()
	edges = append(edges, graph.Edge{ID: "ghost", Source: "A", Target: "Z"})

	for _, filter := range append([]string{TypeAll}, typeNames()...) {
		s := New()
		require.NoError(t, s.SetTypeFilter(filter))
		scene := Filter(nodes, edges, s)

		kept := map[string]bool{}
		for _, n := range scene.Nodes {
			kept[n.ID] = true
		}
		for _, seg := range scene.Edges {
			assert.True(t, kept[seg.Edge.Source], "filter %s: source %s hidden", filter, seg.Edge.Source)
			assert.True(t, kept[seg.Edge.Target], "filter %s: target %s hidden", filter, seg.Edge.Target)
		}
	}

	all := Filter(nodes, edges, New())
	assert.Len(t, all.Edges, 2, "dangling edge skipped")
	assert.Equal(t, 200.0, all.Edges[0].To.X)
}

func typeNames() []string {
	out := make([]string, len(graph.NodeTypes))
	for i, t := range graph.NodeTypes {
		out[i] = string(t)
	}
	return out
}

func TestFitCentersAndClamps(t *testing.T) {
	nodes, _ := scenario()
	s := New()
	s.Fit(nodes, 800, 600, 20)

	// Extent is 240 wide (100-20 .. 300+20), so zoom = 760/240.
	assert.InDelta(t, 760.0/240.0, s.Zoom, 1e-9)
	mid := s.ToScreen(r2.Vec{X: 200, Y: 100})
	assert.InDelta(t, 400, mid.X, 1e-9)
	assert.InDelta(t, 300, mid.Y, 1e-9)

	s.Fit(nodes[:1], 800, 600, 20)
	assert.Equal(t, MaxZoom, s.Zoom)

	s.Fit(nil, 800, 600, 20)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, r2.Vec{}, s.Pan)
}
