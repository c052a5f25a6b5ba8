package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/view"
)

// arrowSpread is the half-angle of an arrowhead.
const arrowSpread = math.Pi / 6

// Stats counts what a frame drew.
type Stats struct {
	Nodes  int
	Edges  int
	Arrows int
	Labels int
}

// Frame paints one frame: clear, apply pan then zoom, filter, draw edges,
// draw nodes. It keeps no state between calls. st.Zoom must be positive;
// view.State enforces that.
func Frame(s Surface, nodes []graph.Node, edges []graph.Edge, st view.State, theme Theme) Stats {
	var stats Stats

	s.Clear(theme.Background)
	s.Push()
	defer s.Pop()
	s.Translate(st.Pan.X, st.Pan.Y)
	s.Scale(st.Zoom, st.Zoom)

	scene := view.Filter(nodes, edges, st)
	for _, seg := range scene.Edges {
		drawEdge(s, seg, st, theme, &stats)
	}
	for _, n := range scene.Nodes {
		drawNode(s, n, st, theme, &stats)
	}
	return stats
}

// Placeholder paints a centered message instead of a graph, for the loading
// and empty states.
func Placeholder(s Surface, msg string, theme Theme) {
	w, h := s.Size()
	s.Clear(theme.Background)
	s.Text(msg, r2.Vec{X: float64(w) / 2, Y: float64(h) / 2}, theme.FontSize*1.5, theme.EdgeLabel)
}

func drawEdge(s Surface, seg view.Segment, st view.State, theme Theme, stats *Stats) {
	from := r2.Vec{X: seg.From.X, Y: seg.From.Y}
	to := r2.Vec{X: seg.To.X, Y: seg.To.Y}

	col := theme.Edge
	if st.Selected != "" && (seg.Edge.Source == st.Selected || seg.Edge.Target == st.Selected) {
		col = theme.EdgeHighlight
	}

	s.StrokeLine(from, to, theme.EdgeWidth*seg.Edge.EffectiveWeight()/st.Zoom, col)
	stats.Edges++

	if tip, wings, ok := arrowhead(from, to, st.Radius(seg.To), theme.ArrowLength/st.Zoom); ok {
		s.FillPolygon([]r2.Vec{tip, wings[0], wings[1]}, col)
		stats.Arrows++
	}

	if st.ShowLabels && seg.Edge.Label != "" {
		mid := r2.Scale(0.5, r2.Add(from, to))
		s.Text(seg.Edge.Label, mid, theme.EdgeLabelSize, theme.EdgeLabel)
		stats.Labels++
	}
}

// arrowhead returns the triangle for an edge ending at to. The tip is pulled
// back along the edge by the target radius so it touches the node boundary.
// There is no arrow when the endpoints overlap.
func arrowhead(from, to r2.Vec, radius, length float64) (r2.Vec, [2]r2.Vec, bool) {
	d := r2.Sub(to, from)
	if r2.Norm(d) <= radius {
		return r2.Vec{}, [2]r2.Vec{}, false
	}
	angle := math.Atan2(d.Y, d.X)
	tip := r2.Sub(to, r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	wing := func(a float64) r2.Vec {
		return r2.Sub(tip, r2.Vec{X: length * math.Cos(a), Y: length * math.Sin(a)})
	}
	return tip, [2]r2.Vec{wing(angle - arrowSpread), wing(angle + arrowSpread)}, true
}

func drawNode(s Surface, n graph.Node, st view.State, theme Theme, stats *Stats) {
	center := r2.Vec{X: n.X, Y: n.Y}
	r := st.Radius(n)

	s.FillCircle(center, r, theme.ColorFor(n.Type))
	if glyph, ok := Glyphs[n.Type]; ok {
		s.Text(glyph, center, theme.GlyphSize, theme.Glyph)
	}

	// Selection wins over hover.
	switch {
	case n.ID == st.Selected:
		s.StrokeCircle(center, r, theme.SelectedWidth/st.Zoom, theme.Selected)
	case n.ID == st.Hovered:
		s.StrokeCircle(center, r, theme.HoveredWidth/st.Zoom, theme.Hovered)
	}
	stats.Nodes++

	if st.ShowLabels && n.Label != "" {
		below := r2.Add(center, r2.Vec{Y: r + theme.FontSize/st.Zoom})
		s.Text(n.Label, below, theme.FontSize, theme.Label)
		stats.Labels++
	}
}
