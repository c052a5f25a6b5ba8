// Package view holds the ephemeral viewer state: pan, zoom, selection, hover
// and the node filters, plus the screen/graph coordinate mapping.
package view

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/kgview/internal/graph"
)

const (
	MinZoom         = 0.1
	MaxZoom         = 5.0
	ZoomInFactor    = 1.1
	ZoomOutFactor   = 0.9
	DefaultNodeSize = 20.0

	// TypeAll disables the type filter.
	TypeAll = "all"
)

// State is the pan/zoom/selection/filter state of one viewer. The zero value
// is not usable; start from New.
type State struct {
	Zoom       float64
	Pan        r2.Vec // screen-space offset in pixels, applied before Zoom
	Selected   string // node id, "" when nothing is selected
	Hovered    string // node id, "" when nothing is hovered
	TypeFilter string // TypeAll or a node type
	Search     string // case-insensitive label substring, "" matches all
	ShowLabels bool
	NodeSize   float64 // on-screen node radius in pixels
}

// New returns the initial state.
func New() State {
	return State{
		Zoom:       1,
		TypeFilter: TypeAll,
		ShowLabels: true,
		NodeSize:   DefaultNodeSize,
	}
}

// ClampZoom forces z into [MinZoom, MaxZoom]. Non-positive and NaN values
// map to MinZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// SetZoom sets the zoom factor, clamped.
func (s *State) SetZoom(z float64) {
	s.Zoom = ClampZoom(z)
}

// ZoomBy multiplies the zoom factor, clamped. The pan offset is left alone,
// so zooming anchors at the transform origin rather than the pointer.
func (s *State) ZoomBy(factor float64) {
	s.SetZoom(s.Zoom * factor)
}

func (s *State) ZoomIn()  { s.ZoomBy(ZoomInFactor) }
func (s *State) ZoomOut() { s.ZoomBy(ZoomOutFactor) }

// PanBy shifts the pan offset by a screen-space delta.
func (s *State) PanBy(dx, dy float64) {
	s.Pan = r2.Add(s.Pan, r2.Vec{X: dx, Y: dy})
}

// Reset restores zoom 1 and pan (0, 0). Selection and filters are kept.
func (s *State) Reset() {
	s.Zoom = 1
	s.Pan = r2.Vec{}
}

// Select marks a node as selected; "" clears the selection.
func (s *State) Select(id string) {
	s.Selected = id
}

// SetTypeFilter accepts TypeAll or any known node type, case-insensitively.
func (s *State) SetTypeFilter(t string) error {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" || t == TypeAll {
		s.TypeFilter = TypeAll
		return nil
	}
	nt, err := graph.ParseNodeType(t)
	if err != nil {
		return err
	}
	s.TypeFilter = string(nt)
	return nil
}

// SetNodeSize sets the on-screen node radius; non-positive sizes restore the
// default.
func (s *State) SetNodeSize(px float64) {
	if px <= 0 || math.IsNaN(px) {
		px = DefaultNodeSize
	}
	s.NodeSize = px
}

// ToGraph maps a screen point into graph space by inverting pan then zoom.
func (s State) ToGraph(p r2.Vec) r2.Vec {
	return r2.Scale(1/s.Zoom, r2.Sub(p, s.Pan))
}

// ToScreen maps a graph-space point onto the screen.
func (s State) ToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(s.Zoom, p), s.Pan)
}

// Radius is the graph-space radius of n: its size override or the current
// node size, divided by zoom so the node keeps a constant on-screen size.
func (s State) Radius(n graph.Node) float64 {
	size := s.NodeSize
	if n.Size > 0 {
		size = n.Size
	}
	return size / s.Zoom
}

// Matches reports whether n passes the type filter and the label search.
// Only node labels are searched; edge labels never match.
func (s State) Matches(n graph.Node) bool {
	if s.TypeFilter != "" && s.TypeFilter != TypeAll && string(n.Type) != s.TypeFilter {
		return false
	}
	if s.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Label), strings.ToLower(s.Search))
}

// Fit picks zoom and pan so every given node, including its radius, fits a
// w×h canvas with padding on each side. Zoom stays clamped; an empty node
// list resets the view.
func (s *State) Fit(nodes []graph.Node, w, h, padding float64) {
	if len(nodes) == 0 {
		s.Reset()
		return
	}
	minP := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	maxP := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, n := range nodes {
		r := s.NodeSize
		if n.Size > 0 {
			r = n.Size
		}
		minP.X = math.Min(minP.X, n.X-r)
		minP.Y = math.Min(minP.Y, n.Y-r)
		maxP.X = math.Max(maxP.X, n.X+r)
		maxP.Y = math.Max(maxP.Y, n.Y+r)
	}
	extent := r2.Sub(maxP, minP)
	availW := math.Max(w-2*padding, 1)
	availH := math.Max(h-2*padding, 1)
	s.SetZoom(math.Min(availW/extent.X, availH/extent.Y))

	mid := r2.Scale(0.5, r2.Add(minP, maxP))
	s.Pan = r2.Sub(r2.Vec{X: w / 2, Y: h / 2}, r2.Scale(s.Zoom, mid))
}
