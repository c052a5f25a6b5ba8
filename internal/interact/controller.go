// Package interact turns pointer and wheel events into view-state changes:
// selection, hover, drag-to-pan and wheel zoom.
package interact

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/view"
)

// EdgeTolerance is how close, in screen pixels, a pointer-down must land to
// an edge for it to count as an edge click.
const EdgeTolerance = 4.0

// Mode is the controller's drag state.
type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Cursor is the pointer affordance the host should show.
type Cursor string

const (
	CursorPointer Cursor = "pointer"
	CursorGrab    Cursor = "grab"
)

// Callbacks receive graph-semantic events. Any of them may be nil.
type Callbacks struct {
	OnNodeClick       func(graph.Node)
	OnNodeDoubleClick func(graph.Node)
	OnEdgeClick       func(graph.Edge)
}

// Controller is the interaction state machine. It mutates the view.State it
// was given and never touches node positions.
type Controller struct {
	state  *view.State
	nodes  []graph.Node
	edges  []graph.Edge
	cb     Callbacks
	mode   Mode
	anchor r2.Vec
	cursor Cursor
	logger *zap.Logger
}

// New creates a controller driving st.
func New(st *view.State, cb Callbacks, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{state: st, cb: cb, cursor: CursorGrab, logger: logger}
}

// SetScene replaces the positioned nodes and edges used for hit-testing.
// An active drag is dropped.
func (c *Controller) SetScene(nodes []graph.Node, edges []graph.Edge) {
	c.nodes = nodes
	c.edges = edges
	c.mode = Idle
}

// Mode reports whether a drag is in progress.
func (c *Controller) Mode() Mode { return c.mode }

// Cursor is the affordance for the last hover test.
func (c *Controller) Cursor() Cursor { return c.cursor }

// PointerDown selects the node under (x, y) and fires OnNodeClick. Over empty
// space it clears the selection, fires OnEdgeClick if an edge is close, and
// starts a drag anchored at the pointer minus the current pan.
func (c *Controller) PointerDown(x, y float64) {
	p := r2.Vec{X: x, Y: y}
	if n, ok := c.HitTest(p); ok {
		c.state.Select(n.ID)
		c.logger.Debug("node selected", zap.String("node", n.ID))
		if c.cb.OnNodeClick != nil {
			c.cb.OnNodeClick(n)
		}
		return
	}

	c.state.Select("")
	if e, ok := c.EdgeAt(p); ok {
		c.logger.Debug("edge clicked", zap.String("edge", e.ID))
		if c.cb.OnEdgeClick != nil {
			c.cb.OnEdgeClick(e)
		}
	}
	c.mode = Dragging
	c.anchor = r2.Sub(p, c.state.Pan)
	c.logger.Debug("drag started", zap.Float64("x", x), zap.Float64("y", y))
}

// PointerMove pans while dragging and updates hover otherwise.
func (c *Controller) PointerMove(x, y float64) {
	p := r2.Vec{X: x, Y: y}
	if c.mode == Dragging {
		c.state.Pan = r2.Sub(p, c.anchor)
		return
	}
	if n, ok := c.HitTest(p); ok {
		c.state.Hovered = n.ID
		c.cursor = CursorPointer
		return
	}
	c.state.Hovered = ""
	c.cursor = CursorGrab
}

// PointerUp ends a drag.
func (c *Controller) PointerUp(x, y float64) {
	if c.mode == Dragging {
		c.logger.Debug("drag ended", zap.Float64("panX", c.state.Pan.X), zap.Float64("panY", c.state.Pan.Y))
	}
	c.mode = Idle
}

// DoubleClick fires OnNodeDoubleClick for the node under (x, y). Selection is
// left alone.
func (c *Controller) DoubleClick(x, y float64) {
	n, ok := c.HitTest(r2.Vec{X: x, Y: y})
	if !ok {
		return
	}
	c.logger.Debug("node double-clicked", zap.String("node", n.ID))
	if c.cb.OnNodeDoubleClick != nil {
		c.cb.OnNodeDoubleClick(n)
	}
}

// Wheel zooms out for positive deltaY (scroll down) and in for negative.
// Zoom anchors at the existing origin, not the pointer.
func (c *Controller) Wheel(deltaY float64) {
	switch {
	case deltaY > 0:
		c.state.ZoomOut()
	case deltaY < 0:
		c.state.ZoomIn()
	default:
		return
	}
	c.logger.Debug("zoom", zap.Float64("zoom", c.state.Zoom))
}

// HitTest returns the top-most visible node whose radius covers the screen
// point p. Nodes are tested in reverse draw order.
func (c *Controller) HitTest(p r2.Vec) (graph.Node, bool) {
	g := c.state.ToGraph(p)
	for i := len(c.nodes) - 1; i >= 0; i-- {
		n := c.nodes[i]
		if !c.state.Matches(n) {
			continue
		}
		if r2.Norm(r2.Sub(g, r2.Vec{X: n.X, Y: n.Y})) <= c.state.Radius(n) {
			return n, true
		}
	}
	return graph.Node{}, false
}

// EdgeAt returns the visible edge nearest to the screen point p, if it lies
// within EdgeTolerance pixels.
func (c *Controller) EdgeAt(p r2.Vec) (graph.Edge, bool) {
	scene := view.Filter(c.nodes, c.edges, *c.state)
	g := c.state.ToGraph(p)
	limit := EdgeTolerance / c.state.Zoom

	best, found := math.Inf(1), false
	var hit graph.Edge
	for _, seg := range scene.Edges {
		d := segmentDistance(g, r2.Vec{X: seg.From.X, Y: seg.From.Y}, r2.Vec{X: seg.To.X, Y: seg.To.Y})
		if d <= limit && d < best {
			best, hit, found = d, seg.Edge, true
		}
	}
	return hit, found
}

// Focus selects node id and centers the view on it at the given zoom for a
// w×h canvas. It reports false when the node is absent or filtered out.
func (c *Controller) Focus(id string, zoom, w, h float64) bool {
	for _, n := range c.nodes {
		if n.ID != id || !c.state.Matches(n) {
			continue
		}
		c.state.Select(id)
		c.state.SetZoom(zoom)
		c.state.Pan = r2.Sub(r2.Vec{X: w / 2, Y: h / 2}, r2.Scale(c.state.Zoom, r2.Vec{X: n.X, Y: n.Y}))
		return true
	}
	return false
}

func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}
