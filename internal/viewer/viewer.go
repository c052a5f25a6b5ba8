// Package viewer assembles layout, view state, rendering and interaction into
// one embeddable knowledge-graph component.
package viewer

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/interact"
	"github.com/msalah0e/kgview/internal/layout"
	"github.com/msalah0e/kgview/internal/render"
	"github.com/msalah0e/kgview/internal/view"
)

const (
	LoadingMessage = "Loading…"
	EmptyMessage   = "No graph data"

	// FitPadding is the margin left around the graph by Fit, in pixels.
	FitPadding = 40.0
)

// PositionCache remembers layouts between runs.
type PositionCache interface {
	Lookup(g *graph.Graph, cfg layout.Config, iterations int) ([]graph.Node, bool)
	Store(g *graph.Graph, cfg layout.Config, iterations int, nodes []graph.Node) error
}

// Options configures a Viewer. Zero sizes fall back to 1200×600 and nil
// pointers to the package defaults.
type Options struct {
	Width, Height      int
	Layout             *layout.Config
	RelayoutIterations int
	Theme              *render.Theme
	State              *view.State
	Callbacks          interact.Callbacks
	Cache              PositionCache
	Logger             *zap.Logger
}

// Viewer holds one graph, its computed positions and the view state. It is
// not safe for concurrent use.
type Viewer struct {
	width, height int
	relayoutIters int
	engine        *layout.Engine
	theme         render.Theme
	state         view.State
	ctrl          *interact.Controller
	cache         PositionCache
	logger        *zap.Logger

	graph   *graph.Graph
	nodes   []graph.Node
	loading bool
}

// New creates an empty viewer.
func New(opts Options) *Viewer {
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.RelayoutIterations <= 0 {
		opts.RelayoutIterations = layout.RelayoutIterations
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lc := layout.DefaultConfig(float64(opts.Width), float64(opts.Height))
	if opts.Layout != nil {
		lc = *opts.Layout
		if lc.Width <= 0 || lc.Height <= 0 {
			lc.Width, lc.Height = float64(opts.Width), float64(opts.Height)
		}
	}

	v := &Viewer{
		width:         opts.Width,
		height:        opts.Height,
		relayoutIters: opts.RelayoutIterations,
		engine:        layout.New(lc, layout.WithLogger(logger.Named("layout"))),
		theme:         render.DefaultTheme(),
		state:         view.New(),
		cache:         opts.Cache,
		logger:        logger,
	}
	if opts.Theme != nil {
		v.theme = *opts.Theme
	}
	if opts.State != nil {
		v.state = *opts.State
	}
	v.ctrl = interact.New(&v.state, opts.Callbacks, logger.Named("interact"))
	return v
}

// SetData replaces the graph. While loading is true no layout runs and Paint
// shows the loading placeholder. A selection or hover pointing at a node the
// new graph lacks is cleared.
func (v *Viewer) SetData(g *graph.Graph, loading bool) {
	v.graph = g
	v.loading = loading
	v.nodes = nil
	if !loading && !g.Empty() {
		v.nodes = v.layout(v.engine.Config().Iterations)
	}

	var idx map[string]int
	if g != nil {
		idx = g.Index()
	}
	if _, ok := idx[v.state.Selected]; !ok {
		v.state.Selected = ""
	}
	if _, ok := idx[v.state.Hovered]; !ok {
		v.state.Hovered = ""
	}
	v.ctrl.SetScene(v.nodes, v.edges())
	v.logger.Info("graph set",
		zap.Int("nodes", len(v.nodes)),
		zap.Int("edges", len(v.edges())),
		zap.Bool("loading", loading))
}

// Relayout recomputes positions for the current graph with the longer
// relayout iteration count. The graph itself is not touched.
func (v *Viewer) Relayout() {
	if v.loading || v.graph.Empty() {
		return
	}
	v.nodes = v.layout(v.relayoutIters)
	v.ctrl.SetScene(v.nodes, v.edges())
	v.logger.Debug("relayout", zap.Int("iterations", v.relayoutIters))
}

// Fit zooms and pans so every visible node fits the canvas.
func (v *Viewer) Fit() {
	visible := view.Filter(v.nodes, nil, v.state).Nodes
	v.state.Fit(visible, float64(v.width), float64(v.height), FitPadding)
}

// Paint draws the current frame, or a placeholder while loading or when
// there is nothing to show.
func (v *Viewer) Paint(s render.Surface) render.Stats {
	switch {
	case v.loading:
		render.Placeholder(s, LoadingMessage, v.theme)
		return render.Stats{}
	case len(v.nodes) == 0:
		render.Placeholder(s, EmptyMessage, v.theme)
		return render.Stats{}
	}
	return render.Frame(s, v.nodes, v.edges(), v.state, v.theme)
}

// ExportPNG paints the current frame to a raster canvas and writes it as PNG.
func (v *Viewer) ExportPNG(w io.Writer) error {
	c, err := render.NewCanvas(v.width, v.height)
	if err != nil {
		return err
	}
	v.Paint(c)
	if err := c.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportSVG paints the current frame as an SVG document.
func (v *Viewer) ExportSVG(w io.Writer) error {
	if v.width <= 0 || v.height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", v.width, v.height)
	}
	s := render.NewSVG(w, v.width, v.height)
	v.Paint(s)
	s.Close()
	return nil
}

// Nodes returns the positioned nodes of the last layout.
func (v *Viewer) Nodes() []graph.Node { return v.nodes }

// Graph returns the graph last passed to SetData.
func (v *Viewer) Graph() *graph.Graph { return v.graph }

// Loading reports the loading flag of the last SetData.
func (v *Viewer) Loading() bool { return v.loading }

// Size returns the canvas size in pixels.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

// State exposes the view state for direct manipulation (filters, labels,
// reset). Changes show on the next Paint.
func (v *Viewer) State() *view.State { return &v.state }

// Controller returns the pointer event handler bound to this viewer.
func (v *Viewer) Controller() *interact.Controller { return v.ctrl }

// Theme returns the colors used by Paint.
func (v *Viewer) Theme() render.Theme { return v.theme }

// layout runs the engine on the current graph, going through the cache
// when one is configured.
func (v *Viewer) layout(iterations int) []graph.Node {
	if v.cache == nil {
		return v.engine.Run(v.graph, iterations)
	}
	cfg := v.engine.Config()
	if nodes, ok := v.cache.Lookup(v.graph, cfg, iterations); ok {
		v.logger.Debug("layout cache hit", zap.Int("iterations", iterations))
		return nodes
	}
	nodes := v.engine.Run(v.graph, iterations)
	if err := v.cache.Store(v.graph, cfg, iterations, nodes); err != nil {
		v.logger.Warn("layout cache store failed", zap.Error(err))
	}
	return nodes
}

func (v *Viewer) edges() []graph.Edge {
	if v.graph == nil {
		return nil
	}
	return v.graph.Edges
}
