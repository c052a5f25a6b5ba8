package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/cache"
	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/interact"
	"github.com/msalah0e/kgview/internal/layout"
	"github.com/msalah0e/kgview/internal/render"
	"github.com/msalah0e/kgview/internal/view"
	"github.com/msalah0e/kgview/internal/viewer"
)

func nodeTypeNames() []string {
	names := make([]string, len(graph.NodeTypes))
	for i, t := range graph.NodeTypes {
		names[i] = string(t)
	}
	return names
}

// layoutConfig maps the [layout] and [canvas] sections onto the engine.
func (a *app) layoutConfig() layout.Config {
	lc := layout.DefaultConfig(float64(a.cfg.Canvas.Width), float64(a.cfg.Canvas.Height))
	lc.Iterations = a.cfg.Layout.Iterations
	lc.Jitter = a.cfg.Layout.Jitter
	lc.Seed = a.cfg.Layout.Seed
	return lc
}

// theme applies the [canvas] and [render] sections to the default theme.
func (a *app) theme() (render.Theme, error) {
	theme := render.DefaultTheme()
	bg, err := render.ParseHex(a.cfg.Canvas.Background)
	if err != nil {
		return theme, fmt.Errorf("canvas background: %w", err)
	}
	theme.Background = bg
	theme.FontSize = a.cfg.Render.FontSize
	return theme, nil
}

// newViewer builds a viewer from the loaded configuration.
func (a *app) newViewer(cb interact.Callbacks) (*viewer.Viewer, error) {
	theme, err := a.theme()
	if err != nil {
		return nil, err
	}
	st := view.New()
	st.ShowLabels = a.cfg.View.ShowLabels
	st.SetNodeSize(a.cfg.View.NodeSize)
	if err := st.SetTypeFilter(a.cfg.View.TypeFilter); err != nil {
		return nil, fmt.Errorf("view type_filter: %w", err)
	}

	var pc viewer.PositionCache
	if a.cfg.Layout.Cache {
		pc = cache.New(cache.LayoutDir())
	}

	lc := a.layoutConfig()
	return viewer.New(viewer.Options{
		Width:              a.cfg.Canvas.Width,
		Height:             int(a.cfg.Canvas.Height),
		Layout:             &lc,
		RelayoutIterations: a.cfg.Layout.RelayoutIterations,
		Theme:              &theme,
		State:              &st,
		Callbacks:          cb,
		Cache:              pc,
		Logger:             a.logger,
	}), nil
}

// viewFlags are the view-state overrides shared by render, replay and watch.
type viewFlags struct {
	typeFilter string
	search     string
	noLabels   bool
	nodeSize   float64
	zoom       float64
	pan        string
	selectID   string
	relayout   bool
	fit        bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.typeFilter, "type", "", "Show only nodes of this type (all, "+strings.Join(nodeTypeNames(), ", ")+")")
	flags.StringVar(&f.search, "search", "", "Show only nodes whose label contains this text")
	flags.BoolVar(&f.noLabels, "no-labels", false, "Hide node and edge labels")
	flags.Float64Var(&f.nodeSize, "node-size", 0, "Node radius in pixels")
	flags.Float64Var(&f.zoom, "zoom", 0, "Zoom factor (0.1-5)")
	flags.StringVar(&f.pan, "pan", "", "Pan offset in pixels as X,Y")
	flags.StringVar(&f.selectID, "select", "", "Highlight this node id")
	flags.BoolVar(&f.relayout, "relayout", false, "Run the longer relayout pass")
	flags.BoolVar(&f.fit, "fit", false, "Zoom and pan to fit every visible node")
	_ = cmd.RegisterFlagCompletionFunc("type", typeCompletionFunc)
}

// apply runs after SetData so relayout and fit see positioned nodes.
func (f *viewFlags) apply(v *viewer.Viewer) error {
	st := v.State()
	if f.typeFilter != "" {
		if err := st.SetTypeFilter(f.typeFilter); err != nil {
			return err
		}
	}
	if f.search != "" {
		st.Search = f.search
	}
	if f.noLabels {
		st.ShowLabels = false
	}
	if f.nodeSize > 0 {
		st.SetNodeSize(f.nodeSize)
	}
	if f.relayout {
		v.Relayout()
	}
	if f.zoom != 0 {
		st.SetZoom(f.zoom)
	}
	if f.pan != "" {
		x, y, err := parsePair(f.pan)
		if err != nil {
			return fmt.Errorf("--pan: %w", err)
		}
		st.Pan.X, st.Pan.Y = x, y
	}
	if f.selectID != "" {
		if _, ok := v.Graph().Node(f.selectID); !ok {
			return fmt.Errorf("--select: no node %q", f.selectID)
		}
		st.Select(f.selectID)
	}
	if f.fit {
		v.Fit()
	}
	return nil
}

func parsePair(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want X,Y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("want X,Y, got %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("want X,Y, got %q", s)
	}
	return x, y, nil
}

// formatOf picks png or svg from an output file extension, falling back to
// def.
func formatOf(path, def string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".svg":
		return "svg", nil
	case "":
		if def != "png" && def != "svg" {
			return "", fmt.Errorf("unsupported format %q (use png or svg)", def)
		}
		return def, nil
	default:
		return "", fmt.Errorf("unsupported output %q (use .png or .svg)", path)
	}
}

// writeFrame paints v into path in the given format.
func writeFrame(v *viewer.Viewer, path, format string) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "svg":
		err = v.ExportSVG(f)
	default:
		err = v.ExportPNG(f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// outputName derives an output file name from an input graph path.
func outputName(dir, input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+format)
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
