// Package cache keeps computed layouts on disk so unchanged graphs are not
// simulated again. Layout is deterministic for a given graph and
// configuration, so a hit returns exactly what a fresh run would.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/layout"
)

// Dir returns the cache directory path.
func Dir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "kgview")
}

// LayoutDir is where layout entries live.
func LayoutDir() string {
	return filepath.Join(Dir(), "layouts")
}

// Layouts stores node positions keyed by graph structure and layout
// parameters.
type Layouts struct {
	dir string
}

// New opens a layout cache rooted at dir. The directory is created on the
// first Store.
func New(dir string) *Layouts {
	return &Layouts{dir: dir}
}

type entry struct {
	IDs []string     `json:"ids"`
	Pos [][2]float64 `json:"pos"`
}

// Key digests everything that influences a layout: node ids in order, edge
// endpoints and weights, the configuration and the iteration count.
// Labels, types and properties do not move nodes and are left out.
func Key(g *graph.Graph, cfg layout.Config, iterations int) string {
	d := xxhash.New()
	var buf [8]byte
	num := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	str := func(s string) {
		num(float64(len(s)))
		_, _ = d.WriteString(s)
	}

	num(float64(len(g.Nodes)))
	for _, n := range g.Nodes {
		str(n.ID)
	}
	num(float64(len(g.Edges)))
	for _, e := range g.Edges {
		str(e.Source)
		str(e.Target)
		num(e.EffectiveWeight())
	}
	for _, f := range []float64{
		cfg.Width, cfg.Height, cfg.Jitter, float64(cfg.Seed),
		cfg.Repulsion, cfg.Attraction, cfg.Gravity, cfg.RadiusRatio,
		float64(iterations),
	} {
		num(f)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func (c *Layouts) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Lookup returns g's nodes carrying cached positions, if an entry exists
// and still matches the node ids.
func (c *Layouts) Lookup(g *graph.Graph, cfg layout.Config, iterations int) ([]graph.Node, bool) {
	data, err := os.ReadFile(c.path(Key(g, cfg, iterations)))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil || len(e.Pos) != len(g.Nodes) || len(e.IDs) != len(g.Nodes) {
		return nil, false
	}
	out := make([]graph.Node, len(g.Nodes))
	copy(out, g.Nodes)
	for i := range out {
		if e.IDs[i] != out[i].ID {
			return nil, false
		}
		out[i].X, out[i].Y = e.Pos[i][0], e.Pos[i][1]
	}
	return out, true
}

// Store records the positions of nodes, which must be the layout of g.
func (c *Layouts) Store(g *graph.Graph, cfg layout.Config, iterations int, nodes []graph.Node) error {
	if len(nodes) != len(g.Nodes) {
		return fmt.Errorf("cache: %d positions for %d nodes", len(nodes), len(g.Nodes))
	}
	e := entry{IDs: make([]string, len(nodes)), Pos: make([][2]float64, len(nodes))}
	for i, n := range nodes {
		e.IDs[i] = n.ID
		e.Pos[i] = [2]float64{n.X, n.Y}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path(Key(g, cfg, iterations)), data, 0o644)
}

// Clear removes every entry and reports how many there were.
func (c *Layouts) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0, err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// Len reports how many entries are stored.
func (c *Layouts) Len() int {
	matches, _ := filepath.Glob(filepath.Join(c.dir, "*.json"))
	return len(matches)
}
