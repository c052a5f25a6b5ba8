// Package layout positions graph nodes with a simplified Fruchterman-Reingold
// simulation: pairwise repulsion, edge attraction and a centering pull, all
// damped by a linearly cooling alpha.
package layout

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/kgview/internal/graph"
)

const (
	DefaultIterations  = 100
	RelayoutIterations = 200
	DefaultJitter      = 25.0
	DefaultRepulsion   = 100.0
	DefaultAttraction  = 0.01
	DefaultGravity     = 0.01
	DefaultRadiusRatio = 0.3
)

// Config configures the simulation.
type Config struct {
	Width       float64 // canvas width
	Height      float64 // canvas height
	Iterations  int     // steps per run; <= 0 keeps the initial placement
	Jitter      float64 // max random offset per axis at placement; 0 disables
	Seed        uint64  // jitter seed; 0 derives one from the node ids
	Repulsion   float64
	Attraction  float64
	Gravity     float64 // fraction of the distance to the center pulled back per step
	RadiusRatio float64 // initial circle radius as a fraction of min(Width, Height)
}

// DefaultConfig returns the standard parameters for a canvas.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:       width,
		Height:      height,
		Iterations:  DefaultIterations,
		Jitter:      DefaultJitter,
		Repulsion:   DefaultRepulsion,
		Attraction:  DefaultAttraction,
		Gravity:     DefaultGravity,
		RadiusRatio: DefaultRadiusRatio,
	}
}

// Engine runs layouts. It holds no per-graph state and may be reused.
type Engine struct {
	cfg      Config
	repulser Repulser
	logger   *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRepulser swaps the repulsion strategy.
func WithRepulser(r Repulser) Option {
	return func(e *Engine) { e.repulser = r }
}

// WithLogger attaches a logger for run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine. Zero force parameters fall back to the defaults.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.Repulsion == 0 {
		cfg.Repulsion = DefaultRepulsion
	}
	if cfg.Attraction == 0 {
		cfg.Attraction = DefaultAttraction
	}
	if cfg.Gravity == 0 {
		cfg.Gravity = DefaultGravity
	}
	if cfg.RadiusRatio == 0 {
		cfg.RadiusRatio = DefaultRadiusRatio
	}
	e := &Engine{cfg: cfg, repulser: Pairwise{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Config returns the engine configuration after defaults were applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// Layout runs the configured number of iterations.
func (e *Engine) Layout(g *graph.Graph) []graph.Node {
	return e.Run(g, e.cfg.Iterations)
}

// Run places every node of g and returns copies carrying the positions.
// Edges whose endpoints are unknown, and self-loops, exert no force.
func (e *Engine) Run(g *graph.Graph, iterations int) []graph.Node {
	if g.Empty() {
		return []graph.Node{}
	}
	start := time.Now()

	pos := e.place(g)
	springs := springsOf(g)

	for i := 0; i < iterations; i++ {
		alpha := 1 - float64(i)/float64(iterations)
		e.repulser.Repel(pos, e.cfg.Repulsion*alpha)
		e.attract(pos, springs, alpha)
		e.center(pos, alpha)
	}

	out := make([]graph.Node, len(g.Nodes))
	copy(out, g.Nodes)
	for i := range out {
		out[i].X = pos[i].X
		out[i].Y = pos[i].Y
	}

	e.logger.Debug("layout complete",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("springs", len(springs)),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

// place puts the nodes evenly on a circle around the canvas center, with
// optional jitter to break symmetry.
func (e *Engine) place(g *graph.Graph) []r2.Vec {
	n := len(g.Nodes)
	center := r2.Vec{X: e.cfg.Width / 2, Y: e.cfg.Height / 2}
	radius := math.Min(e.cfg.Width, e.cfg.Height) * e.cfg.RadiusRatio

	seed := e.cfg.Seed
	if seed == 0 {
		seed = SeedFor(g)
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	pos := make([]r2.Vec, n)
	for i := range pos {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := r2.Add(center, r2.Scale(radius, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
		if e.cfg.Jitter > 0 {
			p.X += (rng.Float64()*2 - 1) * e.cfg.Jitter
			p.Y += (rng.Float64()*2 - 1) * e.cfg.Jitter
		}
		pos[i] = p
	}
	return pos
}

type spring struct {
	src, dst int
	weight   float64
}

func springsOf(g *graph.Graph) []spring {
	idx := g.Index()
	springs := make([]spring, 0, len(g.Edges))
	for _, edge := range g.Edges {
		s, okS := idx[edge.Source]
		t, okT := idx[edge.Target]
		if !okS || !okT || s == t {
			continue
		}
		springs = append(springs, spring{src: s, dst: t, weight: edge.EffectiveWeight()})
	}
	return springs
}

// attract pulls both endpoints of every spring toward each other on both
// axes. The pull is capped at half the distance so heavy edges cannot make
// the endpoints cross.
func (e *Engine) attract(pos []r2.Vec, springs []spring, alpha float64) {
	for _, s := range springs {
		d := r2.Sub(pos[s.dst], pos[s.src])
		dist := r2.Norm(d)
		if dist == 0 {
			continue
		}
		f := math.Min(dist*e.cfg.Attraction*alpha*s.weight, dist/2)
		step := r2.Scale(f/dist, d)
		pos[s.src] = r2.Add(pos[s.src], step)
		pos[s.dst] = r2.Sub(pos[s.dst], step)
	}
}

func (e *Engine) center(pos []r2.Vec, alpha float64) {
	c := r2.Vec{X: e.cfg.Width / 2, Y: e.cfg.Height / 2}
	k := e.cfg.Gravity * alpha
	for i := range pos {
		pos[i] = r2.Add(pos[i], r2.Scale(k, r2.Sub(c, pos[i])))
	}
}

// SeedFor derives a stable jitter seed from the node ids, so the same graph
// always lays out the same way.
func SeedFor(g *graph.Graph) uint64 {
	h := xxhash.New()
	for _, n := range g.Nodes {
		_, _ = h.WriteString(n.ID)
		_, _ = h.Write([]byte{0})
	}
	if s := h.Sum64(); s != 0 {
		return s
	}
	return 1
}
