package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Repulser applies one step of node-node repulsion in place. strength is the
// already-cooled force constant; a node at distance d from another moves
// strength/d away from it.
//
// Pairwise is quadratic in the node count and fine for a few hundred nodes.
// A spatial index (quad-tree, Barnes-Hut) can be plugged in through this
// interface for larger graphs.
type Repulser interface {
	Repel(pos []r2.Vec, strength float64)
}

// Pairwise visits every ordered pair of distinct nodes. Displacements are
// summed over the whole double loop and applied together, so the result does
// not depend on node order.
type Pairwise struct{}

// Repel implements Repulser.
func (Pairwise) Repel(pos []r2.Vec, strength float64) {
	disp := make([]r2.Vec, len(pos))
	for i := range pos {
		for j := range pos {
			if i == j {
				continue
			}
			d := r2.Sub(pos[j], pos[i])
			dist := r2.Norm(d)
			if dist == 0 {
				continue
			}
			f := strength / math.Max(dist, 1)
			disp[i] = r2.Sub(disp[i], r2.Scale(f/dist, d))
		}
	}
	for i := range pos {
		pos[i] = r2.Add(pos[i], disp[i])
	}
}
