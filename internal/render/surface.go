// Package render paints a graph scene onto an immediate-mode drawing surface.
package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface is a 2D immediate-mode drawing target in the manner of an HTML
// canvas. Coordinates and line widths are in user space and go through the
// current transform; text is drawn at a fixed pixel size, centered on the
// transformed anchor.
type Surface interface {
	Size() (w, h int)
	Clear(c color.Color)
	Push()
	Pop()
	Translate(x, y float64)
	Scale(sx, sy float64)
	StrokeLine(a, b r2.Vec, width float64, c color.Color)
	FillPolygon(pts []r2.Vec, c color.Color)
	FillCircle(center r2.Vec, r float64, c color.Color)
	StrokeCircle(center r2.Vec, r, width float64, c color.Color)
	Text(s string, at r2.Vec, size float64, c color.Color)
}

// affine is a scale followed by a translation, which is all the renderer
// ever composes.
type affine struct {
	sx, sy, tx, ty float64
}

var identity = affine{sx: 1, sy: 1}

func (m affine) translate(x, y float64) affine {
	return affine{sx: m.sx, sy: m.sy, tx: m.tx + m.sx*x, ty: m.ty + m.sy*y}
}

func (m affine) scale(sx, sy float64) affine {
	return affine{sx: m.sx * sx, sy: m.sy * sy, tx: m.tx, ty: m.ty}
}

func (m affine) apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: m.sx*p.X + m.tx, Y: m.sy*p.Y + m.ty}
}

// lengthScale converts a user-space length to device pixels.
func (m affine) lengthScale() float64 {
	return math.Sqrt(math.Abs(m.sx * m.sy))
}

// transformStack tracks the current transform for surfaces that draw in
// device space.
type transformStack struct {
	cur   affine
	saved []affine
}

func newTransformStack() transformStack {
	return transformStack{cur: identity}
}

func (t *transformStack) push() {
	t.saved = append(t.saved, t.cur)
}

func (t *transformStack) pop() {
	if len(t.saved) == 0 {
		return
	}
	t.cur = t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
}

func (t *transformStack) translate(x, y float64) { t.cur = t.cur.translate(x, y) }
func (t *transformStack) scale(sx, sy float64)   { t.cur = t.cur.scale(sx, sy) }
