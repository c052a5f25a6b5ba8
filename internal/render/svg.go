package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"
)

// SVG is a vector Surface. svgo takes integer device coordinates, so the
// transform is applied here and points are rounded. Call Close to finish the
// document.
type SVG struct {
	canvas *svg.SVG
	w, h   int
	tf     transformStack
}

// NewSVG starts a w×h SVG document on out.
func NewSVG(out io.Writer, w, h int) *SVG {
	canvas := svg.New(out)
	canvas.Start(w, h)
	return &SVG{canvas: canvas, w: w, h: h, tf: newTransformStack()}
}

// Close ends the document.
func (s *SVG) Close() {
	s.canvas.End()
}

func (s *SVG) Size() (int, int) { return s.w, s.h }

func (s *SVG) Clear(c color.Color) {
	s.canvas.Rect(0, 0, s.w, s.h, "fill:"+paint(c))
}

func (s *SVG) Push()                  { s.tf.push() }
func (s *SVG) Pop()                   { s.tf.pop() }
func (s *SVG) Translate(x, y float64) { s.tf.translate(x, y) }
func (s *SVG) Scale(sx, sy float64)   { s.tf.scale(sx, sy) }

func (s *SVG) StrokeLine(a, b r2.Vec, width float64, c color.Color) {
	p, q := s.tf.cur.apply(a), s.tf.cur.apply(b)
	s.canvas.Line(round(p.X), round(p.Y), round(q.X), round(q.Y),
		fmt.Sprintf("stroke:%s;stroke-width:%.2f", paint(c), width*s.tf.cur.lengthScale()))
}

func (s *SVG) FillPolygon(pts []r2.Vec, c color.Color) {
	if len(pts) < 3 {
		return
	}
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		d := s.tf.cur.apply(p)
		xs[i], ys[i] = round(d.X), round(d.Y)
	}
	s.canvas.Polygon(xs, ys, "fill:"+paint(c))
}

func (s *SVG) FillCircle(center r2.Vec, r float64, c color.Color) {
	p := s.tf.cur.apply(center)
	s.canvas.Circle(round(p.X), round(p.Y), round(r*s.tf.cur.lengthScale()), "fill:"+paint(c))
}

func (s *SVG) StrokeCircle(center r2.Vec, r, width float64, c color.Color) {
	p := s.tf.cur.apply(center)
	s.canvas.Circle(round(p.X), round(p.Y), round(r*s.tf.cur.lengthScale()),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f", paint(c), width*s.tf.cur.lengthScale()))
}

func (s *SVG) Text(t string, at r2.Vec, size float64, c color.Color) {
	p := s.tf.cur.apply(at)
	s.canvas.Text(round(p.X), round(p.Y), t,
		fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:central", paint(c), size))
}

func round(v float64) int {
	return int(math.Round(v))
}

// paint renders a color as an SVG paint value with opacity.
func paint(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", n.R, n.G, n.B, float64(n.A)/255)
}
