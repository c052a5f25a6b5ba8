package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/gonum/spatial/r2"
)

// Canvas is a raster Surface backed by a gg context.
type Canvas struct {
	dc    *gg.Context
	tf    transformStack
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewCanvas allocates a w×h raster surface.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", w, h)
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Canvas{
		dc:    gg.NewContext(w, h),
		tf:    newTransformStack(),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}, nil
}

// Image returns the backing image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the current pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) Push() {
	c.dc.Push()
	c.tf.push()
}

func (c *Canvas) Pop() {
	c.dc.Pop()
	c.tf.pop()
}

func (c *Canvas) Translate(x, y float64) {
	c.dc.Translate(x, y)
	c.tf.translate(x, y)
}

func (c *Canvas) Scale(sx, sy float64) {
	c.dc.Scale(sx, sy)
	c.tf.scale(sx, sy)
}

// gg strokes in device pixels, so widths are converted through the tracked
// transform to keep canvas semantics.
func (c *Canvas) StrokeLine(a, b r2.Vec, width float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.tf.cur.lengthScale())
	c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	c.dc.Stroke()
}

func (c *Canvas) FillPolygon(pts []r2.Vec, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.dc.SetColor(col)
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.Fill()
}

func (c *Canvas) FillCircle(center r2.Vec, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(center.X, center.Y, r)
	c.dc.Fill()
}

func (c *Canvas) StrokeCircle(center r2.Vec, r, width float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.tf.cur.lengthScale())
	c.dc.DrawCircle(center.X, center.Y, r)
	c.dc.Stroke()
}

func (c *Canvas) Text(s string, at r2.Vec, size float64, col color.Color) {
	face, err := c.face(size)
	if err != nil {
		return
	}
	p := c.tf.cur.apply(at)
	c.dc.Push()
	c.dc.Identity()
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, p.X, p.Y, 0.5, 0.5)
	c.dc.Pop()
}

func (c *Canvas) face(size float64) (font.Face, error) {
	if f, ok := c.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[size] = f
	return f, nil
}
