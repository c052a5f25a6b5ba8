package render

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// OpKind names a recorded drawing call.
type OpKind string

const (
	OpClear        OpKind = "clear"
	OpLine         OpKind = "line"
	OpPolygon      OpKind = "polygon"
	OpFillCircle   OpKind = "fill-circle"
	OpStrokeCircle OpKind = "stroke-circle"
	OpText         OpKind = "text"
)

// Op is one drawing call with its geometry already in device space.
type Op struct {
	Kind   OpKind
	Points []r2.Vec
	Radius float64
	Width  float64
	Text   string
	Size   float64
	Color  color.Color
}

// Recorder is a Surface that draws nothing and keeps the calls it receives.
type Recorder struct {
	W, H int
	Ops  []Op
	tf   transformStack
}

// NewRecorder creates a recorder reporting a w×h size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, tf: newTransformStack()}
}

// Reset forgets recorded calls and the transform.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.tf = newTransformStack()
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Color: c})
}

func (r *Recorder) Push()                  { r.tf.push() }
func (r *Recorder) Pop()                   { r.tf.pop() }
func (r *Recorder) Translate(x, y float64) { r.tf.translate(x, y) }
func (r *Recorder) Scale(sx, sy float64)   { r.tf.scale(sx, sy) }

func (r *Recorder) StrokeLine(a, b r2.Vec, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpLine,
		Points: []r2.Vec{r.tf.cur.apply(a), r.tf.cur.apply(b)},
		Width:  width * r.tf.cur.lengthScale(),
		Color:  c,
	})
}

func (r *Recorder) FillPolygon(pts []r2.Vec, c color.Color) {
	dev := make([]r2.Vec, len(pts))
	for i, p := range pts {
		dev[i] = r.tf.cur.apply(p)
	}
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: dev, Color: c})
}

func (r *Recorder) FillCircle(center r2.Vec, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpFillCircle,
		Points: []r2.Vec{r.tf.cur.apply(center)},
		Radius: radius * r.tf.cur.lengthScale(),
		Color:  c,
	})
}

func (r *Recorder) StrokeCircle(center r2.Vec, radius, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpStrokeCircle,
		Points: []r2.Vec{r.tf.cur.apply(center)},
		Radius: radius * r.tf.cur.lengthScale(),
		Width:  width * r.tf.cur.lengthScale(),
		Color:  c,
	})
}

func (r *Recorder) Text(s string, at r2.Vec, size float64, c color.Color) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpText,
		Points: []r2.Vec{r.tf.cur.apply(at)},
		Text:   s,
		Size:   size,
		Color:  c,
	})
}
