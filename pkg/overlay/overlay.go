// Package overlay holds figure templates drawn on the main pane overlay
// layer. A template turns anchor points and an optional payload into a list
// of rectangles and lines; the host draws them.
package overlay

import (
	"errors"
	"fmt"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

var ErrUnknownTemplate = errors.New("unknown overlay template")

// FigureKind is the shape of a figure
type FigureKind string

const (
	FigureRect FigureKind = "rect"
	FigureLine FigureKind = "line"
)

// Point is a pixel position
type Point struct {
	X, Y float64
}

// Figure is a primitive descriptor returned by templates. Rectangles use the
// first two points as opposite corners, lines join every point in order.
type Figure struct {
	Kind      FigureKind
	Points    []Point
	Color     string
	Stroke    bool
	LineWidth float64
	Dash      []float64
}

// Anchor pins an overlay to a bar and a value
type Anchor struct {
	Index int
	Value float64
}

// Geometry is what a template sees of the pane at draw time
type Geometry struct {
	// Points are the anchors converted to pixels
	Points   []Point
	BarWidth float64
	Top      float64
	Bottom   float64
	// Y maps a value to a pixel row
	Y func(value float64) float64
}

// Template builds the figures of one overlay
type Template interface {
	Name() string
	Figures(g Geometry, payload any) []Figure
}

// Overlay is a template pinned to anchors
type Overlay struct {
	Template Template
	Anchors  []Anchor
	Payload  any
}

// Figures places the anchors with the given axis mappings and asks the
// template for its figures. Anchors with a negative index or an invalid
// value are dropped.
func (o Overlay) Figures(x func(index float64) float64, y func(value float64) float64, barWidth, top, bottom float64) []Figure {
	if o.Template == nil {
		return nil
	}
	anchors := valid(o.Anchors)
	points := make([]Point, len(anchors))
	for i, a := range anchors {
		points[i] = Point{X: x(float64(a.Index)), Y: y(a.Value)}
	}
	return o.Template.Figures(Geometry{
		Points:   points,
		BarWidth: barWidth,
		Top:      top,
		Bottom:   bottom,
		Y:        y,
	}, o.Payload)
}

// Templates is a lookup of templates by name
type Templates map[string]Template

// Default returns the built-in templates
func Default() Templates {
	return Templates{
		NameHighlight: Highlight{},
		NameProfile:   ProfileSidebar{},
	}
}

// New pins the named template to anchors
func (t Templates) New(name string, payload any, anchors ...Anchor) (Overlay, error) {
	tpl, ok := t[name]
	if !ok {
		return Overlay{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return Overlay{Template: tpl, Anchors: anchors, Payload: payload}, nil
}

// Render draws figures on s, each inside its own save/restore scope
func Render(s surface.Surface, figures []Figure) {
	for _, f := range figures {
		if len(f.Points) == 0 {
			continue
		}
		s.Save()
		render(s, f)
		s.Restore()
	}
}

func render(s surface.Surface, f Figure) {
	paint := surface.Color(f.Color)
	width := f.LineWidth
	if width <= 0 {
		width = 1
	}
	s.SetLineWidth(width)
	if len(f.Dash) > 0 {
		s.SetLineDash(f.Dash)
	}

	switch f.Kind {
	case FigureRect:
		if len(f.Points) < 2 {
			return
		}
		a, b := f.Points[0], f.Points[1]
		x, y := min(a.X, b.X), min(a.Y, b.Y)
		w, h := max(a.X, b.X)-x, max(a.Y, b.Y)-y
		if f.Stroke {
			s.SetStrokeStyle(paint)
			s.StrokeRect(x, y, w, h)
			return
		}
		s.SetFillStyle(paint)
		s.FillRect(x, y, w, h)
	case FigureLine:
		s.SetStrokeStyle(paint)
		s.BeginPath()
		s.MoveTo(f.Points[0].X, f.Points[0].Y)
		for _, p := range f.Points[1:] {
			s.LineTo(p.X, p.Y)
		}
		s.Stroke()
	}
}

// valid drops anchors that cannot be placed
func valid(anchors []Anchor) []Anchor {
	out := anchors[:0:0]
	for _, a := range anchors {
		if a.Index >= 0 && core.Valid(a.Value) {
			out = append(out, a)
		}
	}
	return out
}
