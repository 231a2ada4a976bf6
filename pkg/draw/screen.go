package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/surface"
)

// screenElement is the element context of screen-relative primitives
var screenElement = Element{Index: -1, Value: math.NaN(), Prev: math.NaN()}

// screenStyle resolves the style of a screen primitive, false when hidden
// or failed
func (d *Drawer) screenStyle(primitive string, style Styler, e Element, mode Mode) (Style, bool, error) {
	st, err := d.style(primitive, style, e, mode)
	if err != nil {
		return st, false, err
	}
	return st, !st.Hidden, nil
}

// HLine draws a horizontal line across the pane. A numeric position is a
// value, a token a screen position.
func (d *Drawer) HLine(y Pos, style Styler) error {
	e := screenElement
	if v, ok := y.Number(); ok {
		e.Value = v
		d.ctx.observe(v)
	}
	st, ok, err := d.screenStyle("hline", style, e, ModeStroke)
	if !ok {
		return err
	}

	box := d.ctx.Box
	return d.scope("hline", func(s surface.Surface) {
		py := d.res.Y(y, DataSpace)
		if !finite(py) {
			return
		}
		st.Mode = ModeStroke
		apply(s, st, st.Color.Linear(box.X, py, box.Right(), py))
		s.BeginPath()
		s.MoveTo(box.X, py)
		s.LineTo(box.Right(), py)
		s.Stroke()
	})
}

// VLine draws a vertical line across the pane. A numeric position is a bar
// index, a token a screen position.
func (d *Drawer) VLine(x Pos, style Styler) error {
	e := screenElement
	if v, ok := x.Number(); ok {
		e.Index = int(v)
	}
	st, ok, err := d.screenStyle("vline", style, e, ModeStroke)
	if !ok {
		return err
	}

	box := d.ctx.Box
	return d.scope("vline", func(s surface.Surface) {
		px := d.res.X(x, DataSpace)
		if !finite(px) {
			return
		}
		st.Mode = ModeStroke
		apply(s, st, st.Color.Linear(px, box.Y, px, box.Bottom()))
		s.BeginPath()
		s.MoveTo(px, box.Y)
		s.LineTo(px, box.Bottom())
		s.Stroke()
	})
}

// SLine draws a polyline through screen positions
func (d *Drawer) SLine(points []Point, style Styler) error {
	if len(points) < 2 {
		return nil
	}
	st, ok, err := d.screenStyle("sline", style, screenElement, ModeStroke)
	if !ok {
		return err
	}

	return d.scope("sline", func(s surface.Surface) {
		xs, ys := d.screenPoints(points)
		st.Mode = ModeStroke
		apply(s, st, st.Color.Linear(xs[0], ys[0], xs[len(xs)-1], ys[len(ys)-1]))
		trace(s, xs, ys)
		s.Stroke()
	})
}

// SArea fills the polygon through screen positions
func (d *Drawer) SArea(points []Point, style Styler) error {
	if len(points) < 3 {
		return nil
	}
	st, ok, err := d.screenStyle("sarea", style, screenElement, ModeFill)
	if !ok {
		return err
	}

	return d.scope("sarea", func(s surface.Surface) {
		xs, ys := d.screenPoints(points)
		top, bottom := ys[0], ys[0]
		for _, y := range ys {
			top, bottom = math.Min(top, y), math.Max(bottom, y)
		}

		apply(s, st, st.Color.Linear(xs[0], top, xs[0], bottom))
		trace(s, xs, ys)
		s.ClosePath()
		if st.Mode == ModeStroke {
			s.Stroke()
			return
		}
		s.Fill()
	})
}

// SRect draws the rectangle between two screen corners
func (d *Drawer) SRect(from, to Point, style Styler) error {
	st, ok, err := d.screenStyle("srect", style, screenElement, ModeFill)
	if !ok {
		return err
	}

	return d.scope("srect", func(s surface.Surface) {
		x0, x1 := d.res.X(from.X, ScreenSpace), d.res.X(to.X, ScreenSpace)
		y0, y1 := d.res.Y(from.Y, ScreenSpace), d.res.Y(to.Y, ScreenSpace)
		left, top := math.Min(x0, x1), math.Min(y0, y1)
		w, h := math.Abs(x1-x0), math.Abs(y1-y0)

		apply(s, st, st.Color.Linear(left, top, left, top+h))
		paintRect(s, st, left, top, w, h)
	})
}

// SShape draws the style icon at a screen position
func (d *Drawer) SShape(at Point, style Styler) error {
	st, ok, err := d.screenStyle("sshape", style, screenElement, ModeFill)
	if !ok {
		return err
	}
	return d.scope("sshape", func(s surface.Surface) {
		icon(s, st, d.res.X(at.X, ScreenSpace), d.res.Y(at.Y, ScreenSpace))
	})
}

// SCircle draws a circle of radius Size at a screen position
func (d *Drawer) SCircle(at Point, style Styler) error {
	st, ok, err := d.screenStyle("scircle", style, screenElement, ModeFill)
	if !ok {
		return err
	}
	st.Icon = IconCircle
	return d.scope("scircle", func(s surface.Surface) {
		icon(s, st, d.res.X(at.X, ScreenSpace), d.res.Y(at.Y, ScreenSpace))
	})
}

// SLabel draws a text at a screen position
func (d *Drawer) SLabel(at Point, content string, style Styler) error {
	if content == "" {
		return nil
	}
	st, ok, err := d.screenStyle("slabel", style, screenElement, ModeFill)
	if !ok {
		return err
	}
	return d.scope("slabel", func(s surface.Surface) {
		text(s, st, content, d.res.X(at.X, ScreenSpace), d.res.Y(at.Y, ScreenSpace))
	})
}

func (d *Drawer) screenPoints(points []Point) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for k, p := range points {
		xs[k] = d.res.X(p.X, ScreenSpace)
		ys[k] = d.res.Y(p.Y, ScreenSpace)
	}
	return xs, ys
}

func trace(s surface.Surface, xs, ys []float64) {
	s.BeginPath()
	s.MoveTo(xs[0], ys[0])
	for k := 1; k < len(xs); k++ {
		s.LineTo(xs[k], ys[k])
	}
}
