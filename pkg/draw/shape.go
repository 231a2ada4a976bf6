package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

const (
	IconCircle       = "circle"
	IconSquare       = "square"
	IconTriangleUp   = "triangleUp"
	IconTriangleDown = "triangleDown"
	IconDiamond      = "diamond"
	IconCross        = "cross"
	IconArrowUp      = "arrowUp"
	IconArrowDown    = "arrowDown"
)

// Shape draws the style icon at each value
func (d *Drawer) Shape(values []float64, style Styler) error {
	vis := d.ctx.visible(len(values))

	for i := vis.From; i < vis.To; i++ {
		v := values[i]
		if !core.Valid(v) {
			continue
		}
		d.ctx.observe(v)

		st, err := d.style("shape", style, Element{Index: i, Value: v, Prev: core.At(values, i-1)}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden {
			continue
		}

		err = d.scope("shape", func(s surface.Surface) {
			x, y := d.ctx.X.IndexToPixel(float64(i)), d.ctx.Y.ValueToPixel(v)
			if finite(x, y) {
				icon(s, st, x, y)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// icon draws st.Icon centered at (x, y) with st.Size as radius. Unknown
// icons are drawn as circles.
func icon(s surface.Surface, st Style, x, y float64) {
	r := st.Size
	apply(s, st, st.Color.Radial(x, y, r))

	s.BeginPath()
	switch st.Icon {
	case IconSquare:
		s.Rect(x-r, y-r, 2*r, 2*r)
	case IconTriangleUp:
		polygon(s, x, y-r, x+r, y+r, x-r, y+r)
	case IconTriangleDown:
		polygon(s, x, y+r, x+r, y-r, x-r, y-r)
	case IconDiamond:
		polygon(s, x, y-r, x+r, y, x, y+r, x-r, y)
	case IconArrowUp:
		polygon(s, x, y-r, x+r, y, x+r/3, y, x+r/3, y+r, x-r/3, y+r, x-r/3, y, x-r, y)
	case IconArrowDown:
		polygon(s, x, y+r, x+r, y, x+r/3, y, x+r/3, y-r, x-r/3, y-r, x-r/3, y, x-r, y)
	case IconCross:
		s.MoveTo(x-r, y-r)
		s.LineTo(x+r, y+r)
		s.MoveTo(x+r, y-r)
		s.LineTo(x-r, y+r)
		s.SetStrokeStyle(st.Color.Radial(x, y, r))
		s.Stroke()
		return
	default:
		s.Arc(x, y, r, 0, 2*math.Pi)
	}

	if st.Mode == ModeStroke {
		s.Stroke()
		return
	}
	s.Fill()
}

// polygon adds a closed path through the coordinate pairs
func polygon(s surface.Surface, coords ...float64) {
	s.MoveTo(coords[0], coords[1])
	for k := 2; k+1 < len(coords); k += 2 {
		s.LineTo(coords[k], coords[k+1])
	}
	s.ClosePath()
}
