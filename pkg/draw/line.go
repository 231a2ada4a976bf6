package draw

import (
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// Line draws one segment between consecutive valid values. Invalid values
// break the line unless the style of the next valid element is Continuous.
func (d *Drawer) Line(values []float64, style Styler) error {
	vis := d.ctx.visible(len(values))
	prev := -1

	for i := vis.From; i < vis.To; i++ {
		v := values[i]
		if !core.Valid(v) {
			continue
		}
		d.ctx.observe(v)

		st, err := d.style("line", style, Element{Index: i, Value: v, Prev: core.At(values, i-1)}, ModeStroke)
		if err != nil {
			return err
		}
		from := prev
		prev = i
		if st.Hidden || from < 0 || (from != i-1 && !st.Continuous) {
			continue
		}

		err = d.scope("line", func(s surface.Surface) {
			x0, y0 := d.ctx.X.IndexToPixel(float64(from)), d.ctx.Y.ValueToPixel(values[from])
			x1, y1 := d.ctx.X.IndexToPixel(float64(i)), d.ctx.Y.ValueToPixel(v)
			if !finite(x0, y0, x1, y1) {
				return
			}

			st.Mode = ModeStroke
			apply(s, st, st.Color.Linear(x0, y0, x1, y1))
			s.BeginPath()
			s.MoveTo(x0, y0)
			s.LineTo(x1, y1)
			s.Stroke()
		})
		if err != nil {
			return err
		}
	}
	return nil
}
