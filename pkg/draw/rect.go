package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// Zone is a rectangle between two bar indices and two values
type Zone struct {
	From, To    int
	Top, Bottom float64
}

func (z Zone) valid() bool {
	return core.Valid(z.Top) && core.Valid(z.Bottom)
}

// Rect draws the zones registered at each index. Every index may hold any
// number of zones; a zone is drawn when its index span meets the visible
// range, even when the registering index is scrolled out.
func (d *Drawer) Rect(zones [][]Zone, style Styler) error {
	half := d.ctx.X.BarWidth() / 2

	for i, group := range zones {
		for _, z := range group {
			if !z.valid() || !d.ctx.Visible.Intersects(z.From, z.To) {
				continue
			}
			d.ctx.observe(z.Top, z.Bottom)

			st, err := d.style("rect", style, Element{Index: i, Value: z.Top, Prev: z.Bottom}, ModeFill)
			if err != nil {
				return err
			}
			if st.Hidden {
				continue
			}

			err = d.scope("rect", func(s surface.Surface) {
				from, to := min(z.From, z.To), max(z.From, z.To)
				x0 := d.ctx.X.IndexToPixel(float64(from)) - half
				x1 := d.ctx.X.IndexToPixel(float64(to)) + half
				y0 := d.ctx.Y.ValueToPixel(math.Max(z.Top, z.Bottom))
				y1 := d.ctx.Y.ValueToPixel(math.Min(z.Top, z.Bottom))
				if !finite(x0, x1, y0, y1) {
					return
				}

				apply(s, st, st.Color.Linear(x0, y0, x0, y1))
				paintRect(s, st, x0, y0, x1-x0, math.Max(y1-y0, 1))
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
