package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// barFill is the share of the bar slot covered by bars and candle bodies
const barFill = 0.8

// Bar draws a bar from base to each value
func (d *Drawer) Bar(values []float64, base float64, style Styler) error {
	vis := d.ctx.visible(len(values))
	width := math.Max(d.ctx.X.BarWidth()*barFill, 1)

	for i := vis.From; i < vis.To; i++ {
		v := values[i]
		if !core.Valid(v) {
			continue
		}
		d.ctx.observe(v, base)

		st, err := d.style("bar", style, Element{Index: i, Value: v, Prev: core.At(values, i-1)}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden {
			continue
		}

		err = d.scope("bar", func(s surface.Surface) {
			x := d.ctx.X.IndexToPixel(float64(i))
			top := d.ctx.Y.ValueToPixel(math.Max(v, base))
			bottom := d.ctx.Y.ValueToPixel(math.Min(v, base))
			if !finite(x, top, bottom) {
				return
			}
			height := math.Max(bottom-top, 1)

			apply(s, st, st.Color.Linear(x, top, x, top+height))
			paintRect(s, st, x-width/2, top, width, height)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
