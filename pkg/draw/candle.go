package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// Candle draws candlesticks. Bodies are at least one pixel tall. Filled
// candles draw the wick through the body; stroked candles stop the wicks
// half a line width short of the body outline.
func (d *Drawer) Candle(bars []core.OHLC, style Styler) error {
	vis := d.ctx.visible(len(bars))
	width := math.Max(d.ctx.X.BarWidth()*barFill, 1)

	for i := vis.From; i < vis.To; i++ {
		bar := bars[i]
		if !bar.IsValid() {
			continue
		}
		d.ctx.observe(bar.High, bar.Low)

		prev := math.NaN()
		if i > 0 {
			prev = bars[i-1].Close
		}
		st, err := d.style("candle", style, Element{Index: i, Value: bar.Close, Prev: prev, Bar: bar}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden {
			continue
		}

		err = d.scope("candle", func(s surface.Surface) {
			x := d.ctx.X.IndexToPixel(float64(i))
			yOpen, yClose := d.ctx.Y.ValueToPixel(bar.Open), d.ctx.Y.ValueToPixel(bar.Close)
			yHigh, yLow := d.ctx.Y.ValueToPixel(bar.High), d.ctx.Y.ValueToPixel(bar.Low)
			if !finite(x, yOpen, yClose, yHigh, yLow) {
				return
			}

			bodyTop := math.Min(yOpen, yClose)
			bodyHeight := math.Max(math.Abs(yOpen-yClose), 1)
			left := x - width/2

			apply(s, st, st.Color.Linear(x, yHigh, x, yLow))

			if st.Mode == ModeStroke {
				half := st.LineWidth / 2
				s.BeginPath()
				if bodyTop-half > yHigh {
					s.MoveTo(x, yHigh)
					s.LineTo(x, bodyTop-half)
				}
				if bodyTop+bodyHeight+half < yLow {
					s.MoveTo(x, bodyTop+bodyHeight+half)
					s.LineTo(x, yLow)
				}
				s.Stroke()
				s.StrokeRect(left, bodyTop, width, bodyHeight)
				return
			}

			wick := math.Max(st.LineWidth, 1)
			s.FillRect(x-wick/2, yHigh, wick, math.Max(yLow-yHigh, 1))
			s.FillRect(left, bodyTop, width, bodyHeight)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
