package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// Crossover draws a fast and a slow EMA, marks their crossings and opens an
// order of size on a crossing at the last bar: a buy when the fast average
// crosses above the slow one, a sell when it crosses below
func Crossover(fast, slow int, size float64, colorFast, colorSlow string) plot.Indicator {
	return &crossover{Fast: fast, Slow: slow, Size: size, ColorFast: colorFast, ColorSlow: colorSlow}
}

type crossover struct {
	Fast      int
	Slow      int
	Size      float64
	ColorFast string
	ColorSlow string

	fast  []float64
	slow  []float64
	ups   []float64
	downs []float64
}

func (c crossover) Name() string { return fmt.Sprintf("Cross(%d, %d)", c.Fast, c.Slow) }

func (c crossover) Overlay() bool { return true }

func (c crossover) Warmup() int { return max(c.Fast, c.Slow) + 1 }

func (c *crossover) Load(dataframe *core.Dataframe) {
	n := dataframe.Len()
	c.ups, c.downs = nan(n), nan(n)
	if !ValidateDataframe(dataframe, c.Warmup()) {
		c.fast, c.slow = nil, nil
		return
	}

	c.fast = Mask(talib.Ema(dataframe.Close, c.Fast), c.Fast-1)
	c.slow = Mask(talib.Ema(dataframe.Close, c.Slow), c.Slow-1)

	for i := 1; i < n; i++ {
		if !core.Valid(c.fast[i-1]) || !core.Valid(c.slow[i-1]) {
			continue
		}
		recent := core.Series[float64](c.fast[i-1 : i+1])
		ref := core.Series[float64](c.slow[i-1 : i+1])
		switch {
		case recent.Crossover(ref):
			c.ups[i] = dataframe.Low[i]
		case recent.Crossunder(ref):
			c.downs[i] = dataframe.High[i]
		}
	}
}

func (c *crossover) Draw(out *script.Output) error {
	if err := out.Line(c.fast, draw.Style{Color: draw.Colors{c.ColorFast}, LineWidth: 1}); err != nil {
		return err
	}
	if err := out.Line(c.slow, draw.Style{Color: draw.Colors{c.ColorSlow}, LineWidth: 1}); err != nil {
		return err
	}
	if err := out.Shape(c.ups, draw.Style{Icon: draw.IconTriangleUp, Color: draw.Colors{ColorUp}, Size: 5}); err != nil {
		return err
	}
	if err := out.Shape(c.downs, draw.Style{Icon: draw.IconTriangleDown, Color: draw.Colors{ColorDown}, Size: 5}); err != nil {
		return err
	}

	out.Tools("Fast", c.fast, tooltip.ToolStyle{Color: c.ColorFast})
	out.Tools("Slow", c.slow, tooltip.ToolStyle{Color: c.ColorSlow})

	last := len(c.ups) - 1
	out.Signal(c.ups, "cross up")
	out.Signal(c.downs, "cross down")
	out.OrderOpen(core.Valid(core.At(c.ups, last)), event.Order{Type: event.SideBuy, Num: c.Size})
	out.OrderOpen(core.Valid(core.At(c.downs, last)), event.Order{Type: event.SideSell, Num: c.Size})
	return nil
}
