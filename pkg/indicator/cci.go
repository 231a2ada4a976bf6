package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// CCIBand is the distance of the CCI reference levels from zero
const CCIBand = 100.0

// CCI creates a new Commodity Channel Index indicator
// period: the number of periods to use for calculations
// color: the color to use for the indicator line
func CCI(period int, color string) plot.Indicator {
	return &cci{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type cci struct {
	BaseIndicator
	Values []float64
}

func (c cci) Warmup() int { return c.Period }

func (c cci) Name() string { return fmt.Sprintf("CCI(%d)", c.Period) }

func (c cci) Overlay() bool { return false }

func (c *cci) Load(dataframe *core.Dataframe) {
	if !ValidateDataframe(dataframe, c.Period) {
		c.Values = nil
		return
	}
	c.Values = Mask(talib.Cci(dataframe.High, dataframe.Low, dataframe.Close, c.Period), c.Period-1)
}

// Draw fills the band between the reference levels and plots the index,
// green above zero and red below
func (c *cci) Draw(out *script.Output) error {
	n := len(c.Values)
	upper, lower := make([]float64, n), make([]float64, n)
	for i := range upper {
		upper[i], lower[i] = CCIBand, -CCIBand
	}
	band := draw.Style{Color: draw.Colors{"rgba(120, 123, 134, 0.12)"}}
	if err := out.Area([]draw.Band{{Upper: upper, Lower: lower}}, band); err != nil {
		return err
	}

	line := draw.StyleFunc(func(e draw.Element) draw.Style {
		color := ColorUp
		if e.Value < 0 {
			color = ColorDown
		}
		return draw.Style{Color: draw.Colors{color}, LineWidth: 1}
	})
	if err := out.Line(c.Values, line); err != nil {
		return err
	}

	out.Tools("CCI", c.Values, tooltip.ToolStyle{Source: tooltip.PrecisionExplicit, Precision: 2, Color: c.Color})
	return nil
}
