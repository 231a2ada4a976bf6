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

// RSI levels
const (
	Overbought = 70.0
	Oversold   = 30.0
)

// RSI creates a new Relative Strength Index indicator drawn on its own pane
// with the overbought and oversold levels
func RSI(period int, color string) plot.Indicator {
	return &rsi{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type rsi struct {
	BaseIndicator
	Values []float64
}

func (r rsi) Warmup() int { return r.Period + 1 }

func (r rsi) Name() string { return fmt.Sprintf("RSI(%d)", r.Period) }

func (r rsi) Overlay() bool { return false }

func (r *rsi) Load(dataframe *core.Dataframe) {
	if !ValidateDataframe(dataframe, r.Warmup()) {
		r.Values = nil
		return
	}
	r.Values = Mask(talib.Rsi(dataframe.Close, r.Period), r.Period)
}

func (r *rsi) Draw(out *script.Output) error {
	level := draw.Style{Color: draw.Colors{ColorNeutral}, Dash: []float64{4, 4}, LineWidth: 1}
	for _, y := range []float64{Overbought, Oversold} {
		if err := out.HLine(draw.Num(y), level); err != nil {
			return err
		}
	}

	if err := out.Line(r.Values, r.Style()); err != nil {
		return err
	}
	out.Tools("RSI", r.Values, tooltip.ToolStyle{Source: tooltip.PrecisionExplicit, Precision: 2, Color: r.Color})
	return nil
}
