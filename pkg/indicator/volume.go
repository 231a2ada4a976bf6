package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// Volume draws volume bars colored by bar direction, with a moving average
// of the volume over period bars
func Volume(period int, up, down string) plot.Indicator {
	return &volume{
		BaseIndicator: BaseIndicator{Period: period, Color: ColorNeutral},
		up:            up,
		down:          down,
	}
}

type volume struct {
	BaseIndicator
	up, down string
	average  []float64
}

func (v volume) Name() string { return "Volume" }

func (v volume) Overlay() bool { return false }

func (v volume) Warmup() int { return v.Period }

func (v *volume) Load(dataframe *core.Dataframe) {
	if !ValidateDataframe(dataframe, v.Period) {
		v.average = nil
		return
	}
	v.average = Mask(talib.Sma(dataframe.Volume, v.Period), v.Period-1)
}

func (v *volume) Draw(out *script.Output) error {
	df := out.Data()
	bars := draw.StyleFunc(func(e draw.Element) draw.Style {
		color := v.up
		if !df.Bar(e.Index).Bullish() {
			color = v.down
		}
		return draw.Style{Color: draw.Colors{color}, Alpha: 0.5}
	})

	if err := out.Bar(df.Volume, 0, bars); err != nil {
		return err
	}
	if err := out.Line(v.average, v.Style()); err != nil {
		return err
	}

	out.Tools("Volume", df.Volume, tooltip.ToolStyle{Source: tooltip.PrecisionVolume})
	return nil
}
