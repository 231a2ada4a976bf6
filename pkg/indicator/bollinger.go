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

// Bollinger draws Bollinger Bands: a shaded area between the bands and the
// middle average
func Bollinger(period int, deviation float64, color string) plot.Indicator {
	return &bollinger{
		BaseIndicator: BaseIndicator{Period: period, Color: color},
		Deviation:     deviation,
	}
}

type bollinger struct {
	BaseIndicator
	Deviation float64

	upper, middle, lower []float64
}

func (b bollinger) Name() string { return fmt.Sprintf("BB(%d, %.1f)", b.Period, b.Deviation) }

func (b bollinger) Overlay() bool { return true }

func (b bollinger) Warmup() int { return b.Period }

func (b *bollinger) Load(dataframe *core.Dataframe) {
	if !ValidateDataframe(dataframe, b.Period) {
		b.upper, b.middle, b.lower = nil, nil, nil
		return
	}
	upper, middle, lower := talib.BBands(dataframe.Close, b.Period, b.Deviation, b.Deviation, talib.SMA)
	b.upper = Mask(upper, b.Period-1)
	b.middle = Mask(middle, b.Period-1)
	b.lower = Mask(lower, b.Period-1)
}

func (b *bollinger) Draw(out *script.Output) error {
	band := []draw.Band{{Upper: b.upper, Lower: b.lower}}
	if err := out.Area(band, draw.Style{Color: draw.Colors{b.Color}, Alpha: 0.1}); err != nil {
		return err
	}
	for _, values := range [][]float64{b.upper, b.middle, b.lower} {
		if err := out.Line(values, b.Style()); err != nil {
			return err
		}
	}

	style := tooltip.ToolStyle{Color: b.Color}
	out.Tools("Upper", b.upper, style)
	out.Tools("Basis", b.middle, style)
	out.Tools("Lower", b.lower, style)
	return nil
}
