package indicator

import (
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/overlay"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
)

// WideRangeBars highlights bars whose body exceeds the average body of the
// previous bars and signals when the last bar is one
func WideRangeBars(color string) plot.Indicator {
	return &wideRangeBars{
		BaseIndicator: BaseIndicator{Period: overlay.DefaultWRBLookback, Color: color},
		Factor:        overlay.DefaultWRBFactor,
	}
}

type wideRangeBars struct {
	BaseIndicator
	Factor float64

	zones [][]draw.Zone
	flags []float64
}

func (w wideRangeBars) Name() string { return "WRB" }

func (w wideRangeBars) Overlay() bool { return true }

func (w wideRangeBars) Warmup() int { return w.Period + 1 }

func (w *wideRangeBars) Load(dataframe *core.Dataframe) {
	n := dataframe.Len()
	bars := make([]core.OHLC, n)
	for i := range bars {
		bars[i] = dataframe.Bar(i)
	}

	w.zones = make([][]draw.Zone, n)
	w.flags = nan(n)
	for _, i := range overlay.WRB(bars, w.Period, w.Factor) {
		w.zones[i] = []draw.Zone{{From: i, To: i, Top: bars[i].High, Bottom: bars[i].Low}}
		w.flags[i] = bars[i].Body()
	}
}

func (w *wideRangeBars) Draw(out *script.Output) error {
	if err := out.Rect(w.zones, draw.Style{Color: draw.Colors{w.Color}, Alpha: 0.3}); err != nil {
		return err
	}
	out.Signal(w.flags, map[string]any{"type": "wrb", "body": core.At(w.flags, len(w.flags)-1)})
	return nil
}
