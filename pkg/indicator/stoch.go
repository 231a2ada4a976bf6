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

// Stochastic levels
const (
	StochHigh = 80.0
	StochLow  = 20.0
)

// Stoch creates a new Stochastic Oscillator indicator
// fastK: the fast %K period
// slowK: the slow %K period
// slowD: the slow %D period
// colorK: color for the %K line
// colorD: color for the %D line
func Stoch(fastK, slowK, slowD int, colorK, colorD string) plot.Indicator {
	return &stoch{
		FastK:  fastK,
		SlowK:  slowK,
		SlowD:  slowD,
		ColorK: colorK,
		ColorD: colorD,
	}
}

type stoch struct {
	FastK   int
	SlowK   int
	SlowD   int
	ColorK  string
	ColorD  string
	ValuesK []float64
	ValuesD []float64
}

// Warmup returns the number of candles needed to calculate the indicator
func (s stoch) Warmup() int {
	return s.FastK + s.SlowK + s.SlowD - 2
}

// Name returns the formatted name of the indicator
func (s stoch) Name() string {
	return fmt.Sprintf("STOCH(%d, %d, %d)", s.FastK, s.SlowK, s.SlowD)
}

// Overlay returns true if the indicator should be drawn on the price chart
func (s stoch) Overlay() bool {
	return false
}

// Load calculates the indicator values from the provided dataframe
func (s *stoch) Load(dataframe *core.Dataframe) {
	warmup := s.Warmup()
	if !ValidateDataframe(dataframe, warmup) {
		s.ValuesK, s.ValuesD = nil, nil
		return
	}

	k, d := talib.Stoch(
		dataframe.High, dataframe.Low, dataframe.Close, s.FastK, s.SlowK, talib.SMA, s.SlowD, talib.SMA,
	)
	s.ValuesK = Mask(k, warmup-1)
	s.ValuesD = Mask(d, warmup-1)
}

func (s *stoch) Draw(out *script.Output) error {
	level := draw.Style{Color: draw.Colors{ColorNeutral}, Dash: []float64{4, 4}, LineWidth: 1}
	for _, y := range []float64{StochHigh, StochLow} {
		if err := out.HLine(draw.Num(y), level); err != nil {
			return err
		}
	}

	if err := out.Line(s.ValuesK, draw.Style{Color: draw.Colors{s.ColorK}, LineWidth: 1}); err != nil {
		return err
	}
	if err := out.Line(s.ValuesD, draw.Style{Color: draw.Colors{s.ColorD}, LineWidth: 1}); err != nil {
		return err
	}

	out.Tools("K", s.ValuesK, tooltip.ToolStyle{Source: tooltip.PrecisionExplicit, Precision: 2, Color: s.ColorK})
	out.Tools("D", s.ValuesD, tooltip.ToolStyle{Source: tooltip.PrecisionExplicit, Precision: 2, Color: s.ColorD})
	return nil
}
