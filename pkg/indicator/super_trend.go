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

// SuperTrend creates a new SuperTrend indicator drawn as dots under the bars
// in an up trend and over them in a down trend
// period: the number of periods to use for ATR calculation
// factor: the multiplier for the ATR
func SuperTrend(period int, factor float64) plot.Indicator {
	return &supertrend{
		BaseIndicator: BaseIndicator{Period: period},
		Factor:        factor,
	}
}

type supertrend struct {
	BaseIndicator
	Factor float64

	values []float64
	up     []bool
}

func (s supertrend) Warmup() int { return s.Period + 1 }

func (s supertrend) Name() string {
	return fmt.Sprintf("SuperTrend(%d,%.1f)", s.Period, s.Factor)
}

func (s supertrend) Overlay() bool { return true }

// bands returns the basic upper and lower bands around the bar median
func bands(high, low, atr, factor float64) (float64, float64) {
	median := (high + low) / 2.0
	return median + atr*factor, median - atr*factor
}

func (s *supertrend) Load(dataframe *core.Dataframe) {
	if !ValidateDataframe(dataframe, s.Warmup()) {
		s.values, s.up = nil, nil
		return
	}

	n := dataframe.Len()
	atr := talib.Atr(dataframe.High, dataframe.Low, dataframe.Close, s.Period)
	finalUpper, finalLower := make([]float64, n), make([]float64, n)
	s.values, s.up = nan(n), make([]bool, n)

	finalUpper[0], finalLower[0] = bands(dataframe.High[0], dataframe.Low[0], atr[0], s.Factor)
	for i := 1; i < n; i++ {
		upper, lower := bands(dataframe.High[i], dataframe.Low[i], atr[i], s.Factor)
		prevClose := dataframe.Close[i-1]

		finalUpper[i] = finalUpper[i-1]
		if upper < finalUpper[i-1] || prevClose > finalUpper[i-1] {
			finalUpper[i] = upper
		}
		finalLower[i] = finalLower[i-1]
		if lower > finalLower[i-1] || prevClose < finalLower[i-1] {
			finalLower[i] = lower
		}

		// the trend flips when the close breaks the band on the other side
		s.up[i] = s.up[i-1]
		if s.up[i] && dataframe.Close[i] < finalLower[i] {
			s.up[i] = false
		} else if !s.up[i] && dataframe.Close[i] > finalUpper[i] {
			s.up[i] = true
		}

		if i < s.Period {
			continue
		}
		s.values[i] = finalUpper[i]
		if s.up[i] {
			s.values[i] = finalLower[i]
		}
	}
}

func (s *supertrend) Draw(out *script.Output) error {
	dots := draw.StyleFunc(func(e draw.Element) draw.Style {
		color := ColorDown
		if e.Index < len(s.up) && s.up[e.Index] {
			color = ColorUp
		}
		return draw.Style{Icon: draw.IconCircle, Color: draw.Colors{color}, Size: 2}
	})
	if err := out.Shape(s.values, dots); err != nil {
		return err
	}
	out.Tools("SuperTrend", s.values, tooltip.ToolStyle{})
	return nil
}
