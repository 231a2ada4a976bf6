// Package indicator provides ready-made scripts computing technical
// indicators with talib and drawing them through the script output.
package indicator

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
)

// Default colors
const (
	ColorUp      = "#26a69a"
	ColorDown    = "#ef5350"
	ColorNeutral = "#787b86"
)

// BaseIndicator provides common functionality for all indicators
type BaseIndicator struct {
	Period int
	Color  string
}

// Style returns a solid style in the indicator color
func (b BaseIndicator) Style() draw.Style {
	return draw.Style{Color: draw.Colors{b.Color}, LineWidth: 1}
}

// ValidateDataframe checks if the dataframe has enough data points for the indicator period
func ValidateDataframe(dataframe *core.Dataframe, period int) bool {
	return dataframe.Len() >= period && period > 0
}

// Mask invalidates the first lookback values, which talib leaves at zero
func Mask(values []float64, lookback int) []float64 {
	for i := 0; i < min(lookback, len(values)); i++ {
		values[i] = math.NaN()
	}
	return values
}

// nan returns n invalid values
func nan(n int) []float64 {
	return Mask(make([]float64, n), n)
}
