package overlay

import (
	"github.com/raykavin/chartscript/pkg/core"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultWRBLookback = 3
	DefaultWRBFactor   = 1.5
)

// WRB returns the indices of wide range bodies: bars whose body exceeds the
// average body of the previous lookback bars times factor. Bars without a
// full lookback window or with an invalid quad are never reported.
func WRB(bars []core.OHLC, lookback int, factor float64) []int {
	if lookback <= 0 {
		lookback = DefaultWRBLookback
	}
	if factor <= 0 {
		factor = DefaultWRBFactor
	}

	bodies := make([]float64, len(bars))
	for i, b := range bars {
		bodies[i] = b.Body()
	}

	var out []int
	for i := lookback; i < len(bars); i++ {
		if !bars[i].IsValid() {
			continue
		}
		window := bodies[i-lookback : i]
		if !allValid(window) {
			continue
		}
		if bodies[i] > stat.Mean(window, nil)*factor {
			out = append(out, i)
		}
	}
	return out
}

func allValid(values []float64) bool {
	for _, v := range values {
		if !core.Valid(v) {
			return false
		}
	}
	return true
}
