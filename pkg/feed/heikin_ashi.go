package feed

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
)

// HeikinAshi transforms standard candles into Heikin-Ashi candles
// Formula:
// - HA_Close = (Open + High + Low + Close) / 4
// - HA_Open = (Previous HA_Open + Previous HA_Close) / 2
// - HA_High = Max(High, HA_Open, HA_Close)
// - HA_Low = Min(Low, HA_Open, HA_Close)
//
// The first candle opens at the midpoint of its own open and close.
func HeikinAshi(candles []core.Candle) []core.Candle {
	out := make([]core.Candle, len(candles))
	for i, c := range candles {
		prevOpen, prevClose := c.Open, c.Close
		if i > 0 {
			prevOpen, prevClose = out[i-1].Open, out[i-1].Close
		}

		ha := c
		ha.Open = (prevOpen + prevClose) / 2
		ha.Close = (c.Open + c.High + c.Low + c.Close) / 4
		ha.High = math.Max(c.High, math.Max(ha.Open, ha.Close))
		ha.Low = math.Min(c.Low, math.Min(ha.Open, ha.Close))
		out[i] = ha
	}
	return out
}
