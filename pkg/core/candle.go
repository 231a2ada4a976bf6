package core

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Candle represents a bar with OHLCV data
type Candle struct {
	Time   time.Time
	Open   float64
	Close  float64
	Low    float64
	High   float64
	Volume float64
}

// OHLC returns the price quad of the candle
func (c Candle) OHLC() OHLC {
	return OHLC{Open: c.Open, High: c.High, Low: c.Low, Close: c.Close}
}

// ToSlice converts a candle to a string slice for serialization
// with the specified decimal precision
func (c Candle) ToSlice(precision int) []string {
	return []string{
		fmt.Sprintf("%d", c.Time.Unix()),
		strconv.FormatFloat(c.Open, 'f', precision, 64),
		strconv.FormatFloat(c.Close, 'f', precision, 64),
		strconv.FormatFloat(c.Low, 'f', precision, 64),
		strconv.FormatFloat(c.High, 'f', precision, 64),
		strconv.FormatFloat(c.Volume, 'f', precision, 64),
	}
}

// OHLC is the price quad drawn by candlestick primitives
type OHLC struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// EmptyOHLC is the invalid quad used for gaps in candle series
var EmptyOHLC = OHLC{Open: math.NaN(), High: math.NaN(), Low: math.NaN(), Close: math.NaN()}

// IsValid reports whether every field of the quad is drawable
func (o OHLC) IsValid() bool {
	if o == (OHLC{}) {
		return false
	}
	return Valid(o.Open) && Valid(o.High) && Valid(o.Low) && Valid(o.Close)
}

// Body returns the absolute open/close distance
func (o OHLC) Body() float64 {
	return math.Abs(o.Close - o.Open)
}

// Bullish reports whether the bar closed at or above its open
func (o OHLC) Bullish() bool {
	return o.Close >= o.Open
}

// Field returns the named price field (open, high, low, close)
func (o OHLC) Field(name string) (float64, bool) {
	switch name {
	case "open":
		return o.Open, true
	case "high":
		return o.High, true
	case "low":
		return o.Low, true
	case "close":
		return o.Close, true
	}
	return 0, false
}
