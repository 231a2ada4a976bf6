package core

import (
	"time"
)

// Dataframe is the aligned OHLCV container handed to every draw call.
// Indicator value arrays are aligned 1:1 with its index.
type Dataframe struct {
	Symbol string

	Close  Series[float64]
	Open   Series[float64]
	High   Series[float64]
	Low    Series[float64]
	Volume Series[float64]

	Time       []time.Time
	LastUpdate time.Time

	// Instrument display precision
	PricePrecision  int
	VolumePrecision int
}

// NewDataframe builds a dataframe from candles
func NewDataframe(symbol string, candles ...Candle) *Dataframe {
	df := &Dataframe{Symbol: symbol, PricePrecision: 2}
	for _, c := range candles {
		df.Append(c)
	}
	return df
}

// Append adds a completed candle to the end of the dataframe
func (df *Dataframe) Append(c Candle) {
	df.Open = append(df.Open, c.Open)
	df.High = append(df.High, c.High)
	df.Low = append(df.Low, c.Low)
	df.Close = append(df.Close, c.Close)
	df.Volume = append(df.Volume, c.Volume)
	df.Time = append(df.Time, c.Time)
	df.LastUpdate = c.Time
}

// Len returns the number of bars
func (df *Dataframe) Len() int {
	if df == nil {
		return 0
	}
	return len(df.Close)
}

// LastIndex returns the index of the last bar, -1 when empty
func (df *Dataframe) LastIndex() int {
	return df.Len() - 1
}

// Bar returns the OHLC quad at index i, EmptyOHLC when out of bounds
func (df *Dataframe) Bar(i int) OHLC {
	if i < 0 || i >= df.Len() {
		return EmptyOHLC
	}
	return OHLC{Open: df.Open[i], High: df.High[i], Low: df.Low[i], Close: df.Close[i]}
}

// Candle returns the full candle at index i
func (df *Dataframe) Candle(i int) (Candle, bool) {
	if i < 0 || i >= df.Len() {
		return Candle{}, false
	}
	c := Candle{Open: df.Open[i], High: df.High[i], Low: df.Low[i], Close: df.Close[i]}
	if i < len(df.Volume) {
		c.Volume = df.Volume[i]
	}
	if i < len(df.Time) {
		c.Time = df.Time[i]
	}
	return c, true
}

// TimeAt returns the bar timestamp at i, zero time when unknown
func (df *Dataframe) TimeAt(i int) time.Time {
	if df == nil || i < 0 || i >= len(df.Time) {
		return time.Time{}
	}
	return df.Time[i]
}

// Sample returns a subset of the dataframe with the last 'positions' elements
func (df Dataframe) Sample(positions int) Dataframe {
	size := len(df.Time)
	start := size - positions

	// Return the entire dataframe if requested sample is larger than dataframe
	if start <= 0 {
		return df
	}

	return Dataframe{
		Symbol:          df.Symbol,
		Close:           df.Close.LastValues(positions),
		Open:            df.Open.LastValues(positions),
		High:            df.High.LastValues(positions),
		Low:             df.Low.LastValues(positions),
		Volume:          df.Volume.LastValues(positions),
		Time:            df.Time[start:],
		LastUpdate:      df.LastUpdate,
		PricePrecision:  df.PricePrecision,
		VolumePrecision: df.VolumePrecision,
	}
}
