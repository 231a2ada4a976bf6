package plot

import (
	"github.com/raykavin/chartscript/pkg/core"
)

// SetData replaces the chart data and reloads every indicator
func (c *Chart) SetData(df *core.Dataframe) {
	c.Lock()
	defer c.Unlock()

	c.dataframe = df
	c.reload()
}

// Dataframe returns the chart data
func (c *Chart) Dataframe() *core.Dataframe {
	c.Lock()
	defer c.Unlock()
	return c.dataframe
}

// OnCandle handles new candle events. Candles not newer than the last bar
// are ignored.
func (c *Chart) OnCandle(candle core.Candle) {
	c.Lock()
	defer c.Unlock()

	// Initialize dataframe if needed
	if c.dataframe == nil {
		c.dataframe = core.NewDataframe("")
	}

	df := c.dataframe
	if last := df.LastIndex(); last >= 0 && !candle.Time.After(df.Time[last]) {
		c.log.WithField("time", candle.Time).Trace("stale candle ignored")
		return
	}

	df.Append(candle)
	c.reload()
}

// bars returns the OHLC quads of the data
func bars(df *core.Dataframe) []core.OHLC {
	out := make([]core.OHLC, df.Len())
	for i := range out {
		out[i] = df.Bar(i)
	}
	return out
}
