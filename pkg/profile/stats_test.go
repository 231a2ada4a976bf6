package profile

import (
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVWAP(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	df := core.NewDataframe("TEST",
		core.Candle{Time: start, Open: 10, High: 12, Low: 9, Close: 12, Volume: 1},
		core.Candle{Time: start.Add(time.Hour), Open: 20, High: 21, Low: 18, Close: 21, Volume: 3},
		core.Candle{Time: start.Add(2 * time.Hour), Open: 5, High: 6, Low: 4, Close: 5, Volume: 0},
	)

	vwap, err := VWAP(df, core.Range{From: 0, To: 3})
	require.NoError(t, err)
	assert.InDelta(t, (11.0+3*20.0)/4, vwap, 1e-9)

	_, err = VWAP(df, core.Range{From: 2, To: 3})
	require.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestVWAPInterval(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	df := core.NewDataframe("TEST")
	for i := 0; i < 20; i++ {
		df.Append(core.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: 10, High: 11, Low: 9, Close: 10, Volume: 5})
	}

	interval, err := VWAPInterval(df, core.Range{From: 0, To: 20}, 50, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 10, interval.Mean, 1e-9)
	assert.InDelta(t, 10, interval.Lower, 1e-9)
	assert.InDelta(t, 10, interval.Upper, 1e-9)
	assert.InDelta(t, 0, interval.StdDev, 1e-9)
}

func TestBootstrap(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	mean := func(v []float64) float64 {
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		return sum / float64(len(v))
	}

	interval := Bootstrap(values, mean, 200, 0.9)
	assert.GreaterOrEqual(t, interval.Lower, 1.0)
	assert.LessOrEqual(t, interval.Upper, 5.0)
	assert.LessOrEqual(t, interval.Lower, interval.Mean)
	assert.GreaterOrEqual(t, interval.Upper, interval.Mean)

	assert.Equal(t, Interval{}, Bootstrap([]float64{}, mean, 10, 0.9))
}
