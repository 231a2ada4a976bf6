package profile

import (
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	df := core.NewDataframe("TEST",
		core.Candle{Time: start, Low: 0, High: 10, Open: 1, Close: 9, Volume: 10},
		core.Candle{Time: start.Add(time.Hour), Low: 4, High: 5.5, Open: 5, Close: 5, Volume: 100},
		core.Candle{Time: start.Add(2 * time.Hour), Low: 9, High: 10, Open: 9, Close: 10, Volume: 5},
	)

	p, err := Calculate(df, core.Range{From: 0, To: 3}, 10)
	require.NoError(t, err)
	require.Len(t, p.Bins, 10)

	assert.InDelta(t, 115, p.Total, 1e-9)
	assert.Equal(t, 4, p.PocIndex)
	assert.InDelta(t, 4.5, p.POC, 1e-9)
	assert.InDelta(t, 4.0, p.VAL, 1e-9)
	assert.InDelta(t, 6.0, p.VAH, 1e-9)
	assert.True(t, p.Bins[4].InValueArea)
	assert.False(t, p.Bins[0].InValueArea)
	assert.InDelta(t, 51, p.MaxVolume(), 1e-9)
}

func TestCalculate_Empty(t *testing.T) {
	_, err := Calculate(core.NewDataframe("TEST"), core.Range{From: 0, To: 5}, 10)
	require.ErrorIs(t, err, core.ErrInsufficientData)
}
