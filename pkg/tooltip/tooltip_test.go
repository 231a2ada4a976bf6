package tooltip

import (
	"math"
	"testing"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Rows(t *testing.T) {
	df := core.NewDataframe("ETHUSDT")
	df.PricePrecision = 3
	df.VolumePrecision = 0

	reg := NewRegistry()
	reg.Tools("rsi", []float64{30.123, math.NaN(), 70.5}, Explicit(1))
	reg.Tools("ema", 1234.56789, ToolStyle{Color: "#ff0"})
	reg.Tools("vol", []float64{1500.7, 2000.2, 3000}, ToolStyle{Source: PrecisionVolume})
	reg.Tools("trend", "up", ToolStyle{})
	reg.Tools("broken", struct{}{}, ToolStyle{})

	rows := reg.Rows(1, df)
	require.Len(t, rows, 5)
	assert.Equal(t, []Row{
		{Label: "rsi", Value: Placeholder},
		{Label: "ema", Value: "1234.568", Color: "#ff0"},
		{Label: "vol", Value: "2000"},
		{Label: "trend", Value: "up"},
		{Label: "broken", Value: Placeholder},
	}, rows)

	assert.Equal(t, "30.1", reg.Rows(0, df)[0].Value)
	assert.Equal(t, Placeholder, reg.Rows(9, df)[0].Value)
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Tools("a", 1.0, Explicit(0))
	reg.Tools("b", 2.0, Explicit(0))
	reg.Tools("a", 3.0, Explicit(0))

	rows := reg.Rows(0, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Label)
	assert.Equal(t, "3", rows[0].Value)

	reg.Reset()
	assert.Zero(t, reg.Len())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.50", Format(1.5, 0, 2))
	assert.Equal(t, Placeholder, Format(math.Inf(1), 0, 2))
	assert.Equal(t, Placeholder, Format("", 0, 2))
	assert.Equal(t, "7", Format(7, 0, -3))
	assert.Equal(t, "b", Format([]string{"a", "b"}, 1, 0))
	assert.Equal(t, "4.0", Format(func(i int) float64 { return float64(i) * 2 }, 2, 1))
}
