package axis

import (
	"math"
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	x := NewIndex(0, 100, core.Range{From: 10, To: 20})
	require.Equal(t, 10.0, x.BarWidth())

	assert.Equal(t, 5.0, x.IndexToPixel(10))
	assert.Equal(t, 95.0, x.IndexToPixel(19))
	assert.Equal(t, 12.0, x.PixelToIndex(25))

	x.SetVisible(core.Range{From: 0, To: 4})
	assert.Equal(t, 25.0, x.BarWidth())
}

func TestValue(t *testing.T) {
	y := NewValue(0, 100, 0, 50, 0)
	assert.Equal(t, 0.0, y.ValueToPixel(50))
	assert.Equal(t, 100.0, y.ValueToPixel(0))
	assert.Equal(t, 25.0, y.PixelToValue(50))

	y.SetRange(10, 10)
	min, max := y.Range()
	assert.Less(t, min, 10.0)
	assert.Greater(t, max, 10.0)
}

func TestValue_Rebuild(t *testing.T) {
	y := NewValue(0, 200, 0, 100, 1)
	y.Rebuild(func(text string) float64 { return float64(len(text)) * 6 })

	ticks := y.Ticks()
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "100.0", ticks[len(ticks)-1].Label)
	assert.Equal(t, 30.0, y.LabelWidth())
}

func TestValue_RebuildExtremeRanges(t *testing.T) {
	for _, bounds := range [][2]float64{
		{1e16, 1e16 + 4},
		{-1e308, 1e308},
		{-math.MaxFloat64, math.MaxFloat64},
	} {
		y := NewValue(0, 200, bounds[0], bounds[1], 2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			y.Rebuild(func(text string) float64 { return float64(len(text)) })
		}()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatalf("rebuild of %v did not return", bounds)
		}

		assert.NotEmpty(t, y.Ticks(), "%v", bounds)
		assert.LessOrEqual(t, len(y.Ticks()), 12, "%v", bounds)
		for _, tick := range y.Ticks() {
			assert.False(t, math.IsNaN(tick.Pixel) || math.IsInf(tick.Pixel, 0), "%v", bounds)
		}
	}

	y := NewValue(0, 100, -1e308, 1e308, 0)
	assert.Equal(t, 50.0, y.ValueToPixel(0))
	assert.Equal(t, 0.0, y.PixelToValue(50))
}

func TestNiceStep(t *testing.T) {
	assert.Equal(t, 1.0, niceStep(0.8))
	assert.Equal(t, 20.0, niceStep(17))
	assert.Equal(t, 50.0, niceStep(31))
	assert.Equal(t, 100.0, niceStep(75))
	assert.Equal(t, 1.0, niceStep(0))
}

func TestValue_Resize(t *testing.T) {
	y := NewValue(0, 100, 0, 10, 0)
	y.Resize(50, 200)
	assert.Equal(t, 50.0, y.ValueToPixel(10))
	assert.Equal(t, 250.0, y.ValueToPixel(0))
}
