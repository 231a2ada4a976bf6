package overlay

import (
	"math"
	"testing"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/profile"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodies(values ...float64) []core.OHLC {
	bars := make([]core.OHLC, len(values))
	for i, v := range values {
		bars[i] = core.OHLC{Open: 10, Close: 10 + v, Low: 9, High: 11 + v}
	}
	return bars
}

func TestWRB(t *testing.T) {
	tt := []struct {
		name   string
		bars   []core.OHLC
		expect []int
	}{
		{"single wide body", bodies(2, 2, 2, 2, 20), []int{4}},
		{"flat", bodies(2, 2, 2, 2, 2), nil},
		{"short", bodies(2, 20), nil},
		{"at threshold", bodies(2, 2, 2, 3), nil},
		{"gap in window", append(append(bodies(2, 2), core.EmptyOHLC), bodies(20)...), nil},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, WRB(tc.bars, 0, 0))
		})
	}
}

func identity(v float64) float64 { return v }

func TestHighlight(t *testing.T) {
	o, err := Default().New(NameHighlight, "#ff0000",
		Anchor{Index: 4, Value: 1}, Anchor{Index: 2, Value: 1})
	require.NoError(t, err)

	figures := o.Figures(identity, identity, 10, 0, 100)
	require.Len(t, figures, 1)
	assert.Equal(t, FigureRect, figures[0].Kind)
	assert.Equal(t, "#ff0000", figures[0].Color)
	assert.Equal(t, []Point{{X: -3, Y: 0}, {X: 9, Y: 100}}, figures[0].Points)
}

func TestHighlight_NoAnchors(t *testing.T) {
	o, err := Default().New(NameHighlight, nil, Anchor{Index: -1, Value: 1}, Anchor{Index: 1, Value: math.NaN()})
	require.NoError(t, err)
	assert.Empty(t, o.Figures(identity, identity, 10, 0, 100))
}

func TestTemplates_Unknown(t *testing.T) {
	_, err := Default().New("fib", nil)
	require.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestProfileSidebar(t *testing.T) {
	p := profile.Profile{
		Bins: []profile.Bin{
			{Low: 0, High: 1, Volume: 10},
			{Low: 1, High: 2, Volume: 40, InValueArea: true},
			{Low: 2, High: 3, Volume: 0},
		},
		PocIndex: 1, POC: 1.5, VAL: 1, VAH: 2, Total: 50,
	}

	o := Overlay{Template: ProfileSidebar{Width: 40}, Anchors: []Anchor{{Index: 0, Value: 0}}, Payload: p}
	figures := o.Figures(func(float64) float64 { return 100 }, func(v float64) float64 { return 100 - v*10 }, 5, 0, 100)

	// two non-empty bins plus POC, VAH and VAL
	require.Len(t, figures, 5)
	assert.Equal(t, []Point{{X: 100, Y: 90}, {X: 110, Y: 100}}, figures[0].Points)
	assert.Equal(t, DefaultSidebarColors.ValueArea, figures[1].Color)
	assert.Equal(t, []Point{{X: 100, Y: 85}, {X: 140, Y: 85}}, figures[2].Points)
	assert.Equal(t, DefaultSidebarColors.POC, figures[2].Color)
	assert.NotEmpty(t, figures[3].Dash)
}

func TestProfileSidebar_WrongPayload(t *testing.T) {
	o := Overlay{Template: ProfileSidebar{}, Anchors: []Anchor{{Index: 0, Value: 0}}, Payload: "nope"}
	assert.Empty(t, o.Figures(identity, identity, 5, 0, 100))
}

func TestRender(t *testing.T) {
	rec := surface.NewRecorder()
	Render(rec, []Figure{
		{Kind: FigureRect, Points: []Point{{X: 10, Y: 10}, {X: 0, Y: 0}}, Color: "#fff"},
		{Kind: FigureRect, Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, Stroke: true},
		{Kind: FigureLine, Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9, Y: 1}}},
		{Kind: FigureLine},
	})

	assert.Equal(t, 3, rec.Count("Save"))
	assert.Equal(t, 0, rec.Depth())
	require.Len(t, rec.Filter("FillRect"), 1)
	assert.Equal(t, []float64{0, 0, 10, 10}, rec.Filter("FillRect")[0].Args)
	assert.Equal(t, 1, rec.Count("StrokeRect"))
	assert.Equal(t, 2, rec.Count("LineTo"))
}
