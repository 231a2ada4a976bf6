package draw

import (
	"testing"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_X(t *testing.T) {
	d, _ := newTestDrawer(10, core.Range{From: 0, To: 10})
	d.ctx.Box = Box{X: 10, Y: 20, W: 100, H: 50}
	r := d.Resolver()

	tests := []struct {
		pos   Pos
		space Space
		want  float64
	}{
		{Num(2), DataSpace, 25},
		{Num(15), ScreenSpace, 25},
		{Num(-15), ScreenSpace, 95},
		{Tok("left"), ScreenSpace, 10},
		{Tok("right"), ScreenSpace, 110},
		{Tok("center"), ScreenSpace, 60},
		{Tok("30px"), ScreenSpace, 40},
		{Tok("25%"), ScreenSpace, 35},
		{Tok("-10%"), ScreenSpace, 100},
		{Tok("index:3"), ScreenSpace, 35},
		{Tok("index:end"), ScreenSpace, 95},
		{Tok("index:99"), ScreenSpace, 95},
		{Tok("top"), ScreenSpace, 10},
		{Tok("nonsense"), DataSpace, 10},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, r.X(tt.pos, tt.space), 1e-9)
		})
	}
}

func TestResolver_Y(t *testing.T) {
	d, _ := newTestDrawer(10, core.Range{From: 0, To: 5})
	d.ctx.Box = Box{X: 10, Y: 20, W: 100, H: 50}
	r := d.Resolver()

	tests := []struct {
		pos   Pos
		space Space
		want  float64
	}{
		{Num(25), DataSpace, 75},
		{Num(5), ScreenSpace, 25},
		{Num(-5), ScreenSpace, 65},
		{Tok("top"), ScreenSpace, 20},
		{Tok("bottom"), ScreenSpace, 70},
		{Tok("center"), ScreenSpace, 45},
		{Tok("10%"), ScreenSpace, 25},
		// last visible bar is index 4 with close 5 and high 6
		{Tok("close"), ScreenSpace, 95},
		{Tok("HIGH"), ScreenSpace, 94},
		{Tok("index:end"), ScreenSpace, 20},
		{Tok("??"), ScreenSpace, 20},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, r.Y(tt.pos, tt.space), 1e-9)
		})
	}
}

func TestResolver_Index(t *testing.T) {
	d, _ := newTestDrawer(4, core.Range{From: 0, To: 4})
	r := d.Resolver()

	i, err := r.Index(Tok("index:end"))
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	i, err = r.Index(Tok("index:-4"))
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = r.Index(Tok("index:abc"))
	require.ErrorIs(t, err, core.ErrInvalidPosition)

	empty, _ := newTestDrawer(0, core.Range{})
	_, err = empty.Resolver().Index(Tok("index:end"))
	require.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestParsePos(t *testing.T) {
	v, ok := ParsePos(" 12.5 ").Number()
	require.True(t, ok)
	assert.Equal(t, 12.5, v)

	p := ParsePos("Top")
	_, ok = p.Number()
	assert.False(t, ok)
	assert.Equal(t, "top", p.Token())
}
