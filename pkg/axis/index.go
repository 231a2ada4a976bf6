package axis

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
)

// Index is a linear X axis laying the visible bars side by side
type Index struct {
	left    float64
	width   float64
	visible core.Range
}

var _ X = (*Index)(nil)

// NewIndex creates an axis spreading visible over [left, left+width)
func NewIndex(left, width float64, visible core.Range) *Index {
	return &Index{left: left, width: width, visible: visible}
}

// SetVisible changes the scrolled range
func (a *Index) SetVisible(visible core.Range) { a.visible = visible }

// Visible returns the scrolled range
func (a *Index) Visible() core.Range { return a.visible }

func (a *Index) BarWidth() float64 {
	n := a.visible.Len()
	if n == 0 {
		return a.width
	}
	return a.width / float64(n)
}

// IndexToPixel returns the pixel center of the bar
func (a *Index) IndexToPixel(index float64) float64 {
	return a.left + (index-float64(a.visible.From)+0.5)*a.BarWidth()
}

func (a *Index) PixelToIndex(px float64) float64 {
	return math.Floor((px-a.left)/a.BarWidth()) + float64(a.visible.From)
}
