package axis

import (
	"math"
	"strconv"

	"github.com/samber/lo"
)

const defaultTickSpacing = 40.0

// Value is a linear Y axis with top at max and bottom at min
type Value struct {
	top       float64
	height    float64
	min, max  float64
	precision int

	ticks      []Tick
	labelWidth float64
}

var _ Y = (*Value)(nil)

// NewValue creates an axis covering [top, top+height) with the given bounds
func NewValue(top, height, min, max float64, precision int) *Value {
	v := &Value{top: top, height: height, precision: precision}
	v.SetRange(min, max)
	return v
}

func (a *Value) Range() (float64, float64) { return a.min, a.max }

// Resize moves the axis to cover [top, top+height)
func (a *Value) Resize(top, height float64) {
	a.top, a.height = top, height
}

// Precision returns the number of decimals of tick labels
func (a *Value) Precision() int { return a.precision }

// SetRange sets the bounds; a degenerate range is widened around its value
func (a *Value) SetRange(min, max float64) {
	if min > max {
		min, max = max, min
	}
	if min == max {
		pad := math.Abs(min) * 0.005
		if pad == 0 {
			pad = 1
		}
		min, max = min-pad, max+pad
	}
	a.min, a.max = min, max
}

func (a *Value) ValueToPixel(value float64) float64 {
	return a.top + (a.max/2-value/2)/a.halfSpan()*a.height
}

func (a *Value) PixelToValue(px float64) float64 {
	return a.max - 2*((px-a.top)/a.height*a.halfSpan())
}

// halfSpan is half of max-min, finite for any pair of finite bounds
func (a *Value) halfSpan() float64 { return a.max/2 - a.min/2 }

// Ticks returns the ticks of the last rebuild
func (a *Value) Ticks() []Tick { return a.ticks }

// LabelWidth returns the widest tick label of the last rebuild
func (a *Value) LabelWidth() float64 { return a.labelWidth }

// Rebuild regenerates ticks for the current range and re-measures the
// tick label width
func (a *Value) Rebuild(measure func(text string) float64) {
	count := math.Max(2, math.Floor(a.height/defaultTickSpacing))
	step := niceStep(a.halfSpan() / count * 2)
	limit := int(count)*2 + 2

	a.ticks = a.ticks[:0]
	for v := math.Ceil(a.min/step) * step; v <= a.max && len(a.ticks) < limit; v += step {
		a.ticks = append(a.ticks, Tick{
			Value: v,
			Pixel: a.ValueToPixel(v),
			Label: strconv.FormatFloat(v, 'f', a.precision, 64),
		})
		// step below the float spacing at v
		if v+step == v {
			break
		}
	}

	a.labelWidth = 0
	if measure != nil && len(a.ticks) > 0 {
		a.labelWidth = lo.Max(lo.Map(a.ticks, func(t Tick, _ int) float64 {
			return measure(t.Label)
		}))
	}
}

// niceStep rounds raw up to 1, 2, 5 or 10 times a power of ten
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	switch f := raw / base; {
	case f <= 1:
		return base
	case f <= 2:
		return 2 * base
	case f <= 5:
		return 5 * base
	}
	return 10 * base
}
