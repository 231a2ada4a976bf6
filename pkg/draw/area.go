package draw

import (
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// Band is the region between two series aligned with the dataframe
type Band struct {
	Upper []float64
	Lower []float64
}

func (b Band) len() int { return min(len(b.Upper), len(b.Lower)) }

func (b Band) valid(i int) bool {
	return core.Valid(b.Upper[i]) && core.Valid(b.Lower[i])
}

// span returns the first and last valid index
func (b Band) span() (int, int, bool) {
	first, last := -1, -1
	for i := 0; i < b.len(); i++ {
		if b.valid(i) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

// Area fills every band. A static style fills each run of valid values as a
// single polygon; a style function is resolved per element and fills one
// quad per pair of neighbouring values.
func (d *Drawer) Area(bands []Band, style Styler) error {
	for _, band := range bands {
		first, last, ok := band.span()
		if !ok || !d.ctx.Visible.Intersects(first, last) {
			continue
		}

		var err error
		if dynamic(style) {
			err = d.areaSegments(band, style)
		} else {
			err = d.areaRuns(band, style)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Drawer) areaRuns(band Band, style Styler) error {
	vis := d.ctx.visible(band.len())

	for i := vis.From; i < vis.To; {
		if !band.valid(i) {
			i++
			continue
		}
		start := i
		for i < vis.To && band.valid(i) {
			d.ctx.observe(band.Upper[i], band.Lower[i])
			i++
		}
		if i-start < 2 {
			continue
		}

		st, err := d.style("area", style, Element{Index: start, Value: band.Upper[start], Prev: band.Lower[start]}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden {
			continue
		}
		if err := d.fillBand(band, start, i, st); err != nil {
			return err
		}
	}
	return nil
}

func (d *Drawer) areaSegments(band Band, style Styler) error {
	vis := d.ctx.visible(band.len())

	for i := vis.From; i < vis.To; i++ {
		if !band.valid(i) {
			continue
		}
		d.ctx.observe(band.Upper[i], band.Lower[i])

		st, err := d.style("area", style, Element{Index: i, Value: band.Upper[i], Prev: core.At(band.Upper, i-1)}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden || i == vis.From || !band.valid(i-1) {
			continue
		}
		if err := d.fillBand(band, i-1, i+1, st); err != nil {
			return err
		}
	}
	return nil
}

// fillBand fills the polygon of band over [from, to)
func (d *Drawer) fillBand(band Band, from, to int, st Style) error {
	return d.scope("area", func(s surface.Surface) {
		n := to - from
		xs, upper, lower := make([]float64, n), make([]float64, n), make([]float64, n)
		top, bottom := math.Inf(1), math.Inf(-1)

		for k := 0; k < n; k++ {
			xs[k] = d.ctx.X.IndexToPixel(float64(from + k))
			upper[k] = d.ctx.Y.ValueToPixel(band.Upper[from+k])
			lower[k] = d.ctx.Y.ValueToPixel(band.Lower[from+k])
			if !finite(xs[k], upper[k], lower[k]) {
				return
			}
			top = math.Min(top, math.Min(upper[k], lower[k]))
			bottom = math.Max(bottom, math.Max(upper[k], lower[k]))
		}

		apply(s, st, st.Color.Linear(xs[0], top, xs[0], bottom))
		s.BeginPath()
		s.MoveTo(xs[0], upper[0])
		for k := 1; k < n; k++ {
			s.LineTo(xs[k], upper[k])
		}
		for k := n - 1; k >= 0; k-- {
			s.LineTo(xs[k], lower[k])
		}
		s.ClosePath()
		if st.Mode == ModeStroke {
			s.Stroke()
			return
		}
		s.Fill()
	})
}
