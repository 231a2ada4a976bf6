package draw

import (
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// LabelValue is a text anchored at a value
type LabelValue struct {
	Value float64
	Text  string
}

// Label draws a text at each value, over an optional background box
func (d *Drawer) Label(labels []LabelValue, style Styler) error {
	vis := d.ctx.visible(len(labels))

	for i := vis.From; i < vis.To; i++ {
		l := labels[i]
		if l.Text == "" || !core.Valid(l.Value) {
			continue
		}
		d.ctx.observe(l.Value)

		prev := 0.0
		if i > 0 {
			prev = labels[i-1].Value
		}
		st, err := d.style("label", style, Element{Index: i, Value: l.Value, Prev: prev}, ModeFill)
		if err != nil {
			return err
		}
		if st.Hidden {
			continue
		}

		err = d.scope("label", func(s surface.Surface) {
			x, y := d.ctx.X.IndexToPixel(float64(i)), d.ctx.Y.ValueToPixel(l.Value)
			if finite(x, y) {
				text(s, st, l.Text, x, y)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// text draws a middle-aligned text at (x, y)
func text(s surface.Surface, st Style, content string, x, y float64) {
	s.SetFont(st.Font)
	s.SetTextAlign(st.TextAlign)
	s.SetTextBaseline("middle")
	if st.Alpha > 0 {
		s.SetGlobalAlpha(st.Alpha)
	}

	if len(st.Background) > 0 {
		width := s.MeasureText(content)
		height := st.FontSize()
		left := x
		switch st.TextAlign {
		case "center":
			left -= width / 2
		case "right", "end":
			left -= width
		}
		bx, by := left-st.Padding, y-height/2-st.Padding
		bw, bh := width+2*st.Padding, height+2*st.Padding

		s.SetFillStyle(st.Background.Linear(bx, by, bx, by+bh))
		s.FillRect(bx, by, bw, bh)
	}

	s.SetFillStyle(st.Color.Solid())
	s.FillText(content, x, y)
}
