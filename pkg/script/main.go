package script

import (
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
)

// MainOutput draws on the main pane. Main pane scripts draw immediately;
// other scripts forward the primitive to the main pane overlay.
type MainOutput struct {
	out *Output
}

func (m *MainOutput) submit(primitive string, fn DrawFunc) error {
	inst := m.out.inst
	if !inst.Role.IsSecondary() || inst.forwarder == nil {
		return m.out.report(primitive, fn(m.out.drawer))
	}
	return m.out.report(primitive, inst.forwarder.Forward(inst.ID, primitive, fn))
}

func (m *MainOutput) Line(values []float64, style draw.Styler) error {
	return m.submit("line", func(d *draw.Drawer) error { return d.Line(values, style) })
}

func (m *MainOutput) Bar(values []float64, base float64, style draw.Styler) error {
	return m.submit("bar", func(d *draw.Drawer) error { return d.Bar(values, base, style) })
}

func (m *MainOutput) Candle(bars []core.OHLC, style draw.Styler) error {
	return m.submit("candle", func(d *draw.Drawer) error { return d.Candle(bars, style) })
}

func (m *MainOutput) Rect(zones [][]draw.Zone, style draw.Styler) error {
	return m.submit("rect", func(d *draw.Drawer) error { return d.Rect(zones, style) })
}

func (m *MainOutput) Area(bands []draw.Band, style draw.Styler) error {
	return m.submit("area", func(d *draw.Drawer) error { return d.Area(bands, style) })
}

func (m *MainOutput) Shape(values []float64, style draw.Styler) error {
	return m.submit("shape", func(d *draw.Drawer) error { return d.Shape(values, style) })
}

func (m *MainOutput) Label(labels []draw.LabelValue, style draw.Styler) error {
	return m.submit("label", func(d *draw.Drawer) error { return d.Label(labels, style) })
}

func (m *MainOutput) HLine(y draw.Pos, style draw.Styler) error {
	return m.submit("hline", func(d *draw.Drawer) error { return d.HLine(y, style) })
}

func (m *MainOutput) VLine(x draw.Pos, style draw.Styler) error {
	return m.submit("vline", func(d *draw.Drawer) error { return d.VLine(x, style) })
}

func (m *MainOutput) SLine(points []draw.Point, style draw.Styler) error {
	return m.submit("sline", func(d *draw.Drawer) error { return d.SLine(points, style) })
}

func (m *MainOutput) SArea(points []draw.Point, style draw.Styler) error {
	return m.submit("sarea", func(d *draw.Drawer) error { return d.SArea(points, style) })
}

func (m *MainOutput) SRect(from, to draw.Point, style draw.Styler) error {
	return m.submit("srect", func(d *draw.Drawer) error { return d.SRect(from, to, style) })
}

func (m *MainOutput) SShape(at draw.Point, style draw.Styler) error {
	return m.submit("sshape", func(d *draw.Drawer) error { return d.SShape(at, style) })
}

func (m *MainOutput) SCircle(at draw.Point, style draw.Styler) error {
	return m.submit("scircle", func(d *draw.Drawer) error { return d.SCircle(at, style) })
}

func (m *MainOutput) SLabel(at draw.Point, text string, style draw.Styler) error {
	return m.submit("slabel", func(d *draw.Drawer) error { return d.SLabel(at, text, style) })
}
