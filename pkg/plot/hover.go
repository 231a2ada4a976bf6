package plot

import (
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// Hover returns the tooltip rows under the pixel column px
func (c *Chart) Hover(px float64) []TooltipRow {
	f := c.frame(nil)
	if f.data.Len() == 0 {
		return nil
	}

	index := int(f.x.PixelToIndex(px))
	index = max(0, min(index, f.data.LastIndex()))
	return c.tooltipRows(f, index)
}

// Tooltip returns the tooltip rows at bar index: the price bar followed by
// the tools of every script, pane by pane
func (c *Chart) Tooltip(index int) []TooltipRow {
	f := c.frame(nil)
	if index < 0 || index >= f.data.Len() {
		return nil
	}
	return c.tooltipRows(f, index)
}

func (c *Chart) tooltipRows(f *frame, index int) []TooltipRow {
	df := f.data
	price := tooltip.Explicit(df.PricePrecision)
	volume := tooltip.Explicit(df.VolumePrecision)

	rows := make([]TooltipRow, 0)
	for _, field := range []struct {
		label string
		data  []float64
		style tooltip.ToolStyle
	}{
		{"Open", df.Open, price},
		{"High", df.High, price},
		{"Low", df.Low, price},
		{"Close", df.Close, price},
		{"Volume", df.Volume, volume},
	} {
		rows = append(rows, TooltipRow{
			Pane: MainPaneID,
			Row: tooltip.Row{
				Label: field.label,
				Value: tooltip.Format(field.data, index, field.style.Precision),
			},
		})
	}

	for _, p := range f.panes {
		for _, inst := range f.scripts[p.ID] {
			for _, row := range inst.Tools().Rows(index, df) {
				rows = append(rows, TooltipRow{Pane: p.ID, Script: inst.Name, Row: row})
			}
		}
	}
	return rows
}
