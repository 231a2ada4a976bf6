package plot

import (
	"errors"
	"fmt"
	"math"

	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/overlay"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/surface"
)

// fitPadding is the share of the price range left free above and below
const fitPadding = 0.05

// frame is the state of one repaint, taken under the chart lock
type frame struct {
	surface  surface.Surface
	x        *axis.Index
	visible  core.Range
	data     *core.Dataframe
	panes    []*Pane
	scripts  map[string][]*script.Instance
	overlays []overlay.Overlay
}

func (c *Chart) frame(s surface.Surface) *frame {
	c.Lock()
	defer c.Unlock()

	if s != nil {
		c.surface = s
	}
	visible := c.visibleRange()
	scripts := make(map[string][]*script.Instance, len(c.panes))
	for _, p := range c.panes {
		scripts[p.ID] = p.Scripts()
	}
	return &frame{
		surface:  s,
		x:        axis.NewIndex(0, c.width-c.axisWidth, visible),
		visible:  visible,
		data:     c.dataframe,
		panes:    append([]*Pane(nil), c.panes...),
		scripts:  scripts,
		overlays: append([]overlay.Overlay(nil), c.overlays...),
	}
}

// Repaint draws every pane, runs every script, drains the work they
// deferred and draws the overlay layers on top. Script failures are logged
// and joined; they never stop the other scripts.
func (c *Chart) Repaint(s surface.Surface) error {
	f := c.frame(s)

	s.Save()
	s.SetFillStyle(surface.Color(c.theme.Background))
	s.FillRect(0, 0, c.width, c.height)
	s.Restore()

	var errs []error
	for _, p := range f.panes {
		errs = append(errs, c.paintPane(f, p)...)
	}

	// auto-range rebuilds run once every script finished
	c.loop.Drain()

	for _, p := range f.panes {
		if err := c.paintOverlay(f, p); err != nil {
			errs = append(errs, err)
		}
		c.paintAxis(f, p)
	}
	return errors.Join(errs...)
}

// RepaintOverlay redraws the overlay layer of pane only
func (c *Chart) RepaintOverlay(s surface.Surface, pane string) error {
	p, err := c.Pane(pane)
	if err != nil {
		return err
	}
	return c.paintOverlay(c.frame(s), p)
}

// Render repaints and runs the next frame. A repaint that moved a secondary
// axis is followed by a second one so the pane is drawn with its fitted
// range.
func (c *Chart) Render(s surface.Surface) error {
	before := c.ranges()
	err := c.Repaint(s)
	c.loop.Frame()

	after := c.ranges()
	for id, r := range after {
		if before[id] != r {
			c.log.WithField("pane", id).Trace("axis moved, repainting")
			err = c.Repaint(s)
			c.loop.Frame()
			break
		}
	}
	return err
}

func (c *Chart) ranges() map[string][2]float64 {
	c.Lock()
	defer c.Unlock()

	ranges := make(map[string][2]float64, len(c.panes))
	for _, p := range c.panes {
		if p.Role.IsSecondary() {
			lo, hi := p.Y.Range()
			ranges[p.ID] = [2]float64{lo, hi}
		}
	}
	return ranges
}

func (c *Chart) context(f *frame, p *Pane) *draw.Context {
	return &draw.Context{
		Surface: f.surface,
		X:       f.x,
		Y:       p.Y,
		Box:     p.Box,
		Visible: f.visible,
		Data:    f.data,
	}
}

func (c *Chart) paintPane(f *frame, p *Pane) []error {
	var errs []error
	s := f.surface

	if p.Role == core.RoleMain {
		c.fit(f, p)
	}
	c.paintGrid(f, p)

	if p.Role == core.RoleMain && f.data.Len() > 0 {
		ctx := c.context(f, p)
		ctx.State = &draw.State{Role: core.RoleMain, Precision: f.data.PricePrecision}
		if err := draw.New(ctx).Candle(bars(f.data), draw.CandleColors(c.theme.Up, c.theme.Down)); err != nil {
			errs = append(errs, fmt.Errorf("price series: %w", err))
		}
	}

	for _, inst := range f.scripts[p.ID] {
		if err := inst.Run(c.context(f, p)); err != nil {
			c.log.WithFields(map[string]any{"script": inst.Name, "pane": p.ID}).WithError(err).Warn("script failed")
			errs = append(errs, err)
		}
	}

	s.Save()
	s.SetStrokeStyle(surface.Color(c.theme.Grid))
	s.StrokeRect(p.Box.X, p.Box.Y, p.Box.W, p.Box.H)
	s.Restore()
	return errs
}

// fit sets the main pane range to the visible prices
func (c *Chart) fit(f *frame, p *Pane) {
	low, high := math.Inf(1), math.Inf(-1)
	for i := f.visible.From; i < f.visible.To; i++ {
		bar := f.data.Bar(i)
		if !bar.IsValid() {
			continue
		}
		low, high = math.Min(low, bar.Low), math.Max(high, bar.High)
	}
	if math.IsInf(low, 0) {
		return
	}

	pad := (high/2 - low/2) * 2 * fitPadding
	p.Y.SetRange(math.Max(low-pad, -math.MaxFloat64), math.Min(high+pad, math.MaxFloat64))
	p.Y.Rebuild(f.surface.MeasureText)
}

func (c *Chart) paintGrid(f *frame, p *Pane) {
	s := f.surface
	s.Save()
	defer s.Restore()

	s.SetStrokeStyle(surface.Color(c.theme.Grid))
	s.SetLineWidth(1)
	s.BeginPath()
	for _, tick := range p.Y.Ticks() {
		y := p.Y.ValueToPixel(tick.Value)
		if y < p.Box.Y || y > p.Box.Bottom() {
			continue
		}
		s.MoveTo(p.Box.X, y)
		s.LineTo(p.Box.Right(), y)
	}
	s.Stroke()
}

func (c *Chart) paintAxis(f *frame, p *Pane) {
	s := f.surface
	s.Save()
	defer s.Restore()

	s.SetFillStyle(surface.Color(c.theme.Text))
	s.SetFont(draw.DefaultFont)
	s.SetTextAlign("left")
	s.SetTextBaseline("middle")
	for _, tick := range p.Y.Ticks() {
		y := p.Y.ValueToPixel(tick.Value)
		if y < p.Box.Y || y > p.Box.Bottom() {
			continue
		}
		s.FillText(tick.Label, p.Box.Right()+4, y)
	}
}

// paintOverlay draws the forwarded primitives of the pane and, on the main
// pane, order markers and overlays
func (c *Chart) paintOverlay(f *frame, p *Pane) error {
	ctx := c.context(f, p)
	ctx.State = &draw.State{Role: p.Role}
	d := draw.New(ctx)

	err := c.forwarder.Render(p.ID, d)

	c.Lock()
	delete(c.overlayRequests, p.ID)
	c.Unlock()

	if p.Role != core.RoleMain {
		return err
	}

	c.Lock()
	buys, sells := c.markers(f.data)
	c.Unlock()

	errs := []error{err}
	errs = append(errs,
		d.Shape(buys, draw.Style{Icon: draw.IconArrowUp, Color: draw.Colors{c.theme.Up}, Size: 6}),
		d.Shape(sells, draw.Style{Icon: draw.IconArrowDown, Color: draw.Colors{c.theme.Down}, Size: 6}),
	)

	for _, o := range f.overlays {
		overlay.Render(f.surface, o.Figures(f.x.IndexToPixel, p.Y.ValueToPixel, f.x.BarWidth(), p.Box.Y, p.Box.Bottom()))
	}
	return errors.Join(errs...)
}
