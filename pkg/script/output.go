package script

import (
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// Output is what a draw callback draws, registers and emits through
type Output struct {
	inst   *Instance
	ctx    *draw.Context
	drawer *draw.Drawer
}

// NewOutput binds inst to one repaint context
func NewOutput(inst *Instance, ctx *draw.Context) *Output {
	return &Output{inst: inst, ctx: ctx, drawer: draw.New(ctx)}
}

// Context returns the repaint context
func (o *Output) Context() *draw.Context { return o.ctx }

// Data returns the aligned dataframe
func (o *Output) Data() *core.Dataframe { return o.ctx.Data }

func (o *Output) Line(values []float64, style draw.Styler) error {
	return o.report("line", o.drawer.Line(values, style))
}

func (o *Output) Bar(values []float64, base float64, style draw.Styler) error {
	return o.report("bar", o.drawer.Bar(values, base, style))
}

func (o *Output) Candle(bars []core.OHLC, style draw.Styler) error {
	return o.report("candle", o.drawer.Candle(bars, style))
}

func (o *Output) Rect(zones [][]draw.Zone, style draw.Styler) error {
	return o.report("rect", o.drawer.Rect(zones, style))
}

func (o *Output) Area(bands []draw.Band, style draw.Styler) error {
	return o.report("area", o.drawer.Area(bands, style))
}

func (o *Output) Shape(values []float64, style draw.Styler) error {
	return o.report("shape", o.drawer.Shape(values, style))
}

func (o *Output) Label(labels []draw.LabelValue, style draw.Styler) error {
	return o.report("label", o.drawer.Label(labels, style))
}

func (o *Output) HLine(y draw.Pos, style draw.Styler) error {
	return o.report("hline", o.drawer.HLine(y, style))
}

func (o *Output) VLine(x draw.Pos, style draw.Styler) error {
	return o.report("vline", o.drawer.VLine(x, style))
}

func (o *Output) SLine(points []draw.Point, style draw.Styler) error {
	return o.report("sline", o.drawer.SLine(points, style))
}

func (o *Output) SArea(points []draw.Point, style draw.Styler) error {
	return o.report("sarea", o.drawer.SArea(points, style))
}

func (o *Output) SRect(from, to draw.Point, style draw.Styler) error {
	return o.report("srect", o.drawer.SRect(from, to, style))
}

func (o *Output) SShape(at draw.Point, style draw.Styler) error {
	return o.report("sshape", o.drawer.SShape(at, style))
}

func (o *Output) SCircle(at draw.Point, style draw.Styler) error {
	return o.report("scircle", o.drawer.SCircle(at, style))
}

func (o *Output) SLabel(at draw.Point, text string, style draw.Styler) error {
	return o.report("slabel", o.drawer.SLabel(at, text, style))
}

// Main returns the output drawing on the main pane
func (o *Output) Main() *MainOutput {
	return &MainOutput{out: o}
}

// Tools registers a tooltip value
func (o *Output) Tools(label string, data any, style tooltip.ToolStyle) {
	o.inst.tools.Tools(label, data, style)
}

// Signal emits a signal when the last trigger element is valid
func (o *Output) Signal(trigger any, message any) bool {
	_, ok := o.inst.emitter.Signal(o.barTime(), trigger, message)
	return ok
}

// OrderOpen emits an order open request
func (o *Output) OrderOpen(trigger any, order event.Order) bool {
	_, ok := o.inst.emitter.OrderOpen(o.barTime(), trigger, order)
	return ok
}

// OrderClose emits an order close request
func (o *Output) OrderClose(trigger any, id string, payload map[string]any) bool {
	_, ok := o.inst.emitter.OrderClose(trigger, id, payload)
	return ok
}

// OrderUpdate emits an order update request
func (o *Output) OrderUpdate(trigger any, id string, payload map[string]any) bool {
	_, ok := o.inst.emitter.OrderUpdate(trigger, id, payload)
	return ok
}

// Print writes an informational console message
func (o *Output) Print(args ...any) { o.message(logger.InfoLevel, args...) }

// Sys writes a system console message
func (o *Output) Sys(args ...any) { o.message(logger.DebugLevel, args...) }

// Warn writes a warning console message
func (o *Output) Warn(args ...any) { o.message(logger.WarnLevel, args...) }

// Error writes an error console message
func (o *Output) Error(args ...any) { o.message(logger.ErrorLevel, args...) }

func (o *Output) message(level logger.Level, args ...any) {
	m := o.inst.console.write(level, args...)
	o.inst.log.Log(level, m.Text)
}

func (o *Output) barTime() time.Time {
	return o.ctx.Data.TimeAt(o.ctx.Data.LastIndex())
}

func (o *Output) report(primitive string, err error) error {
	if err != nil {
		o.inst.log.WithField("primitive", primitive).WithError(err).Warn("primitive failed")
	}
	return err
}
