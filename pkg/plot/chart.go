// Package plot is the chart hosting indicator scripts: it lays out panes,
// repaints the price series and every script, draws the overlay layer and
// answers hover tooltips.
package plot

import (
	"fmt"
	"slices"
	"sync"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/overlay"
	"github.com/raykavin/chartscript/pkg/schedule"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/surface"
)

const (
	MainPaneID = "main"

	DefaultWidth     = 1024
	DefaultHeight    = 640
	DefaultAxisWidth = 64.0
	DefaultMainShare = 0.6
)

// Theme holds the colors of the chart itself
type Theme struct {
	Background string
	Grid       string
	Text       string
	Up         string
	Down       string
}

var DefaultTheme = Theme{
	Background: "#131722",
	Grid:       "rgba(255, 255, 255, 0.06)",
	Text:       "#b2b5be",
	Up:         "#26a69a",
	Down:       "#ef5350",
}

// Chart hosts panes and the scripts drawing on them
type Chart struct {
	sync.Mutex
	width     float64
	height    float64
	axisWidth float64
	mainShare float64
	theme     Theme

	dataframe *core.Dataframe
	visible   *core.Range

	panes      []*Pane
	scripts    map[string]*script.Instance
	indicators map[string]Indicator
	pending    []Indicator
	overlays   []overlay.Overlay

	ordersIDsBySymbol map[string]*set.LinkedHashSetString
	orderByID         map[string]event.Record

	loop            *schedule.Loop
	forwarder       *script.Forwarder
	emitterOptions  []event.EmitterOption
	overlayRequests map[string]int
	surface         surface.Surface
	paneSeq         int
	log             logger.Logger
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithSize sets the chart size in pixels
func WithSize(width, height int) Option {
	return func(chart *Chart) {
		chart.width, chart.height = float64(width), float64(height)
	}
}

// WithAxisWidth sets the width reserved for value axis labels
func WithAxisWidth(width float64) Option {
	return func(chart *Chart) {
		chart.axisWidth = width
	}
}

// WithMainShare sets the height share of the main pane when secondary
// panes exist
func WithMainShare(share float64) Option {
	return func(chart *Chart) {
		chart.mainShare = share
	}
}

// WithTheme sets the chart colors
func WithTheme(theme Theme) Option {
	return func(chart *Chart) {
		chart.theme = theme
	}
}

// WithLoop shares a scheduling loop with the chart
func WithLoop(loop *schedule.Loop) Option {
	return func(chart *Chart) {
		chart.loop = loop
	}
}

// WithDataframe sets the initial data
func WithDataframe(df *core.Dataframe) Option {
	return func(chart *Chart) {
		chart.dataframe = df
	}
}

// WithEmitterOptions configures the event emitters of every script
func WithEmitterOptions(options ...event.EmitterOption) Option {
	return func(chart *Chart) {
		chart.emitterOptions = append(chart.emitterOptions, options...)
	}
}

// WithCustomIndicators adds indicators to the chart
func WithCustomIndicators(indicators ...Indicator) Option {
	return func(chart *Chart) {
		chart.pending = append(chart.pending, indicators...)
	}
}

// NewChart creates a new chart instance with the provided options
func NewChart(log logger.Logger, options ...Option) (*Chart, error) {
	if log == nil {
		log = logger.NewNop()
	}

	chart := &Chart{
		width:             DefaultWidth,
		height:            DefaultHeight,
		axisWidth:         DefaultAxisWidth,
		mainShare:         DefaultMainShare,
		theme:             DefaultTheme,
		scripts:           make(map[string]*script.Instance),
		indicators:        make(map[string]Indicator),
		ordersIDsBySymbol: make(map[string]*set.LinkedHashSetString),
		orderByID:         make(map[string]event.Record),
		overlayRequests:   make(map[string]int),
		log:               log,
	}

	// Apply all options
	for _, option := range options {
		option(chart)
	}

	if chart.width <= chart.axisWidth || chart.height <= 0 {
		return nil, fmt.Errorf("invalid chart size %.0fx%.0f", chart.width, chart.height)
	}
	if chart.mainShare <= 0 || chart.mainShare > 1 {
		return nil, fmt.Errorf("invalid main pane share %.2f", chart.mainShare)
	}
	if chart.loop == nil {
		chart.loop = schedule.NewLoop()
	}
	chart.forwarder = script.NewForwarder(chart, chart.loop, log)

	chart.panes = []*Pane{{
		ID:   MainPaneID,
		Role: core.RoleMain,
		Y:    axis.NewValue(0, chart.height, 0, 1, chart.pricePrecision()),
	}}
	chart.relayout()

	indicators := chart.pending
	chart.pending = nil
	for _, indicator := range indicators {
		if _, err := chart.AddIndicator(indicator); err != nil {
			return nil, err
		}
	}

	return chart, nil
}

// Loop returns the scheduling loop driving deferred work
func (c *Chart) Loop() *schedule.Loop { return c.loop }

// Forwarder returns the cross-pane forwarder
func (c *Chart) Forwarder() *script.Forwarder { return c.forwarder }

// Panes returns the panes from top to bottom
func (c *Chart) Panes() []*Pane {
	c.Lock()
	defer c.Unlock()
	return slices.Clone(c.panes)
}

// Pane returns the pane with the given id
func (c *Chart) Pane(id string) (*Pane, error) {
	c.Lock()
	defer c.Unlock()
	return c.pane(id)
}

func (c *Chart) pane(id string) (*Pane, error) {
	for _, p := range c.panes {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrPaneNotFound, id)
}

// MainPane returns the id of the pane carrying the price series
func (c *Chart) MainPane() (string, error) {
	c.Lock()
	defer c.Unlock()

	for _, p := range c.panes {
		if p.Role == core.RoleMain {
			return p.ID, nil
		}
	}
	return "", core.ErrNoMainPane
}

// RequestOverlayRepaint records a request to redraw the overlay layer of
// pane. The chart does not redraw on its own: the request is serviced by
// the next Repaint or RepaintOverlay of the pane, which clears the count.
// Hosts driving their own frame loop poll OverlayRequests to decide when to
// call RepaintOverlay.
func (c *Chart) RequestOverlayRepaint(pane string) {
	c.Lock()
	defer c.Unlock()
	c.overlayRequests[pane]++
	c.log.WithField("pane", pane).Trace("overlay repaint requested")
}

// OverlayRequests returns the overlay repaints requested for pane since its
// overlay was last drawn
func (c *Chart) OverlayRequests(pane string) int {
	c.Lock()
	defer c.Unlock()
	return c.overlayRequests[pane]
}

// AddScript creates an instance of cfg. Main role scripts draw on the main
// pane, each secondary script gets a pane of its own.
func (c *Chart) AddScript(cfg script.Config) (*script.Instance, error) {
	c.Lock()
	defer c.Unlock()
	return c.addScript(cfg)
}

func (c *Chart) addScript(cfg script.Config) (*script.Instance, error) {
	if cfg.Draw == nil {
		return nil, fmt.Errorf("script %q has no draw callback", cfg.Name)
	}

	var pane *Pane
	if cfg.Role.IsSecondary() {
		c.paneSeq++
		pane = &Pane{
			ID:   fmt.Sprintf("pane-%d", c.paneSeq),
			Role: core.RoleSecondary,
			Y:    axis.NewValue(0, 0, 0, 1, cfg.Precision),
		}
		c.panes = append(c.panes, pane)
	} else {
		main, err := c.pane(MainPaneID)
		if err != nil {
			return nil, err
		}
		pane = main
	}

	options := append([]event.EmitterOption{event.WithSink(c)}, c.emitterOptions...)
	if c.dataframe != nil {
		options = append(options, event.WithSymbol(c.dataframe.Symbol))
	}

	inst := script.NewInstance(pane.ID, cfg, c.loop,
		script.WithLogger(c.log),
		script.WithForwarder(c.forwarder),
		script.WithEmitterOptions(options...),
	)
	inst.Attach(pane.Y, c.measure)

	pane.scripts = append(pane.scripts, inst)
	c.scripts[inst.ID] = inst
	c.relayout()

	c.log.WithFields(map[string]any{"script": cfg.Name, "pane": pane.ID, "role": cfg.Role}).
		Debug("script added")
	return inst, nil
}

// RemoveScript disposes the instance with the given id. A secondary pane
// left without scripts is removed.
func (c *Chart) RemoveScript(id string) error {
	c.Lock()
	defer c.Unlock()

	inst, ok := c.scripts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, id)
	}
	inst.Dispose()
	delete(c.scripts, id)
	delete(c.indicators, id)

	pane, err := c.pane(inst.Pane)
	if err != nil {
		return err
	}
	pane.scripts = slices.DeleteFunc(pane.scripts, func(i *script.Instance) bool { return i.ID == id })
	if pane.Role.IsSecondary() && len(pane.scripts) == 0 {
		c.panes = slices.DeleteFunc(c.panes, func(p *Pane) bool { return p == pane })
		delete(c.overlayRequests, pane.ID)
	}
	c.relayout()
	return nil
}

// AddOverlay pins a template to the main pane overlay layer
func (c *Chart) AddOverlay(o overlay.Overlay) {
	c.Lock()
	defer c.Unlock()
	c.overlays = append(c.overlays, o)
}

// ClearOverlays drops every overlay
func (c *Chart) ClearOverlays() {
	c.Lock()
	defer c.Unlock()
	c.overlays = nil
}

// SetVisible scrolls the chart to r
func (c *Chart) SetVisible(r core.Range) {
	c.Lock()
	defer c.Unlock()
	c.visible = &r
}

// Visible returns the scrolled range, every bar when never scrolled
func (c *Chart) Visible() core.Range {
	c.Lock()
	defer c.Unlock()
	return c.visibleRange()
}

func (c *Chart) visibleRange() core.Range {
	n := c.dataframe.Len()
	if c.visible == nil {
		return core.Range{From: 0, To: n}
	}
	return c.visible.Clamp(n)
}

// Dispose disposes every script and drops forwarded primitives
func (c *Chart) Dispose() {
	c.Lock()
	defer c.Unlock()

	for id, inst := range c.scripts {
		inst.Dispose()
		delete(c.scripts, id)
	}
	for _, p := range c.panes {
		p.scripts = nil
	}
	c.forwarder.Dispose()
}

// relayout splits the chart height between the main pane and the
// secondary panes
func (c *Chart) relayout() {
	plotWidth := c.width - c.axisWidth

	secondary := len(c.panes) - 1
	mainHeight := c.height
	if secondary > 0 {
		mainHeight = c.height * c.mainShare
	}

	top := 0.0
	for _, p := range c.panes {
		height := mainHeight
		if p.Role.IsSecondary() {
			height = (c.height - mainHeight) / float64(secondary)
		}
		p.Box = draw.Box{X: 0, Y: top, W: plotWidth, H: height}
		p.Y.Resize(top, height)
		top += height
	}
}

// measure measures text with the surface of the running repaint
func (c *Chart) measure(text string) float64 {
	c.Lock()
	s := c.surface
	c.Unlock()

	if s == nil {
		return float64(len(text)) * 6
	}
	return s.MeasureText(text)
}

func (c *Chart) pricePrecision() int {
	if c.dataframe == nil {
		return 2
	}
	return c.dataframe.PricePrecision
}
