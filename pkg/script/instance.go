// Package script holds the per-instance state of indicator scripts and the
// output surface their draw callbacks use: primitives, cross-pane
// forwarding, tooltips, events and console messages.
package script

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/schedule"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// DrawCallback is the evaluated script body invoked on every repaint
type DrawCallback func(out *Output) error

// Config describes a script instance
type Config struct {
	Name      string
	Role      core.Role
	Precision int
	Override  draw.Override
	Draw      DrawCallback
}

// Instance is the owned state of one script on one pane
type Instance struct {
	ID        string
	Name      string
	Pane      string
	Role      core.Role
	Precision int
	Override  draw.Override

	callback       DrawCallback
	live           schedule.Liveness
	loop           *schedule.Loop
	forwarder      *Forwarder
	emitter        *event.Emitter
	emitterOptions []event.EmitterOption
	tools          *tooltip.Registry
	console        *Console
	autorange      *AutoRange
	log            logger.Logger
	disposed       bool
}

// Option configures an Instance
type Option func(*Instance)

// WithLogger sets the instance logger
func WithLogger(log logger.Logger) Option {
	return func(i *Instance) {
		i.log = log
	}
}

// WithForwarder sets the forwarder used by Output.Main
func WithForwarder(f *Forwarder) Option {
	return func(i *Instance) {
		i.forwarder = f
	}
}

// WithEmitterOptions configures the event emitter of the instance
func WithEmitterOptions(options ...event.EmitterOption) Option {
	return func(i *Instance) {
		i.emitterOptions = append(i.emitterOptions, options...)
	}
}

// NewInstance creates an instance of cfg on pane
func NewInstance(pane string, cfg Config, loop *schedule.Loop, options ...Option) *Instance {
	if cfg.Role == "" {
		cfg.Role = core.RoleMain
	}

	inst := &Instance{
		ID:        ulid.Make().String(),
		Name:      cfg.Name,
		Pane:      pane,
		Role:      cfg.Role,
		Precision: cfg.Precision,
		Override:  cfg.Override,
		callback:  cfg.Draw,
		loop:      loop,
		tools:     tooltip.NewRegistry(),
		console:   NewConsole(DefaultConsoleSize),
		log:       logger.NewNop(),
	}
	for _, option := range options {
		option(inst)
	}
	inst.emitter = event.NewEmitter(inst.ID, append([]event.EmitterOption{event.WithLogger(inst.log)}, inst.emitterOptions...)...)
	inst.log = inst.log.WithFields(map[string]any{"script": inst.Name, "pane": pane})
	return inst
}

// Attach binds the value axis a secondary instance fits to its values
func (i *Instance) Attach(y axis.Y, measure func(string) float64) {
	if !i.Role.IsSecondary() {
		return
	}
	i.autorange = NewAutoRange(y, i.loop, &i.live, i.Override, measure)
}

// AutoRange returns the auto-range scheduler, nil for main pane scripts
func (i *Instance) AutoRange() *AutoRange { return i.autorange }

// Tools returns the tooltip registry
func (i *Instance) Tools() *tooltip.Registry { return i.tools }

// Console returns the message buffer
func (i *Instance) Console() *Console { return i.console }

// Emitter returns the event emitter
func (i *Instance) Emitter() *event.Emitter { return i.emitter }

// Generation returns the liveness generation of the instance
func (i *Instance) Generation() uint64 { return i.live.Current() }

// Disposed reports whether Dispose was called
func (i *Instance) Disposed() bool { return i.disposed }

// State builds the draw state handed to renderers
func (i *Instance) State() *draw.State {
	st := &draw.State{Role: i.Role, Precision: i.Precision, Override: i.Override}
	if i.autorange != nil {
		st.Observe = i.autorange.Observe
	}
	return st
}

// Run evaluates the draw callback against ctx. Previously forwarded
// primitives of the instance are dropped first. A panicking callback is
// returned as an error.
func (i *Instance) Run(ctx *draw.Context) (err error) {
	if i.disposed {
		return core.ErrDisposed
	}
	if i.callback == nil {
		return nil
	}

	if i.forwarder != nil {
		i.forwarder.Clear(i.ID)
	}
	if i.autorange != nil {
		i.autorange.Reset()
		defer i.autorange.End()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %s: draw callback panicked: %v", i.Name, r)
			i.log.WithError(err).Error("draw callback failed")
		}
	}()

	ctx.State = i.State()
	if err := i.callback(NewOutput(i, ctx)); err != nil {
		i.log.WithError(err).Error("draw callback failed")
		return fmt.Errorf("script %s: %w", i.Name, err)
	}
	return nil
}

// Dispose invalidates pending deferred work and drops the instance caches
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	i.live.Bump()
	i.emitter.Reset()
	i.tools.Reset()
	if i.forwarder != nil {
		i.forwarder.Clear(i.ID)
	}
	i.log.Debug("script disposed")
}
