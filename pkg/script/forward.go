package script

import (
	"errors"
	"fmt"
	"sync"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/schedule"
)

// PaneHost is the chart as seen by forwarded draw requests
type PaneHost interface {
	// MainPane returns the identifier of the main pane
	MainPane() (string, error)
	// RequestOverlayRepaint asks the host to redraw the overlay layer of a pane
	RequestOverlayRepaint(pane string)
}

// DrawFunc is a deferred primitive replayed against the target pane
type DrawFunc func(d *draw.Drawer) error

type forwarded struct {
	script    string
	primitive string
	draw      DrawFunc
}

// Forwarder buffers primitives that secondary-pane scripts draw on the main
// pane. Requests made before the next frame share a single flush, which
// asks the host for one overlay repaint per target pane.
type Forwarder struct {
	mu      sync.Mutex
	host    PaneHost
	loop    *schedule.Loop
	live    schedule.Liveness
	log     logger.Logger
	buffers map[string][]forwarded
	scripts map[string]*set.LinkedHashSetString
	pending bool
}

// NewForwarder creates a forwarder flushing on loop frames
func NewForwarder(host PaneHost, loop *schedule.Loop, log logger.Logger) *Forwarder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Forwarder{
		host:    host,
		loop:    loop,
		log:     log,
		buffers: make(map[string][]forwarded),
		scripts: make(map[string]*set.LinkedHashSetString),
	}
}

// Forward appends a primitive of script to the main pane buffer and
// schedules a flush unless one is pending
func (f *Forwarder) Forward(script, primitive string, fn DrawFunc) error {
	pane, err := f.host.MainPane()
	if err != nil {
		return fmt.Errorf("forward %s: %w", primitive, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.buffers[pane] = append(f.buffers[pane], forwarded{script: script, primitive: primitive, draw: fn})
	if f.scripts[pane] == nil {
		f.scripts[pane] = set.NewLinkedHashSetString()
	}
	f.scripts[pane].Add(script)

	if !f.pending {
		f.pending = true
		f.loop.RequestFrame(f.live.Guard(f.flush))
	}
	return nil
}

// Clear removes the entries of script from every buffer
func (f *Forwarder) Clear(script string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for pane, entries := range f.buffers {
		kept := entries[:0]
		for _, e := range entries {
			if e.script != script {
				kept = append(kept, e)
			}
		}
		f.buffers[pane] = kept
		if s := f.scripts[pane]; s != nil {
			s.Remove(script)
		}
	}
}

// Len returns the number of buffered entries for pane
func (f *Forwarder) Len(pane string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buffers[pane])
}

// Scripts returns the scripts forwarding to pane in first-request order
func (f *Forwarder) Scripts(pane string) []string {
	f.mu.Lock()
	s := f.scripts[pane]
	f.mu.Unlock()

	if s == nil {
		return nil
	}
	scripts := make([]string, 0, s.Length())
	for id := range s.Iter() {
		scripts = append(scripts, id)
	}
	return scripts
}

// Pending reports whether a flush is scheduled
func (f *Forwarder) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Render replays the entries of pane in request order. A failing entry does
// not stop the others.
func (f *Forwarder) Render(pane string, d *draw.Drawer) error {
	f.mu.Lock()
	entries := append([]forwarded(nil), f.buffers[pane]...)
	f.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if err := e.draw(d); err != nil {
			f.log.WithFields(map[string]any{"script": e.script, "pane": pane, "primitive": e.primitive}).
				WithError(err).Warn("forwarded primitive failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispose drops every buffer and cancels a scheduled flush
func (f *Forwarder) Dispose() {
	f.live.Bump()

	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.buffers)
	clear(f.scripts)
	f.pending = false
}

func (f *Forwarder) flush() {
	f.mu.Lock()
	f.pending = false
	panes := make([]string, 0, len(f.buffers))
	for pane := range f.buffers {
		panes = append(panes, pane)
	}
	f.mu.Unlock()

	for _, pane := range panes {
		f.log.WithField("pane", pane).Trace("flushing forwarded primitives")
		f.host.RequestOverlayRepaint(pane)
	}
}
