// Package draw implements the primitive renderers scripts draw with: data
// primitives culled to the visible range and screen-relative primitives
// positioned by tokens, all resolving styles per element and restoring the
// surface state after every element.
package draw

import (
	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
)

// Box is a pane bounding box in pixels
type Box struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge
func (b Box) Bottom() float64 { return b.Y + b.H }

// Override is a user configured value range; nil bounds are unset
type Override struct {
	Min *float64
	Max *float64
}

// State is the owning script's state consulted by every draw call
type State struct {
	Role      core.Role
	Precision int
	Override  Override

	// Observe receives every value drawn inside the visible range
	Observe func(values ...float64)
}

// Context is the per-repaint bundle handed to a draw callback. It belongs to
// a single repaint of a single pane.
type Context struct {
	Surface surface.Surface
	X       axis.X
	Y       axis.Y
	Box     Box
	Visible core.Range
	Data    *core.Dataframe
	State   *State
}

// visible returns the visible range clamped to n elements
func (c *Context) visible(n int) core.Range {
	return c.Visible.Clamp(n)
}

func (c *Context) observe(values ...float64) {
	if c.State == nil || c.State.Observe == nil {
		return
	}
	c.State.Observe(values...)
}
