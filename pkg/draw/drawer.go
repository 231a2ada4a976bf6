package draw

import (
	"fmt"
	"math"

	"github.com/raykavin/chartscript/pkg/surface"
)

// RenderError reports a primitive that failed mid-draw. The surface state
// was restored and the remaining elements of the primitive were skipped.
type RenderError struct {
	Primitive string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Primitive, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Drawer issues primitives against a draw context
type Drawer struct {
	ctx *Context
	res Resolver
}

// New creates a drawer for one repaint
func New(ctx *Context) *Drawer {
	return &Drawer{ctx: ctx, res: NewResolver(ctx)}
}

// Context returns the draw context
func (d *Drawer) Context() *Context { return d.ctx }

// Resolver returns the position resolver of the context
func (d *Drawer) Resolver() Resolver { return d.res }

// scope runs fn between Save and Restore. A panic inside fn is converted to
// a RenderError after the state is restored.
func (d *Drawer) scope(primitive string, fn func(s surface.Surface)) (err error) {
	s := d.ctx.Surface
	s.Save()
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Primitive: primitive, Err: panicError(r)}
		}
		s.Restore()
	}()

	fn(s)
	return nil
}

// style resolves the element style. A panicking style function fails the
// primitive with a RenderError instead of unwinding into the caller.
func (d *Drawer) style(primitive string, styler Styler, e Element, mode Mode) (st Style, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Primitive: primitive, Err: panicError(r)}
		}
	}()
	return resolve(styler, e, mode), nil
}

func panicError(r any) error {
	if cause, ok := r.(error); ok {
		return cause
	}
	return fmt.Errorf("%v", r)
}

// apply pushes the style onto the surface, painting with p
func apply(s surface.Surface, st Style, p surface.Paint) {
	if st.Mode == ModeStroke {
		s.SetStrokeStyle(p)
	} else {
		s.SetFillStyle(p)
	}
	s.SetLineWidth(st.LineWidth)
	if len(st.Dash) > 0 {
		s.SetLineDash(st.Dash)
	}
	if st.Alpha > 0 {
		s.SetGlobalAlpha(st.Alpha)
	}
}

// paintRect fills or strokes a rectangle according to the style mode
func paintRect(s surface.Surface, st Style, x, y, w, h float64) {
	if st.Mode == ModeStroke {
		s.StrokeRect(x, y, w, h)
		return
	}
	s.FillRect(x, y, w, h)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
