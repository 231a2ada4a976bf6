package draw

import (
	"strconv"
	"strings"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/samber/lo"
)

const (
	DefaultColor = "#2962ff"
	DefaultFont  = "10px sans-serif"
	DefaultSize  = 4.0
)

// Mode selects between filling and stroking a primitive
type Mode string

const (
	ModeFill   Mode = "fill"
	ModeStroke Mode = "stroke"
)

// Colors is a list of color stops; two or more form a gradient spanning the
// primitive's own geometry, one is a solid color
type Colors []string

// Style is a resolved style
type Style struct {
	Color     Colors
	Mode      Mode
	LineWidth float64
	Dash      []float64
	// Alpha is the global alpha, zero means opaque
	Alpha  float64
	Hidden bool

	// Continuous lines bridge invalid values
	Continuous bool

	// Shapes
	Size float64
	Icon string

	// Labels
	Font       string
	TextAlign  string
	Background Colors
	Padding    float64
}

// Element is what a style function sees of the element being drawn.
// Screen-relative primitives use Index -1.
type Element struct {
	Index int
	Value float64
	Prev  float64
	Bar   core.OHLC
}

// Styler resolves the style of one element
type Styler interface {
	Resolve(e Element) Style
}

// Resolve returns the static style itself
func (s Style) Resolve(Element) Style { return s }

// StyleFunc computes a style per element. It is called once for every
// visible element of every repaint.
type StyleFunc func(e Element) Style

func (f StyleFunc) Resolve(e Element) Style { return f(e) }

// dynamic reports whether the style varies per element
func dynamic(s Styler) bool {
	_, ok := s.(StyleFunc)
	return ok
}

// resolve invokes the styler and fills defaults for the primitive's mode
func resolve(s Styler, e Element, mode Mode) Style {
	if s == nil {
		return Style{}.withDefaults(mode)
	}
	return s.Resolve(e).withDefaults(mode)
}

func (s Style) withDefaults(mode Mode) Style {
	if s.Mode == "" {
		s.Mode = mode
	}
	if len(s.Color) == 0 {
		s.Color = Colors{DefaultColor}
	}
	if s.LineWidth <= 0 {
		s.LineWidth = 1
	}
	if s.Size <= 0 {
		s.Size = DefaultSize
	}
	if s.Font == "" {
		s.Font = DefaultFont
	}
	if s.TextAlign == "" {
		s.TextAlign = "center"
	}
	return s
}

// FontSize returns the pixel size of the style font
func (s Style) FontSize() float64 {
	for _, field := range strings.Fields(s.Font) {
		if px, ok := strings.CutSuffix(field, "px"); ok {
			if v, err := strconv.ParseFloat(px, 64); err == nil {
				return v
			}
		}
	}
	return 10
}

// CandleColors colors candles by direction
func CandleColors(up, down string) StyleFunc {
	return func(e Element) Style {
		if e.Bar.Bullish() {
			return Style{Color: Colors{up}}
		}
		return Style{Color: Colors{down}}
	}
}

// Linear returns a gradient from (x0,y0) to (x1,y1), or a solid color for a
// single stop. It is built per element since geometry changes per element.
func (c Colors) Linear(x0, y0, x1, y1 float64) surface.Paint {
	switch len(c) {
	case 0:
		return surface.Color(DefaultColor)
	case 1:
		return surface.Color(c[0])
	}
	return surface.LinearGradient(x0, y0, x1, y1, c.surface()...)
}

// Radial returns a gradient from the center to radius r, or a solid color
// for a single stop
func (c Colors) Radial(x, y, r float64) surface.Paint {
	switch len(c) {
	case 0:
		return surface.Color(DefaultColor)
	case 1:
		return surface.Color(c[0])
	}
	return surface.RadialGradient(x, y, r, c.surface()...)
}

// Solid returns the first stop
func (c Colors) Solid() surface.Paint {
	if len(c) == 0 {
		return surface.Color(DefaultColor)
	}
	return surface.Color(c[0])
}

func (c Colors) surface() []surface.Color {
	return lo.Map(c, func(s string, _ int) surface.Color { return surface.Color(s) })
}
