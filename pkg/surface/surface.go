// Package surface defines the immediate-mode 2D drawing target handed to
// scripts on every repaint, together with two implementations: a command
// Recorder and an image.RGBA Raster.
package surface

// Paint is anything usable as a fill or stroke source: a Color or a *Gradient.
type Paint interface {
	paint()
}

// Color is a CSS-like color string (#rgb, #rrggbb, #rrggbbaa, rgb(), rgba() or a name)
type Color string

func (Color) paint() {}

// GradientKind selects the gradient geometry
type GradientKind int

const (
	Linear GradientKind = iota
	Radial
)

// Stop is a gradient color stop, Offset in [0, 1]
type Stop struct {
	Offset float64
	Color  Color
}

// Gradient is a linear gradient from (X0,Y0) to (X1,Y1) or a radial gradient
// between circles (X0,Y0,R0) and (X1,Y1,R1)
type Gradient struct {
	Kind   GradientKind
	X0, Y0 float64
	R0     float64
	X1, Y1 float64
	R1     float64
	Stops  []Stop
}

func (*Gradient) paint() {}

// LinearGradient builds a gradient along the segment (x0,y0)-(x1,y1) with
// evenly spaced stops
func LinearGradient(x0, y0, x1, y1 float64, colors ...Color) *Gradient {
	return &Gradient{Kind: Linear, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: evenStops(colors)}
}

// RadialGradient builds a gradient from the center outward to radius r
func RadialGradient(x, y, r float64, colors ...Color) *Gradient {
	return &Gradient{Kind: Radial, X0: x, Y0: y, X1: x, Y1: y, R1: r, Stops: evenStops(colors)}
}

func evenStops(colors []Color) []Stop {
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		offset := 0.0
		if len(colors) > 1 {
			offset = float64(i) / float64(len(colors)-1)
		}
		stops[i] = Stop{Offset: offset, Color: c}
	}
	return stops
}

// Surface is the drawing target of one repaint. Implementations keep a
// state stack: Save pushes the current State, Restore pops it.
type Surface interface {
	Save()
	Restore()

	SetFillStyle(p Paint)
	SetStrokeStyle(p Paint)
	SetLineWidth(w float64)
	SetLineDash(segments []float64)
	SetGlobalAlpha(alpha float64)
	SetFont(font string)
	SetTextAlign(align string)
	SetTextBaseline(baseline string)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	Arc(x, y, r, start, end float64)
	ClosePath()
	Fill()
	Stroke()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillText(text string, x, y float64)
	MeasureText(text string) float64
}

// State is the mutable drawing state preserved by Save/Restore
type State struct {
	FillStyle    Paint
	StrokeStyle  Paint
	LineWidth    float64
	LineDash     []float64
	GlobalAlpha  float64
	Font         string
	TextAlign    string
	TextBaseline string
}

// DefaultState is the state of a fresh surface
func DefaultState() State {
	return State{
		FillStyle:    Color("#000000"),
		StrokeStyle:  Color("#000000"),
		LineWidth:    1,
		GlobalAlpha:  1,
		Font:         "10px sans-serif",
		TextAlign:    "start",
		TextBaseline: "alphabetic",
	}
}

func (s State) clone() State {
	if s.LineDash != nil {
		s.LineDash = append([]float64(nil), s.LineDash...)
	}
	return s
}
