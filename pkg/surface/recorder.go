package surface

// Op is a single recorded surface call
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Paint Paint
}

// Recorder captures every surface call as an Op while tracking the drawing
// state stack. It draws nothing; tests and overlay inspection replay Ops.
type Recorder struct {
	ops   []Op
	state State
	stack []State
	// width of one character for MeasureText
	charWidth float64
}

var _ Surface = (*Recorder)(nil)

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{state: DefaultState(), charWidth: 6}
}

// Ops returns the recorded calls
func (r *Recorder) Ops() []Op { return r.ops }

// Reset drops recorded calls; the state stack is kept
func (r *Recorder) Reset() { r.ops = r.ops[:0] }

// State returns the current drawing state
func (r *Recorder) State() State { return r.state }

// Depth returns the number of unmatched Save calls
func (r *Recorder) Depth() int { return len(r.stack) }

// Count returns how many ops carry one of the names
func (r *Recorder) Count(names ...string) int {
	n := 0
	for _, op := range r.ops {
		for _, name := range names {
			if op.Name == name {
				n++
				break
			}
		}
	}
	return n
}

// Filter returns the ops with the given name
func (r *Recorder) Filter(name string) []Op {
	out := make([]Op, 0)
	for _, op := range r.ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Playback replays the recorded ops onto another surface
func (r *Recorder) Playback(dst Surface) {
	for _, op := range r.ops {
		apply(dst, op)
	}
}

func (r *Recorder) record(name string, args ...float64) {
	r.ops = append(r.ops, Op{Name: name, Args: args})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state.clone())
	r.record("Save")
}

func (r *Recorder) Restore() {
	r.record("Restore")
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) SetFillStyle(p Paint) {
	r.state.FillStyle = p
	r.ops = append(r.ops, Op{Name: "SetFillStyle", Paint: p})
}

func (r *Recorder) SetStrokeStyle(p Paint) {
	r.state.StrokeStyle = p
	r.ops = append(r.ops, Op{Name: "SetStrokeStyle", Paint: p})
}

func (r *Recorder) SetLineWidth(w float64) {
	r.state.LineWidth = w
	r.record("SetLineWidth", w)
}

func (r *Recorder) SetLineDash(segments []float64) {
	if dash, ok := lineDash(segments); ok {
		r.state.LineDash = dash
	}
	r.record("SetLineDash", segments...)
}

func (r *Recorder) SetGlobalAlpha(alpha float64) {
	r.state.GlobalAlpha = alpha
	r.record("SetGlobalAlpha", alpha)
}

func (r *Recorder) SetFont(font string) {
	r.state.Font = font
	r.ops = append(r.ops, Op{Name: "SetFont", Text: font})
}

func (r *Recorder) SetTextAlign(align string) {
	r.state.TextAlign = align
	r.ops = append(r.ops, Op{Name: "SetTextAlign", Text: align})
}

func (r *Recorder) SetTextBaseline(baseline string) {
	r.state.TextBaseline = baseline
	r.ops = append(r.ops, Op{Name: "SetTextBaseline", Text: baseline})
}

func (r *Recorder) BeginPath()                        { r.record("BeginPath") }
func (r *Recorder) MoveTo(x, y float64)               { r.record("MoveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)               { r.record("LineTo", x, y) }
func (r *Recorder) Rect(x, y, w, h float64)           { r.record("Rect", x, y, w, h) }
func (r *Recorder) Arc(x, y, rad, start, end float64) { r.record("Arc", x, y, rad, start, end) }
func (r *Recorder) ClosePath()                        { r.record("ClosePath") }

func (r *Recorder) Fill() {
	r.ops = append(r.ops, Op{Name: "Fill", Paint: r.state.FillStyle})
}

func (r *Recorder) Stroke() {
	r.ops = append(r.ops, Op{Name: "Stroke", Paint: r.state.StrokeStyle})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.ops = append(r.ops, Op{Name: "FillRect", Args: []float64{x, y, w, h}, Paint: r.state.FillStyle})
}

func (r *Recorder) StrokeRect(x, y, w, h float64) {
	r.ops = append(r.ops, Op{Name: "StrokeRect", Args: []float64{x, y, w, h}, Paint: r.state.StrokeStyle})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.ops = append(r.ops, Op{Name: "FillText", Args: []float64{x, y}, Text: text, Paint: r.state.FillStyle})
}

// MeasureText is not recorded: it does not mutate the surface
func (r *Recorder) MeasureText(text string) float64 {
	return float64(len([]rune(text))) * r.charWidth
}

func apply(dst Surface, op Op) {
	a := op.Args
	switch op.Name {
	case "Save":
		dst.Save()
	case "Restore":
		dst.Restore()
	case "SetFillStyle":
		dst.SetFillStyle(op.Paint)
	case "SetStrokeStyle":
		dst.SetStrokeStyle(op.Paint)
	case "SetLineWidth":
		dst.SetLineWidth(a[0])
	case "SetLineDash":
		dst.SetLineDash(a)
	case "SetGlobalAlpha":
		dst.SetGlobalAlpha(a[0])
	case "SetFont":
		dst.SetFont(op.Text)
	case "SetTextAlign":
		dst.SetTextAlign(op.Text)
	case "SetTextBaseline":
		dst.SetTextBaseline(op.Text)
	case "BeginPath":
		dst.BeginPath()
	case "MoveTo":
		dst.MoveTo(a[0], a[1])
	case "LineTo":
		dst.LineTo(a[0], a[1])
	case "Rect":
		dst.Rect(a[0], a[1], a[2], a[3])
	case "Arc":
		dst.Arc(a[0], a[1], a[2], a[3], a[4])
	case "ClosePath":
		dst.ClosePath()
	case "Fill":
		dst.Fill()
	case "Stroke":
		dst.Stroke()
	case "FillRect":
		dst.FillRect(a[0], a[1], a[2], a[3])
	case "StrokeRect":
		dst.StrokeRect(a[0], a[1], a[2], a[3])
	case "FillText":
		dst.FillText(op.Text, a[0], a[1])
	}
}
