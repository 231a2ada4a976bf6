package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type point struct{ x, y float64 }

type subpath struct {
	points []point
	closed bool
}

// Raster is a software Surface drawing into an image.RGBA
type Raster struct {
	img   *image.RGBA
	state State
	stack []State
	path  []subpath
	face  font.Face
	cache map[Color]color.NRGBA
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a w x h raster filled with background
func NewRaster(w, h int, background Color) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := &Raster{
		img:   img,
		state: DefaultState(),
		face:  basicfont.Face7x13,
		cache: make(map[Color]color.NRGBA),
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{r.color(background)}, image.Point{}, draw.Src)
	return r
}

// Image returns the backing image
func (r *Raster) Image() *image.RGBA { return r.img }

// EncodePNG writes the raster as PNG
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG writes the raster to path
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := r.EncodePNG(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.state.clone())
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) SetFillStyle(p Paint)         { r.state.FillStyle = p }
func (r *Raster) SetStrokeStyle(p Paint)       { r.state.StrokeStyle = p }
func (r *Raster) SetLineWidth(w float64)       { r.state.LineWidth = w }
func (r *Raster) SetGlobalAlpha(alpha float64) { r.state.GlobalAlpha = clamp(alpha, 0, 1) }
func (r *Raster) SetFont(font string)          { r.state.Font = font }
func (r *Raster) SetTextAlign(align string)    { r.state.TextAlign = align }
func (r *Raster) SetTextBaseline(base string)  { r.state.TextBaseline = base }
func (r *Raster) SetLineDash(segments []float64) {
	if dash, ok := lineDash(segments); ok {
		r.state.LineDash = dash
	}
}

func (r *Raster) BeginPath() { r.path = r.path[:0] }

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{points: []point{{x, y}}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := &r.path[len(r.path)-1]
	last.points = append(last.points, point{x, y})
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.path = append(r.path, subpath{
		points: []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		closed: true,
	})
}

func (r *Raster) Arc(x, y, rad, start, end float64) {
	steps := int(math.Max(12, math.Abs(end-start)*rad/2))
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		px, py := x+rad*math.Cos(a), y+rad*math.Sin(a)
		if i == 0 && len(r.path) == 0 {
			r.MoveTo(px, py)
			continue
		}
		r.LineTo(px, py)
	}
}

func (r *Raster) ClosePath() {
	if len(r.path) == 0 {
		return
	}
	last := &r.path[len(r.path)-1]
	last.closed = true
	if len(last.points) > 0 {
		r.path = append(r.path, subpath{points: []point{last.points[0]}})
	}
}

func (r *Raster) Fill() {
	polys := make([][]point, 0, len(r.path))
	for _, sp := range r.path {
		if len(sp.points) >= 3 {
			polys = append(polys, sp.points)
		}
	}
	r.fillPolygons(polys, r.state.FillStyle)
}

func (r *Raster) Stroke() {
	for _, sp := range r.path {
		pts := sp.points
		if sp.closed && len(pts) > 1 {
			pts = append(append([]point(nil), pts...), pts[0])
		}
		for i := 1; i < len(pts); i++ {
			r.strokeSegment(pts[i-1], pts[i])
		}
	}
}

func (r *Raster) FillRect(x, y, w, h float64) {
	r.fillPolygons([][]point{{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}}, r.state.FillStyle)
}

func (r *Raster) StrokeRect(x, y, w, h float64) {
	corners := []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	for i := 1; i < len(corners); i++ {
		r.strokeSegment(corners[i-1], corners[i])
	}
}

func (r *Raster) FillText(text string, x, y float64) {
	width := float64(font.MeasureString(r.face, text).Ceil())
	switch r.state.TextAlign {
	case "center":
		x -= width / 2
	case "right", "end":
		x -= width
	}

	m := r.face.Metrics()
	switch r.state.TextBaseline {
	case "top", "hanging":
		y += float64(m.Ascent.Ceil())
	case "middle":
		y += float64(m.Ascent.Ceil()-m.Descent.Ceil()) / 2
	case "bottom":
		y -= float64(m.Descent.Ceil())
	}

	c := r.shade(r.state.FillStyle, x, y)
	c.A = uint8(float64(c.A) * r.state.GlobalAlpha)
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(text)
}

func (r *Raster) MeasureText(text string) float64 {
	return float64(font.MeasureString(r.face, text).Ceil())
}

// strokeSegment splits the segment by the dash pattern and fills a quad of
// the current line width for every visible piece
func (r *Raster) strokeSegment(a, b point) {
	width := math.Max(r.state.LineWidth, 1)
	for _, piece := range dashPieces(a, b, r.state.LineDash) {
		dx, dy := piece[1].x-piece[0].x, piece[1].y-piece[0].y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*width/2, dx/length*width/2
		quad := []point{
			{piece[0].x + nx, piece[0].y + ny},
			{piece[1].x + nx, piece[1].y + ny},
			{piece[1].x - nx, piece[1].y - ny},
			{piece[0].x - nx, piece[0].y - ny},
		}
		r.fillPolygons([][]point{quad}, r.state.StrokeStyle)
	}
}

const maxDashPieces = 1 << 14

// lineDash validates a dash list the way canvas does: a list holding a
// negative or non-finite entry is ignored and odd lists are repeated
func lineDash(segments []float64) ([]float64, bool) {
	for _, d := range segments {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, false
		}
	}
	dash := append([]float64(nil), segments...)
	if len(dash)%2 == 1 {
		dash = append(dash, segments...)
	}
	return dash, true
}

func dashPieces(a, b point, dash []float64) [][2]point {
	total := 0.0
	for _, d := range dash {
		total += d
	}
	if len(dash) == 0 || total <= 0 {
		return [][2]point{{a, b}}
	}

	length := math.Hypot(b.x-a.x, b.y-a.y)
	// patterns far below a pixel would only produce invisible pieces
	if length/total*float64(len(dash)) > maxDashPieces {
		return [][2]point{{a, b}}
	}
	pieces := make([][2]point, 0)
	at := func(t float64) point {
		return point{a.x + (b.x-a.x)*t/length, a.y + (b.y-a.y)*t/length}
	}

	pos, i := 0.0, 0
	for pos < length {
		next := math.Min(pos+dash[i%len(dash)], length)
		if i%2 == 0 {
			pieces = append(pieces, [2]point{at(pos), at(next)})
		}
		pos = next
		i++
	}
	return pieces
}

// fillPolygons scan-converts the polygons with the nonzero winding rule
func (r *Raster) fillPolygons(polys [][]point, p Paint) {
	if len(polys) == 0 {
		return
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, poly := range polys {
		for _, pt := range poly {
			minY = math.Min(minY, pt.y)
			maxY = math.Max(maxY, pt.y)
		}
	}

	bounds := r.img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(bounds.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(bounds.Max.Y)))

	type crossing struct {
		x   float64
		dir int
	}

	for y := y0; y < y1; y++ {
		cy := float64(y) + 0.5
		xs := make([]crossing, 0, 8)
		for _, poly := range polys {
			for i := range poly {
				a, b := poly[i], poly[(i+1)%len(poly)]
				if a.y == b.y {
					continue
				}
				dir := 1
				if a.y > b.y {
					a, b = b, a
					dir = -1
				}
				if cy < a.y || cy >= b.y {
					continue
				}
				xs = append(xs, crossing{x: a.x + (cy-a.y)*(b.x-a.x)/(b.y-a.y), dir: dir})
			}
		}
		sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

		winding := 0
		for i := 0; i < len(xs)-1; i++ {
			winding += xs[i].dir
			if winding == 0 {
				continue
			}
			x0 := int(math.Max(math.Round(xs[i].x), float64(bounds.Min.X)))
			x1 := int(math.Min(math.Round(xs[i+1].x), float64(bounds.Max.X)))
			// keep hairline shapes visible
			if x1 == x0 && x0 < bounds.Max.X {
				x1 = x0 + 1
			}
			for x := x0; x < x1; x++ {
				r.blend(x, y, r.shade(p, float64(x)+0.5, cy))
			}
		}
	}
}

func (r *Raster) blend(x, y int, c color.NRGBA) {
	alpha := float64(c.A) / 255 * r.state.GlobalAlpha
	if alpha <= 0 {
		return
	}
	dst := r.img.RGBAAt(x, y)
	mix := func(s, d uint8) uint8 {
		return uint8(float64(s)*alpha + float64(d)*(1-alpha))
	}
	r.img.SetRGBA(x, y, color.RGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(math.Min(255, float64(dst.A)+alpha*255*(1-float64(dst.A)/255))),
	})
}

// shade evaluates a paint at a pixel
func (r *Raster) shade(p Paint, x, y float64) color.NRGBA {
	switch paint := p.(type) {
	case Color:
		return r.color(paint)
	case *Gradient:
		return r.gradientAt(paint, x, y)
	}
	return color.NRGBA{A: 255}
}

func (r *Raster) color(c Color) color.NRGBA {
	if cached, ok := r.cache[c]; ok {
		return cached
	}
	parsed := MustParseColor(c)
	r.cache[c] = parsed
	return parsed
}

func (r *Raster) gradientAt(g *Gradient, x, y float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}

	var t float64
	switch g.Kind {
	case Radial:
		span := g.R1 - g.R0
		if span != 0 {
			t = (math.Hypot(x-g.X0, y-g.Y0) - g.R0) / span
		}
	default:
		dx, dy := g.X1-g.X0, g.Y1-g.Y0
		if den := dx*dx + dy*dy; den != 0 {
			t = ((x-g.X0)*dx + (y-g.Y0)*dy) / den
		}
	}
	t = clamp(t, 0, 1)

	if t <= g.Stops[0].Offset {
		return r.color(g.Stops[0].Color)
	}
	for i := 1; i < len(g.Stops); i++ {
		prev, next := g.Stops[i-1], g.Stops[i]
		if t > next.Offset {
			continue
		}
		span := next.Offset - prev.Offset
		k := 0.0
		if span > 0 {
			k = (t - prev.Offset) / span
		}
		return lerpColor(r.color(prev.Color), r.color(next.Color), k)
	}
	return r.color(g.Stops[len(g.Stops)-1].Color)
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
