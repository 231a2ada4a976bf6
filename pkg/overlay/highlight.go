package overlay

const (
	NameHighlight = "highlight"

	DefaultHighlightColor = "rgba(255, 235, 59, 0.25)"
)

// Highlight shades the full pane height over the anchored bars. The payload
// may be a color string.
type Highlight struct{}

func (Highlight) Name() string { return NameHighlight }

func (Highlight) Figures(g Geometry, payload any) []Figure {
	if len(g.Points) == 0 {
		return nil
	}

	color := DefaultHighlightColor
	if c, ok := payload.(string); ok && c != "" {
		color = c
	}

	left, right := g.Points[0].X, g.Points[0].X
	for _, p := range g.Points[1:] {
		left, right = min(left, p.X), max(right, p.X)
	}
	half := g.BarWidth / 2

	return []Figure{{
		Kind:   FigureRect,
		Points: []Point{{X: left - half, Y: g.Top}, {X: right + half, Y: g.Bottom}},
		Color:  color,
	}}
}
