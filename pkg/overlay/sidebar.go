package overlay

import (
	"github.com/raykavin/chartscript/pkg/profile"
)

const (
	NameProfile = "profile"

	DefaultSidebarWidth = 80.0
)

// SidebarColors are the colors of a profile sidebar
type SidebarColors struct {
	Bin       string
	ValueArea string
	POC       string
	Bounds    string
}

var DefaultSidebarColors = SidebarColors{
	Bin:       "rgba(120, 123, 134, 0.35)",
	ValueArea: "rgba(41, 98, 255, 0.35)",
	POC:       "#ff9800",
	Bounds:    "#2962ff",
}

// ProfileSidebar draws a volume profile as horizontal bars growing right of
// the first anchor, with the POC as a solid line and the value area bounds
// as dashed lines. The payload must be a profile.Profile.
type ProfileSidebar struct {
	Width  float64
	Colors *SidebarColors
}

func (ProfileSidebar) Name() string { return NameProfile }

func (t ProfileSidebar) Figures(g Geometry, payload any) []Figure {
	p, ok := payload.(profile.Profile)
	if !ok {
		if ptr, isPtr := payload.(*profile.Profile); isPtr && ptr != nil {
			p, ok = *ptr, true
		}
	}
	if !ok || len(g.Points) == 0 || g.Y == nil || p.MaxVolume() <= 0 {
		return nil
	}

	width := t.Width
	if width <= 0 {
		width = DefaultSidebarWidth
	}
	colors := DefaultSidebarColors
	if t.Colors != nil {
		colors = *t.Colors
	}

	left := g.Points[0].X
	right := left + width
	figures := make([]Figure, 0, len(p.Bins)+3)

	for _, bin := range p.Bins {
		if bin.Volume <= 0 {
			continue
		}
		color := colors.Bin
		if bin.InValueArea {
			color = colors.ValueArea
		}
		length := width * bin.Volume / p.MaxVolume()
		figures = append(figures, Figure{
			Kind:   FigureRect,
			Points: []Point{{X: left, Y: g.Y(bin.High)}, {X: left + length, Y: g.Y(bin.Low)}},
			Color:  color,
		})
	}

	level := func(value float64, color string, dash []float64) Figure {
		y := g.Y(value)
		return Figure{
			Kind:   FigureLine,
			Points: []Point{{X: left, Y: y}, {X: right, Y: y}},
			Color:  color,
			Dash:   dash,
		}
	}

	return append(figures,
		level(p.POC, colors.POC, nil),
		level(p.VAH, colors.Bounds, []float64{4, 2}),
		level(p.VAL, colors.Bounds, []float64{4, 2}),
	)
}
