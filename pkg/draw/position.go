package draw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/samber/lo"
)

// Space selects how numeric positions are interpreted
type Space int

const (
	// DataSpace maps numbers through the axes: x is a bar index, y a value
	DataSpace Space = iota
	// ScreenSpace treats numbers as pixel offsets from the box origin,
	// negative offsets anchored to the far edge
	ScreenSpace
)

// Pos is a position descriptor: a number or a token such as "top", "12px",
// "50%", "index:end" or "close"
type Pos struct {
	value float64
	token string
	isTok bool
}

// Num creates a numeric position
func Num(v float64) Pos { return Pos{value: v} }

// Tok creates a token position
func Tok(token string) Pos {
	return Pos{token: strings.ToLower(strings.TrimSpace(token)), isTok: true}
}

// ParsePos reads a numeric string as a number and anything else as a token
func ParsePos(s string) Pos {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Num(v)
	}
	return Tok(s)
}

// Number returns the numeric value, false for tokens
func (p Pos) Number() (float64, bool) { return p.value, !p.isTok }

// Token returns the token, empty for numbers
func (p Pos) Token() string { return p.token }

func (p Pos) String() string {
	if p.isTok {
		return p.token
	}
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// Point is a pair of position descriptors
type Point struct {
	X, Y Pos
}

// P builds a point
func P(x, y Pos) Point { return Point{X: x, Y: y} }

// Resolver converts positions to pixels against a draw context. Tokens that
// cannot be resolved land on the box origin.
type Resolver struct {
	ctx *Context
}

// NewResolver creates a resolver for ctx
func NewResolver(ctx *Context) Resolver {
	return Resolver{ctx: ctx}
}

// X resolves a horizontal position
func (r Resolver) X(p Pos, space Space) float64 {
	box := r.ctx.Box
	if !p.isTok {
		if space == DataSpace {
			return r.ctx.X.IndexToPixel(p.value)
		}
		return anchor(box.X, box.W, p.value)
	}

	switch tok := p.token; {
	case tok == "left":
		return box.X
	case tok == "right":
		return box.Right()
	case tok == "center":
		return box.X + box.W/2
	case strings.HasPrefix(tok, "index:"):
		if i, err := r.index(tok); err == nil {
			return r.ctx.X.IndexToPixel(float64(i))
		}
	default:
		if off, err := offset(tok, box.W); err == nil {
			return anchor(box.X, box.W, off)
		}
	}
	return box.X
}

// Y resolves a vertical position
func (r Resolver) Y(p Pos, space Space) float64 {
	box := r.ctx.Box
	if !p.isTok {
		if space == DataSpace {
			return r.ctx.Y.ValueToPixel(p.value)
		}
		return anchor(box.Y, box.H, p.value)
	}

	switch tok := p.token; tok {
	case "top":
		return box.Y
	case "bottom":
		return box.Bottom()
	case "center":
		return box.Y + box.H/2
	case "open", "high", "low", "close":
		if v, ok := r.lastBar().Field(tok); ok && core.Valid(v) {
			return r.ctx.Y.ValueToPixel(v)
		}
	default:
		if off, err := offset(tok, box.H); err == nil {
			return anchor(box.Y, box.H, off)
		}
	}
	return box.Y
}

// Index resolves a bar reference token ("index:N", "index:end") to a bar
// index clamped to the available data
func (r Resolver) Index(p Pos) (int, error) {
	if !p.isTok {
		return lo.Clamp(int(p.value), 0, max(r.ctx.Data.LastIndex(), 0)), nil
	}
	return r.index(p.token)
}

func (r Resolver) index(tok string) (int, error) {
	last := r.ctx.Data.LastIndex()
	if last < 0 {
		return 0, fmt.Errorf("%w: %s: %w", core.ErrInvalidPosition, tok, core.ErrInsufficientData)
	}

	ref := strings.TrimPrefix(tok, "index:")
	if ref == "end" || ref == "last" {
		return last, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", core.ErrInvalidPosition, tok)
	}
	return lo.Clamp(n, 0, last), nil
}

// lastBar returns the last bar inside the visible range
func (r Resolver) lastBar() core.OHLC {
	data := r.ctx.Data
	i := min(r.ctx.Visible.To, data.Len()) - 1
	if i < r.ctx.Visible.From {
		i = data.LastIndex()
	}
	return data.Bar(i)
}

func anchor(origin, extent, off float64) float64 {
	if off < 0 {
		return origin + extent + off
	}
	return origin + off
}

// offset parses "Npx" and "N%" tokens
func offset(tok string, extent float64) (float64, error) {
	switch {
	case strings.HasSuffix(tok, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", core.ErrInvalidPosition, tok)
		}
		return v, nil
	case strings.HasSuffix(tok, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", core.ErrInvalidPosition, tok)
		}
		return extent * v / 100, nil
	}
	return 0, fmt.Errorf("%w: %s", core.ErrInvalidPosition, tok)
}
