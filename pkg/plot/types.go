package plot

import (
	"errors"

	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

var ErrScriptNotFound = errors.New("script not found")

// Pane is a horizontal band of the chart with its own value axis. The main
// pane carries the price series, secondary panes one script each.
type Pane struct {
	ID   string
	Role core.Role
	Box  draw.Box
	Y    *axis.Value

	scripts []*script.Instance
}

// Scripts returns the instances drawing on the pane
func (p *Pane) Scripts() []*script.Instance {
	return append([]*script.Instance(nil), p.scripts...)
}

// Indicator is a ready-made script. Load runs when the data changes and
// Draw on every repaint.
type Indicator interface {
	Name() string
	Overlay() bool
	Warmup() int
	Load(dataframe *core.Dataframe)
	Draw(out *script.Output) error
}

// TooltipRow is a hover tooltip line
type TooltipRow struct {
	Pane   string
	Script string
	tooltip.Row
}
