package indicator

import (
	"fmt"
	"strings"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
	"github.com/samber/lo"
)

// MaType represents moving average type
type MaType = talib.MaType

const (
	TypeSMA = talib.SMA // Simple Moving Average
	TypeEMA = talib.EMA // Exponential Moving Average
	TypeWMA = talib.WMA // Weighted Moving Average
)

var maNames = map[MaType]string{TypeSMA: "SMA", TypeEMA: "EMA", TypeWMA: "WMA"}

// MovingAverages draws one moving average of the closes per period on the
// price pane. Colors are used in order and cycle when fewer than periods.
func MovingAverages(maType MaType, periods []int, colors ...string) plot.Indicator {
	if len(colors) == 0 {
		colors = []string{draw.DefaultColor}
	}
	return &movingAverages{maType: maType, periods: periods, colors: colors}
}

type movingAverages struct {
	maType  MaType
	periods []int
	colors  []string
	values  [][]float64
}

func (m movingAverages) Name() string {
	name, ok := maNames[m.maType]
	if !ok {
		name = "MA"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(lo.Map(m.periods, func(p int, _ int) string {
		return fmt.Sprint(p)
	}), ","))
}

func (m movingAverages) Overlay() bool { return true }

func (m movingAverages) Warmup() int {
	return lo.Max(m.periods)
}

func (m *movingAverages) Load(dataframe *core.Dataframe) {
	m.values = make([][]float64, len(m.periods))
	for i, period := range m.periods {
		if !ValidateDataframe(dataframe, period) {
			continue
		}
		m.values[i] = Mask(talib.Ma(dataframe.Close, period, m.maType), period-1)
	}
}

func (m *movingAverages) Draw(out *script.Output) error {
	for i, values := range m.values {
		color := m.colors[i%len(m.colors)]
		if err := out.Line(values, draw.Style{Color: draw.Colors{color}, LineWidth: 1}); err != nil {
			return err
		}
		out.Tools(fmt.Sprintf("MA %d", m.periods[i]), values, tooltip.ToolStyle{Color: color})
	}
	return nil
}
