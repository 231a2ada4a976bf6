package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/script"
	"github.com/raykavin/chartscript/pkg/tooltip"
)

// MACD creates a new Moving Average Convergence Divergence indicator
// fast: the fast period
// slow: the slow period
// signal: the signal period
// colorMACD: color for the MACD line
// colorMACDSignal: color for the signal line
func MACD(fast, slow, signal int, colorMACD, colorMACDSignal string) plot.Indicator {
	return &macd{
		Fast:            fast,
		Slow:            slow,
		Signal:          signal,
		ColorMACD:       colorMACD,
		ColorMACDSignal: colorMACDSignal,
	}
}

type macd struct {
	Fast             int
	Slow             int
	Signal           int
	ColorMACD        string
	ColorMACDSignal  string
	ValuesMACD       []float64
	ValuesMACDSignal []float64
	ValuesMACDHist   []float64
}

// Warmup returns the number of candles needed to calculate the indicator
func (m macd) Warmup() int {
	return m.Slow + m.Signal
}

// Name returns the formatted name of the indicator
func (m macd) Name() string {
	return fmt.Sprintf("MACD(%d, %d, %d)", m.Fast, m.Slow, m.Signal)
}

func (m macd) Overlay() bool { return false }

func (m *macd) Load(dataframe *core.Dataframe) {
	warmup := m.Warmup()
	if !ValidateDataframe(dataframe, warmup) {
		m.ValuesMACD, m.ValuesMACDSignal, m.ValuesMACDHist = nil, nil, nil
		return
	}

	macdLine, signalLine, histogram := talib.Macd(dataframe.Close, m.Fast, m.Slow, m.Signal)
	lookback := warmup - 2
	m.ValuesMACD = Mask(macdLine, lookback)
	m.ValuesMACDSignal = Mask(signalLine, lookback)
	m.ValuesMACDHist = Mask(histogram, lookback)
}

func (m *macd) Draw(out *script.Output) error {
	histogram := draw.StyleFunc(func(e draw.Element) draw.Style {
		color := ColorUp
		if e.Value < 0 {
			color = ColorDown
		}
		return draw.Style{Color: draw.Colors{color}, Alpha: 0.6}
	})

	if err := out.Bar(m.ValuesMACDHist, 0, histogram); err != nil {
		return err
	}
	if err := out.Line(m.ValuesMACD, draw.Style{Color: draw.Colors{m.ColorMACD}, LineWidth: 1}); err != nil {
		return err
	}
	if err := out.Line(m.ValuesMACDSignal, draw.Style{Color: draw.Colors{m.ColorMACDSignal}, LineWidth: 1}); err != nil {
		return err
	}

	style := tooltip.Explicit(4)
	out.Tools("MACD", m.ValuesMACD, style)
	out.Tools("Signal", m.ValuesMACDSignal, style)
	out.Tools("Histogram", m.ValuesMACDHist, style)
	return nil
}
