package indicator

import (
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// dataframe builds bars from open/close pairs
func dataframe(pairs ...[2]float64) *core.Dataframe {
	df := core.NewDataframe("TEST")
	for i, p := range pairs {
		df.Append(core.Candle{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   p[0],
			Close:  p[1],
			Low:    min(p[0], p[1]) - 1,
			High:   max(p[0], p[1]) + 1,
			Volume: float64(10 + i),
		})
	}
	return df
}

func closes(values ...float64) *core.Dataframe {
	pairs := make([][2]float64, len(values))
	for i, v := range values {
		pairs[i] = [2]float64{v - 0.5, v}
	}
	return dataframe(pairs...)
}

type collector struct {
	records []event.Record
}

func (c *collector) Emit(r event.Record) { c.records = append(c.records, r) }

func (c *collector) kind(kind event.Kind) []event.Record {
	out := make([]event.Record, 0)
	for _, r := range c.records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func newChart(t *testing.T, df *core.Dataframe, sink event.Sink, indicators ...plot.Indicator) *plot.Chart {
	t.Helper()
	chart, err := plot.NewChart(logger.NewNop(),
		plot.WithDataframe(df),
		plot.WithEmitterOptions(event.WithSink(sink)),
		plot.WithCustomIndicators(indicators...),
	)
	require.NoError(t, err)
	return chart
}

// painted returns the ops of the given name drawn while color was the fill
// style. Every primitive restores the state it changed, so the fill style is
// forgotten on Restore.
func painted(rec *surface.Recorder, name, color string) []surface.Op {
	out := make([]surface.Op, 0)
	current := surface.Paint(nil)
	for _, op := range rec.Ops() {
		switch op.Name {
		case "SetFillStyle":
			current = op.Paint
		case "Restore":
			current = nil
		case name:
			if current == surface.Color(color) {
				out = append(out, op)
			}
		}
	}
	return out
}

func TestWideRangeBars(t *testing.T) {
	sink := &collector{}
	df := dataframe([2]float64{10, 12}, [2]float64{12, 10}, [2]float64{10, 12}, [2]float64{12, 10}, [2]float64{10, 30})
	chart := newChart(t, df, sink, WideRangeBars("#ff00ff"))

	rec := surface.NewRecorder()
	require.NoError(t, chart.Repaint(rec))

	// 960 px over 5 bars: bar 4 spans [768, 960)
	rects := painted(rec, "FillRect", "#ff00ff")
	require.Len(t, rects, 1)
	assert.Equal(t, 768.0, rects[0].Args[0])
	assert.Equal(t, 192.0, rects[0].Args[2])

	signals := sink.kind(event.KindSignal)
	require.Len(t, signals, 1)
	assert.Equal(t, "wrb", signals[0].Tag)
	assert.Equal(t, start.Add(4*time.Hour), signals[0].BarTime)

	// same bar, no second signal
	require.NoError(t, chart.Repaint(surface.NewRecorder()))
	assert.Len(t, sink.kind(event.KindSignal), 1)
}

func TestMovingAverages(t *testing.T) {
	ind := MovingAverages(TypeSMA, []int{3, 5}, "#000001")
	assert.Equal(t, "SMA(3,5)", ind.Name())
	assert.Equal(t, 5, ind.Warmup())
	assert.True(t, ind.Overlay())

	chart := newChart(t, closes(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), &collector{}, ind)
	ma := ind.(*movingAverages)
	require.Len(t, ma.values, 2)
	assert.False(t, core.Valid(ma.values[0][1]))
	assert.InDelta(t, 2.0, ma.values[0][2], 1e-9)
	assert.InDelta(t, 8.0, ma.values[1][9], 1e-9)

	require.NoError(t, chart.Repaint(surface.NewRecorder()))
	rows := chart.Tooltip(9)
	labels := make(map[string]string)
	for _, row := range rows {
		labels[row.Label] = row.Value
	}
	assert.Equal(t, "9.00", labels["MA 3"])
	assert.Equal(t, "8.00", labels["MA 5"])
}

func TestMovingAverages_NotEnoughData(t *testing.T) {
	ind := MovingAverages(TypeEMA, []int{20}).(*movingAverages)
	ind.Load(closes(1, 2, 3))
	require.Len(t, ind.values, 1)
	assert.Nil(t, ind.values[0])
}

func TestRSI_LevelsFitPane(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	ind := RSI(14, "#000002")
	chart := newChart(t, closes(values...), &collector{}, ind)

	r := ind.(*rsi)
	assert.False(t, core.Valid(r.Values[13]))
	assert.InDelta(t, 100.0, r.Values[29], 1e-9)

	require.NoError(t, chart.Render(surface.NewRecorder()))
	panes := chart.Panes()
	require.Len(t, panes, 2)
	low, high := panes[1].Y.Range()
	assert.Equal(t, Oversold, low)
	assert.InDelta(t, 100.0, high, 1e-9)
}

func TestCrossover(t *testing.T) {
	sink := &collector{}
	ind := Crossover(2, 4, 1.5, "#000003", "#000004")
	chart := newChart(t, closes(10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 20), sink, ind)

	c := ind.(*crossover)
	assert.True(t, core.Valid(c.ups[10]))
	for i := 0; i < 10; i++ {
		assert.False(t, core.Valid(c.ups[i]), "index %d", i)
	}
	for _, v := range c.downs {
		assert.False(t, core.Valid(v))
	}

	require.NoError(t, chart.Repaint(surface.NewRecorder()))
	require.NoError(t, chart.Repaint(surface.NewRecorder()))

	signals := sink.kind(event.KindSignal)
	require.Len(t, signals, 1)
	assert.Equal(t, "cross up", signals[0].Message)

	opens := sink.kind(event.KindOrderOpen)
	require.Len(t, opens, 1)
	assert.Equal(t, "buy", opens[0].Payload["type"])
	assert.Equal(t, 1.5, opens[0].Payload["num"])

	require.Len(t, chart.Orders("TEST"), 1)
}

func TestMACD_Masked(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(100 + i%7)
	}
	ind := MACD(3, 6, 3, "#000005", "#000006")
	newChart(t, closes(values...), &collector{}, ind)

	m := ind.(*macd)
	require.Len(t, m.ValuesMACD, 40)
	assert.False(t, core.Valid(m.ValuesMACD[6]))
	assert.True(t, core.Valid(m.ValuesMACD[39]))
	assert.True(t, core.Valid(m.ValuesMACDHist[39]))
}

func TestVolume_ColorsByDirection(t *testing.T) {
	df := dataframe([2]float64{1, 2}, [2]float64{2, 1}, [2]float64{1, 3}, [2]float64{3, 1}, [2]float64{1, 5})
	chart := newChart(t, df, &collector{}, Volume(2, "#00ff01", "#ff0001"))

	rec := surface.NewRecorder()
	require.NoError(t, chart.Repaint(rec))
	assert.Len(t, painted(rec, "FillRect", "#00ff01"), 3)
	assert.Len(t, painted(rec, "FillRect", "#ff0001"), 2)
}

func TestSuperTrend_RisingMarket(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(10 + i)
	}
	df := closes(values...)
	ind := SuperTrend(5, 3).(*supertrend)
	ind.Load(df)

	require.Len(t, ind.values, 30)
	assert.False(t, core.Valid(ind.values[4]))
	assert.True(t, ind.up[29])
	assert.Less(t, ind.values[29], df.Close[29])
}

func TestBollinger(t *testing.T) {
	ind := Bollinger(5, 2, "#000007").(*bollinger)
	ind.Load(closes(1, 2, 3, 4, 5, 6, 7, 8))

	assert.False(t, core.Valid(ind.middle[3]))
	assert.InDelta(t, 3.0, ind.middle[4], 1e-9)
	assert.Greater(t, ind.upper[7], ind.middle[7])
	assert.Less(t, ind.lower[7], ind.middle[7])
}

func TestParse(t *testing.T) {
	tests := []struct {
		definition string
		name       string
		overlay    bool
	}{
		{"sma:9,21", "SMA(9,21)", true},
		{"EMA", "EMA(20)", true},
		{"rsi:7", "RSI(7)", false},
		{"bb:20", "BB(20, 2.0)", true},
		{"supertrend:10,2.5", "SuperTrend(10,2.5)", true},
		{" wrb ", "WRB", true},
		{"volume", "Volume", false},
		{"stoch", "STOCH(14, 3, 3)", false},
		{"cci:10", "CCI(10)", false},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			ind, err := Parse(tt.definition)
			require.NoError(t, err)
			assert.Equal(t, tt.name, ind.Name())
			assert.Equal(t, tt.overlay, ind.Overlay())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("ichimoku")
	require.ErrorIs(t, err, ErrUnknownIndicator)

	_, err = Parse("rsi:x")
	require.Error(t, err)

	_, err = Parse("rsi:14,3")
	require.Error(t, err)

	_, err = ParseAll([]string{"sma:5", "nope"})
	require.ErrorIs(t, err, ErrUnknownIndicator)

	assert.Contains(t, Names(), "macd")
}

func TestStoch(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	ind := Stoch(5, 3, 3, "#000001", "#000002")
	chart := newChart(t, closes(values...), &collector{}, ind)

	s := ind.(*stoch)
	require.Len(t, s.ValuesK, 30)
	assert.False(t, core.Valid(s.ValuesK[ind.Warmup()-2]))
	assert.True(t, core.Valid(s.ValuesK[ind.Warmup()-1]))

	require.NoError(t, chart.Render(surface.NewRecorder()))
	rows := chart.Tooltip(29)
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.Label)
	}
	assert.Contains(t, labels, "K")
	assert.Contains(t, labels, "D")
}

func TestCCI_ColorsBySign(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + float64(i%10)
	}
	ind := CCI(5, "#000003")
	chart := newChart(t, closes(values...), &collector{}, ind)

	c := ind.(*cci)
	assert.False(t, core.Valid(c.Values[3]))
	assert.True(t, core.Valid(c.Values[4]))

	require.NoError(t, chart.Render(surface.NewRecorder()))
	panes := chart.Panes()
	require.Len(t, panes, 2)
	low, high := panes[1].Y.Range()
	assert.LessOrEqual(t, low, -CCIBand)
	assert.GreaterOrEqual(t, high, CCIBand)
}
