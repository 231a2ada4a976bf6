package script

import (
	"errors"
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/schedule"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/raykavin/chartscript/pkg/tooltip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHost records overlay repaint requests
type MockHost struct {
	Main     string
	Err      error
	Repaints map[string]int
}

func NewMockHost() *MockHost {
	return &MockHost{Main: "main", Repaints: make(map[string]int)}
}

func (h *MockHost) MainPane() (string, error) {
	if h.Err != nil {
		return "", h.Err
	}
	return h.Main, nil
}

func (h *MockHost) RequestOverlayRepaint(pane string) { h.Repaints[pane]++ }

func testData(n int) *core.Dataframe {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	df := core.NewDataframe("TEST")
	for i := 0; i < n; i++ {
		v := float64(10 + i)
		df.Append(core.Candle{Time: start.Add(time.Duration(i) * time.Minute), Open: v, High: v, Low: v, Close: v})
	}
	return df
}

func testContext(df *core.Dataframe, y axis.Y) (*draw.Context, *surface.Recorder) {
	rec := surface.NewRecorder()
	visible := core.Range{From: 0, To: df.Len()}
	return &draw.Context{
		Surface: rec,
		X:       axis.NewIndex(0, 100, visible),
		Y:       y,
		Box:     draw.Box{W: 100, H: 100},
		Visible: visible,
		Data:    df,
	}, rec
}

func TestForwarder_CoalescesRepaints(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	fwd := NewForwarder(host, loop, nil)
	df := testData(3)

	var ids []string
	for _, name := range []string{"rsi", "macd", "cci"} {
		inst := NewInstance("sub-"+name, Config{
			Name: name,
			Role: core.RoleSecondary,
			Draw: func(out *Output) error {
				return out.Main().Line([]float64{1, 2, 3}, draw.Style{})
			},
		}, loop, WithForwarder(fwd))
		ids = append(ids, inst.ID)

		ctx, rec := testContext(df, axis.NewValue(0, 100, 0, 10, 2))
		require.NoError(t, inst.Run(ctx))
		assert.Empty(t, rec.Ops(), "forwarded primitives are not drawn on the source pane")
	}

	assert.True(t, fwd.Pending())
	assert.Zero(t, host.Repaints["main"])

	loop.Frame()
	assert.Equal(t, 1, host.Repaints["main"])
	assert.False(t, fwd.Pending())
	assert.Equal(t, 3, fwd.Len("main"))
	assert.Equal(t, ids, fwd.Scripts("main"))

	// replay onto the main pane
	ctx, rec := testContext(df, axis.NewValue(0, 100, 0, 10, 2))
	require.NoError(t, fwd.Render("main", draw.New(ctx)))
	assert.Equal(t, 6, rec.Count("Stroke"))
}

func TestForwarder_ReevaluationReplacesEntries(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	fwd := NewForwarder(host, loop, nil)

	inst := NewInstance("sub", Config{
		Name: "wrb",
		Role: core.RoleSecondary,
		Draw: func(out *Output) error {
			out.Main().Shape([]float64{1}, draw.Style{})
			return out.Main().HLine(draw.Num(5), draw.Style{})
		},
	}, loop, WithForwarder(fwd))

	df := testData(1)
	for i := 0; i < 5; i++ {
		ctx, _ := testContext(df, axis.NewValue(0, 100, 0, 10, 2))
		require.NoError(t, inst.Run(ctx))
	}
	assert.Equal(t, 2, fwd.Len("main"))

	inst.Dispose()
	assert.Zero(t, fwd.Len("main"))
	assert.Empty(t, fwd.Scripts("main"))
}

func TestForwarder_DisposeCancelsFlush(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	fwd := NewForwarder(host, loop, nil)

	require.NoError(t, fwd.Forward("a", "line", func(*draw.Drawer) error { return nil }))
	fwd.Dispose()
	loop.Frame()
	assert.Zero(t, host.Repaints["main"])
}

func TestForwarder_NoMainPane(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	host.Err = core.ErrNoMainPane
	fwd := NewForwarder(host, loop, nil)

	err := fwd.Forward("a", "line", func(*draw.Drawer) error { return nil })
	require.ErrorIs(t, err, core.ErrNoMainPane)
	assert.False(t, fwd.Pending())
}

func TestForwarder_RenderKeepsGoing(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	fwd := NewForwarder(host, loop, logger.NewNop())
	boom := errors.New("boom")

	calls := 0
	fwd.Forward("a", "line", func(*draw.Drawer) error { calls++; return boom })
	fwd.Forward("b", "line", func(*draw.Drawer) error { calls++; return nil })

	ctx, _ := testContext(testData(1), axis.NewValue(0, 100, 0, 10, 2))
	err := fwd.Render("main", draw.New(ctx))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestMainOutput_MainRoleDrawsDirectly(t *testing.T) {
	host, loop := NewMockHost(), schedule.NewLoop()
	fwd := NewForwarder(host, loop, nil)
	inst := NewInstance("main", Config{
		Name: "ema",
		Draw: func(out *Output) error { return out.Main().Line([]float64{1, 2}, draw.Style{}) },
	}, loop, WithForwarder(fwd))

	ctx, rec := testContext(testData(2), axis.NewValue(0, 100, 0, 10, 2))
	require.NoError(t, inst.Run(ctx))
	assert.Equal(t, 1, rec.Count("Stroke"))
	assert.Zero(t, fwd.Len("main"))
	assert.False(t, fwd.Pending())
}

func TestAutoRange_SingleRebuildPerPass(t *testing.T) {
	loop := schedule.NewLoop()
	y := axis.NewValue(0, 100, 0, 1, 2)
	inst := NewInstance("sub", Config{
		Name: "rsi",
		Role: core.RoleSecondary,
		Draw: func(out *Output) error {
			out.Line([]float64{40, 55, 70}, draw.Style{})
			out.Bar([]float64{45, 50, 60}, 42, draw.Style{})
			return out.Shape([]float64{30, 80, 65}, draw.Style{})
		},
	}, loop)
	inst.Attach(y, func(s string) float64 { return float64(len(s)) * 6 })

	ctx, _ := testContext(testData(3), y)
	require.NoError(t, inst.Run(ctx))

	microtasks, _ := loop.Pending()
	assert.Equal(t, 1, microtasks)

	loop.Drain()
	min, max := y.Range()
	assert.Equal(t, 30.0, min)
	assert.Equal(t, 80.0, max)
	assert.Equal(t, 1, inst.AutoRange().Rebuilds())
	assert.Equal(t, 30.0, y.LabelWidth())
}

func TestAutoRange_Override(t *testing.T) {
	loop := schedule.NewLoop()
	y := axis.NewValue(0, 100, 0, 1, 0)
	lo, hi := 0.0, 100.0

	inst := NewInstance("sub", Config{
		Name:     "rsi",
		Role:     core.RoleSecondary,
		Override: draw.Override{Min: &lo},
		Draw: func(out *Output) error {
			return out.Line([]float64{40, 70}, draw.Style{})
		},
	}, loop)
	inst.Attach(y, nil)

	ctx, _ := testContext(testData(2), y)
	require.NoError(t, inst.Run(ctx))
	loop.Drain()

	min, max := y.Range()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 70.0, max)

	// override only, nothing drawn
	inst.Override = draw.Override{Min: &lo, Max: &hi}
	inst.Attach(y, nil)
	inst.callback = func(*Output) error { return nil }
	require.NoError(t, inst.Run(ctx))
	loop.Drain()
	min, max = y.Range()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 100.0, max)
}

func TestAutoRange_NothingKnownLeavesAxis(t *testing.T) {
	loop := schedule.NewLoop()
	y := axis.NewValue(0, 100, 5, 6, 0)
	var live schedule.Liveness

	a := NewAutoRange(y, loop, &live, draw.Override{}, nil)
	a.Observe()
	loop.Drain()

	min, max := y.Range()
	assert.Equal(t, 5.0, min)
	assert.Equal(t, 6.0, max)
	assert.Zero(t, a.Rebuilds())
}

func TestAutoRange_SkippedAfterDispose(t *testing.T) {
	loop := schedule.NewLoop()
	y := axis.NewValue(0, 100, 0, 1, 0)
	inst := NewInstance("sub", Config{
		Name: "rsi",
		Role: core.RoleSecondary,
		Draw: func(out *Output) error { return out.Line([]float64{40, 70}, draw.Style{}) },
	}, loop)
	inst.Attach(y, nil)

	ctx, _ := testContext(testData(2), y)
	require.NoError(t, inst.Run(ctx))
	inst.Dispose()
	loop.Drain()

	min, max := y.Range()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)
	assert.Zero(t, inst.AutoRange().Rebuilds())
	assert.ErrorIs(t, inst.Run(ctx), core.ErrDisposed)
}

func TestInstance_MainRoleHasNoAutoRange(t *testing.T) {
	inst := NewInstance("main", Config{Name: "ema"}, schedule.NewLoop())
	inst.Attach(axis.NewValue(0, 100, 0, 1, 0), nil)
	assert.Nil(t, inst.AutoRange())
	assert.Nil(t, inst.State().Observe)
	assert.Len(t, inst.ID, 26)
}

func TestOutput_EventsToolsConsole(t *testing.T) {
	var records []event.Record
	inst := NewInstance("main", Config{
		Name: "cross",
		Draw: func(out *Output) error {
			out.Signal([]float64{1}, "golden cross")
			out.Signal([]float64{1}, "golden cross")
			out.OrderOpen(1.0, event.Order{Type: event.SideBuy, Num: 0})
			out.Tools("fast", []float64{1, 2, 3}, tooltip.Explicit(1))
			out.Print("bars", 3)
			out.Warn("slow")
			return nil
		},
	}, schedule.NewLoop(), WithEmitterOptions(event.WithSink(event.SinkFunc(func(r event.Record) {
		records = append(records, r)
	}))))

	df := testData(3)
	ctx, _ := testContext(df, axis.NewValue(0, 100, 0, 10, 2))
	require.NoError(t, inst.Run(ctx))

	require.Len(t, records, 1)
	assert.Equal(t, df.Time[2], records[0].BarTime)
	assert.Equal(t, inst.ID, records[0].Script)

	rows := inst.Tools().Rows(2, df)
	require.Len(t, rows, 1)
	assert.Equal(t, "3.0", rows[0].Value)

	msgs := inst.Console().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "bars 3", msgs[0].Text)
	assert.Equal(t, logger.WarnLevel, msgs[1].Level)
}

func TestInstance_CallbackError(t *testing.T) {
	boom := errors.New("boom")
	inst := NewInstance("main", Config{Name: "bad", Draw: func(*Output) error { return boom }}, schedule.NewLoop())

	ctx, _ := testContext(testData(1), axis.NewValue(0, 100, 0, 10, 2))
	require.ErrorIs(t, inst.Run(ctx), boom)
}

func TestInstance_CallbackPanic(t *testing.T) {
	inst := NewInstance("main", Config{Name: "bad", Draw: func(*Output) error { panic("exploded") }}, schedule.NewLoop())

	ctx, rec := testContext(testData(1), axis.NewValue(0, 100, 0, 10, 2))
	var err error
	require.NotPanics(t, func() { err = inst.Run(ctx) })
	require.ErrorContains(t, err, "exploded")
	assert.Zero(t, rec.Depth())
}

func TestConsole_Bounded(t *testing.T) {
	c := NewConsole(2)
	c.write(logger.InfoLevel, "a")
	c.write(logger.InfoLevel, "b")
	c.write(logger.InfoLevel, "c")

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Text)
}
