package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/profile"
	"github.com/raykavin/chartscript/pkg/tooltip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled just
// before the test's Cleanup-registered functions run
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// writeCSV writes n hourly candles oscillating around 100 in the default
// time,open,close,low,high,volume layout
func writeCSV(t *testing.T, n int) string {
	t.Helper()

	var b strings.Builder
	for i := 0; i < n; i++ {
		open := 100 + float64(i%7)
		last := open + 2
		if i%3 == 0 {
			last = open - 3
		}
		fmt.Fprintf(&b, "%d,%.2f,%.2f,%.2f,%.2f,%d\n",
			start.Add(time.Duration(i)*time.Hour).Unix(),
			open, last, min(open, last)-1, max(open, last)+1, 10+i)
	}

	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHARTSCRIPT_LOG_LEVEL", "error")
	t.Setenv("CHARTSCRIPT_LOG_BACKEND", "logrus")

	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderAndEvents(t *testing.T) {
	input := writeCSV(t, 40)
	dir := t.TempDir()
	journal := filepath.Join(dir, "events.db")
	frames := filepath.Join(dir, "frames")

	_, err := execute(t, "render",
		"-i", input, "-o", frames, "-f", "3", "-j", journal,
		"-n", "sma:5,10", "-n", "cross:3,5", "-n", "rsi:5",
		"--width", "320", "--height", "200", "--profile", "--highlight", "10",
	)
	require.NoError(t, err)

	for n := 0; n < 3; n++ {
		assert.FileExists(t, filepath.Join(frames, fmt.Sprintf("frame-%04d.png", n)))
	}
	assert.NoFileExists(t, filepath.Join(frames, "frame-0003.png"))

	out, err := execute(t, "events", "-j", journal)
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")
}

func TestRender_UnknownIndicator(t *testing.T) {
	input := writeCSV(t, 10)

	_, err := execute(t, "render", "-i", input, "-o", t.TempDir(), "-n", "ichimoku")
	require.ErrorContains(t, err, "unknown indicator")
}

func TestRender_NoInput(t *testing.T) {
	_, err := execute(t, "render", "-o", t.TempDir())
	require.ErrorContains(t, err, "no input file")
}

func TestProfile(t *testing.T) {
	input := writeCSV(t, 30)

	out, err := execute(t, "profile", "-i", input, "-b", "5", "--samples", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "POC")
	assert.Contains(t, out, "VAH")
	assert.Contains(t, out, "VWAP")
}

func TestTools(t *testing.T) {
	input := writeCSV(t, 30)

	out, err := execute(t, "tools", "-i", input, "-n", "rsi:5", "--bar=-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Close")
	assert.Contains(t, out, "RSI(5)")

	_, err = execute(t, "tools", "-i", input, "--bar=30")
	require.ErrorContains(t, err, "out of range")
}

func TestSplit(t *testing.T) {
	df := core.NewDataframe("TEST")
	for i := 0; i < 5; i++ {
		df.Append(core.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: 1, High: 2, Low: 0, Close: 1, Volume: 1})
	}
	df.PricePrecision = 4

	seed, rest := split(df, 3)
	assert.Equal(t, 3, seed.Len())
	assert.Equal(t, 4, seed.PricePrecision)
	require.Len(t, rest, 2)
	assert.Equal(t, start.Add(3*time.Hour), rest[0].Time)
}

func TestPlay(t *testing.T) {
	df := core.NewDataframe("TEST",
		core.Candle{Time: start, Open: 1, High: 2, Low: 0, Close: 1, Volume: 1},
	)
	chart, err := plot.NewChart(nil, plot.WithDataframe(df))
	require.NoError(t, err)

	candles := []core.Candle{
		{Time: start.Add(time.Hour), Open: 1, High: 2, Low: 0, Close: 2, Volume: 1},
		{Time: start.Add(2 * time.Hour), Open: 2, High: 3, Low: 1, Close: 3, Volume: 1},
	}

	var seen []int
	err = play(testContext(t), chart, candles, time.Millisecond, func(n int) error {
		seen = append(seen, chart.Dataframe().Len())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)

	err = play(testContext(t), chart, nil, time.Millisecond, func(int) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
}

func TestEventsTable(t *testing.T) {
	out := eventsTable([]event.Record{{
		Kind:     event.KindSignal,
		Tag:      "signal:wrb",
		Script:   "WRB",
		Symbol:   "BTCUSDT",
		BarTime:  start,
		WallTime: start.Add(time.Minute),
	}})

	assert.Contains(t, out, "signal:wrb")
	assert.Contains(t, out, "2024-05-01 00:00:00")
	assert.Contains(t, out, "BTCUSDT")
}

func TestToolsTable(t *testing.T) {
	out := toolsTable([]plot.TooltipRow{
		{Pane: "main", Row: tooltip.Row{Label: "Close", Value: "101.50"}},
		{Pane: "pane-1", Script: "RSI(14)", Row: tooltip.Row{Label: "RSI", Value: "55.10"}},
	})

	assert.Contains(t, out, "101.50")
	assert.Contains(t, out, "RSI(14)")
}

func TestProfileHistogram(t *testing.T) {
	p := profile.Profile{Bins: []profile.Bin{
		{Low: 1, High: 2, Volume: 4},
		{Low: 2, High: 3, Volume: 10.4},
		{Low: 3, High: 4, Volume: 0},
	}}

	hist := profileHistogram(p)
	require.Len(t, hist.Buckets, 3)
	assert.Equal(t, 3.0, hist.Buckets[0].Min)
	assert.Equal(t, 10, hist.Buckets[1].Count)
	assert.Equal(t, 14, hist.Count)
	assert.Equal(t, 0, hist.Min)
	assert.Equal(t, 10, hist.Max)
}
