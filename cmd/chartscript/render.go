package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/indicator"
	"github.com/raykavin/chartscript/pkg/overlay"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/profile"
	"github.com/raykavin/chartscript/pkg/storage"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	showProfile  bool
	profileBins  int
	highlightBar int

	renderFlags bindings
)

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart and its indicators to PNG frames",
		Long: "Render draws the chart with its indicators into PNG files. With more than one\n" +
			"frame the last candles are replayed one per frame, paced by render.interval.",
		RunE: runRender,
	}

	// Add flags
	flags := feedFlags(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Output directory for the frames")
	renderCmd.Flags().IntP("frames", "f", 1, "Number of frames, replaying the last candles")
	renderCmd.Flags().Int("width", 0, "Canvas width")
	renderCmd.Flags().Int("height", 0, "Canvas height")
	renderCmd.Flags().StringP("journal", "j", "", "Event journal file")
	renderCmd.Flags().BoolVar(&showProfile, "profile", false, "Draw the volume profile sidebar")
	renderCmd.Flags().IntVar(&profileBins, "bins", 24, "Volume profile bins")
	renderCmd.Flags().IntVar(&highlightBar, "highlight", -1, "Highlight the bar at this index")

	renderFlags = merge(flags, bindings{
		"render.output":  "output",
		"render.frames":  "frames",
		"render.width":   "width",
		"render.height":  "height",
		"events.journal": "journal",
	})

	return renderCmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, renderFlags)
	if err != nil {
		return err
	}

	df, err := a.loadData()
	if err != nil {
		return err
	}

	indicators, err := indicator.ParseAll(a.cfg.Indicators)
	if err != nil {
		return err
	}

	journal, err := storage.NewJournal(a.cfg.Events.Journal, storage.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer journal.Close()

	// Log every event as it is emitted
	events := event.NewFeed()
	events.Subscribe(func(r event.Record) {
		a.log.WithFields(map[string]any{
			"kind":   r.Kind,
			"script": r.Script,
			"tag":    r.Tag,
			"bar":    r.BarTime,
		}).Info("event")
	})
	events.Start()
	defer events.Stop()

	// The chart starts frames-1 candles short and receives them one by one
	frames := min(a.cfg.Render.Frames, df.Len())
	seed, replay := split(df, df.Len()-frames+1)

	chart, err := newChart(a, seed, indicators, journal, events)
	if err != nil {
		return err
	}
	defer chart.Dispose()

	if err := addOverlays(chart, df); err != nil {
		return err
	}

	if err := os.MkdirAll(a.cfg.Render.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bar := progressbar.Default(int64(frames), "rendering")
	err = play(cmd.Context(), chart, replay, a.cfg.Render.Interval, func(n int) error {
		raster := surface.NewRaster(a.cfg.Render.Width, a.cfg.Render.Height, surface.Color(plot.DefaultTheme.Background))
		if err := chart.Render(raster); err != nil {
			a.log.WithError(err).Warn("frame rendered with script errors")
		}

		path := filepath.Join(a.cfg.Render.Output, fmt.Sprintf("frame-%04d.png", n))
		if err := raster.SavePNG(path); err != nil {
			return err
		}
		return bar.Add(1)
	})
	if err != nil {
		return err
	}

	total, err := journal.Len()
	if err != nil {
		return err
	}
	a.log.WithFields(map[string]any{
		"frames": frames,
		"output": a.cfg.Render.Output,
		"events": total,
	}).Info("render finished")
	return nil
}

// newChart builds a chart over df sending the script events to sinks
func newChart(a *app, df *core.Dataframe, indicators []plot.Indicator, sinks ...event.Sink) (*plot.Chart, error) {
	emitterOptions := []event.EmitterOption{
		event.WithWindow(a.cfg.Events.Window),
		event.WithCapacity(a.cfg.Events.Capacity),
		event.WithLogger(a.log),
	}
	for _, sink := range sinks {
		emitterOptions = append(emitterOptions, event.WithSink(sink))
	}

	return plot.NewChart(a.log,
		plot.WithSize(a.cfg.Render.Width, a.cfg.Render.Height),
		plot.WithMainShare(a.cfg.Render.MainShare),
		plot.WithDataframe(df),
		plot.WithEmitterOptions(emitterOptions...),
		plot.WithCustomIndicators(indicators...),
	)
}

// addOverlays adds the overlays requested on the command line
func addOverlays(chart *plot.Chart, df *core.Dataframe) error {
	templates := overlay.Default()

	if showProfile {
		p, err := profile.Calculate(df, core.Range{From: 0, To: df.Len()}, profileBins)
		if err != nil {
			return err
		}
		o, err := templates.New(overlay.NameProfile, p, overlay.Anchor{Index: 0, Value: p.POC})
		if err != nil {
			return err
		}
		chart.AddOverlay(o)
	}

	if highlightBar >= 0 {
		if highlightBar >= df.Len() {
			return fmt.Errorf("highlight bar %d out of range [0, %d)", highlightBar, df.Len())
		}
		o, err := templates.New(overlay.NameHighlight, overlay.DefaultHighlightColor,
			overlay.Anchor{Index: highlightBar, Value: df.Close[highlightBar]})
		if err != nil {
			return err
		}
		chart.AddOverlay(o)
	}
	return nil
}

// split returns a dataframe with the first n candles of df and the remaining
// candles
func split(df *core.Dataframe, n int) (*core.Dataframe, []core.Candle) {
	seed := core.NewDataframe(df.Symbol)
	seed.PricePrecision, seed.VolumePrecision = df.PricePrecision, df.VolumePrecision

	var rest []core.Candle
	for i := 0; i < df.Len(); i++ {
		candle, _ := df.Candle(i)
		if i < n {
			seed.Append(candle)
		} else {
			rest = append(rest, candle)
		}
	}
	return seed, rest
}

// play drives the frames through the chart loop: each display frame renders
// the chart then feeds the next candle, until every candle is drawn
func play(ctx context.Context, chart *plot.Chart, candles []core.Candle, interval time.Duration, frame func(n int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if interval <= 0 {
		interval = time.Millisecond
	}

	var (
		n      int
		result error
		step   func()
	)
	step = func() {
		if err := frame(n); err != nil {
			result = err
			cancel()
			return
		}
		if n >= len(candles) {
			cancel()
			return
		}
		chart.OnCandle(candles[n])
		n++
		chart.Loop().RequestFrame(step)
	}
	chart.Loop().RequestFrame(step)

	if err := chart.Loop().Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return result
}
