package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/profile"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	bins       int
	lastBars   int
	samples    int
	confidence float64

	profileFlags bindings
)

func buildProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the volume profile of the data",
		RunE:  runProfile,
	}

	// Add flags
	flags := feedFlags(profileCmd)
	profileCmd.Flags().IntVarP(&bins, "bins", "b", 15, "Number of price bins")
	profileCmd.Flags().IntVar(&lastBars, "bars", 0, "Only the last bars (0 for every bar)")
	profileCmd.Flags().IntVar(&samples, "samples", 1000, "Bootstrap samples of the VWAP interval")
	profileCmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence of the VWAP interval")
	profileFlags = flags

	return profileCmd
}

func runProfile(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, profileFlags)
	if err != nil {
		return err
	}

	df, err := a.loadData()
	if err != nil {
		return err
	}

	r := core.Range{From: 0, To: df.Len()}
	if lastBars > 0 {
		r.From = df.Len() - lastBars
	}
	r = r.Clamp(df.Len())

	p, err := profile.Calculate(df, r, bins)
	if err != nil {
		return err
	}

	vwap, err := profile.VWAP(df, r)
	if err != nil {
		return err
	}
	interval, err := profile.VWAPInterval(df, r, samples, confidence)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	precision := df.PricePrecision
	fmt.Fprintf(out, "%s, %d bars, volume %s\n", df.Symbol, r.Len(), strconv.FormatFloat(p.Total, 'f', df.VolumePrecision, 64))
	fmt.Fprintf(out, "POC  %s\n", strconv.FormatFloat(p.POC, 'f', precision, 64))
	fmt.Fprintf(out, "VAH  %s\n", strconv.FormatFloat(p.VAH, 'f', precision, 64))
	fmt.Fprintf(out, "VAL  %s\n", strconv.FormatFloat(p.VAL, 'f', precision, 64))
	fmt.Fprintf(out, "VWAP %s (%.0f%%: %s - %s)\n\n",
		strconv.FormatFloat(vwap, 'f', precision, 64),
		confidence*100,
		strconv.FormatFloat(interval.Lower, 'f', precision, 64),
		strconv.FormatFloat(interval.Upper, 'f', precision, 64),
	)

	return printProfile(out, p, precision)
}

// printProfile prints the bins from the highest price down as a histogram
// of their volume
func printProfile(w io.Writer, p profile.Profile, precision int) error {
	hist := profileHistogram(p)
	return histogram.Fprintf(w, hist, histogram.Linear(40), func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	})
}

func profileHistogram(p profile.Profile) histogram.Histogram {
	hist := histogram.Histogram{Min: math.MaxInt, Buckets: make([]histogram.Bucket, 0, len(p.Bins))}
	for i := len(p.Bins) - 1; i >= 0; i-- {
		bin := p.Bins[i]
		count := int(math.Round(bin.Volume))
		hist.Buckets = append(hist.Buckets, histogram.Bucket{Count: count, Min: bin.Low, Max: bin.High})
		hist.Count += count
		hist.Min = min(hist.Min, count)
		hist.Max = max(hist.Max, count)
	}
	if len(hist.Buckets) == 0 {
		hist.Min = 0
	}
	return hist
}
