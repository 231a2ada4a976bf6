package profile

import (
	"fmt"
	"sort"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap confidence interval
type Interval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// VWAP returns the volume weighted typical price of the bars in r
func VWAP(df *core.Dataframe, r core.Range) (float64, error) {
	prices, volumes := typicalPrices(df, r)
	if len(prices) == 0 {
		return 0, fmt.Errorf("vwap over %d bars: %w", r.Len(), core.ErrInsufficientData)
	}
	return stat.Mean(prices, volumes), nil
}

// VWAPInterval estimates the confidence interval of the VWAP by resampling
// the bars in r with replacement
func VWAPInterval(df *core.Dataframe, r core.Range, samples int, confidence float64) (Interval, error) {
	prices, volumes := typicalPrices(df, r)
	if len(prices) == 0 {
		return Interval{}, fmt.Errorf("vwap interval over %d bars: %w", r.Len(), core.ErrInsufficientData)
	}

	indexes := lo.Range(len(prices))
	return Bootstrap(indexes, func(pick []int) float64 {
		p := lo.Map(pick, func(i int, _ int) float64 { return prices[i] })
		w := lo.Map(pick, func(i int, _ int) float64 { return volumes[i] })
		return stat.Mean(p, w)
	}, samples, confidence), nil
}

// Bootstrap calculates the confidence interval of measure over samples
// resamplings of values
func Bootstrap[T any](values []T, measure func([]T) float64, samples int, confidence float64) Interval {
	if len(values) == 0 || samples <= 0 {
		return Interval{}
	}

	data := make([]float64, 0, samples)
	for i := 0; i < samples; i++ {
		pick := make([]T, len(values))
		for j := range pick {
			pick[j] = lo.Sample(values)
		}
		data = append(data, measure(pick))
	}

	tail := 1 - confidence
	sort.Float64s(data)

	mean, stdDev := stat.MeanStdDev(data, nil)
	return Interval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		StdDev: stdDev,
		Mean:   mean,
	}
}

func typicalPrices(df *core.Dataframe, r core.Range) ([]float64, []float64) {
	r = r.Clamp(df.Len())
	prices := make([]float64, 0, r.Len())
	volumes := make([]float64, 0, r.Len())
	for i := r.From; i < r.To; i++ {
		bar := df.Bar(i)
		v := core.At(df.Volume, i)
		if !bar.IsValid() || !core.Valid(v) || v <= 0 {
			continue
		}
		prices = append(prices, (bar.High+bar.Low+bar.Close)/3)
		volumes = append(volumes, v)
	}
	return prices, volumes
}
