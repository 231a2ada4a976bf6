package indicator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/samber/lo"
)

var ErrUnknownIndicator = errors.New("unknown indicator")

// palette colors the lines of multi period indicators
var palette = []string{"#2962ff", "#ff9800", "#e91e63", "#00bcd4"}

// builder creates an indicator from its numeric arguments, defaults filled in
type builder struct {
	defaults []float64
	build    func(args []float64) plot.Indicator
}

var builders = map[string]builder{
	"sma": {[]float64{20}, averages(TypeSMA)},
	"ema": {[]float64{20}, averages(TypeEMA)},
	"wma": {[]float64{20}, averages(TypeWMA)},
	"rsi": {[]float64{14}, func(a []float64) plot.Indicator {
		return RSI(int(a[0]), palette[0])
	}},
	"macd": {[]float64{12, 26, 9}, func(a []float64) plot.Indicator {
		return MACD(int(a[0]), int(a[1]), int(a[2]), palette[0], palette[1])
	}},
	"volume": {[]float64{20}, func(a []float64) plot.Indicator {
		return Volume(int(a[0]), ColorUp, ColorDown)
	}},
	"wrb": {nil, func([]float64) plot.Indicator {
		return WideRangeBars(palette[1])
	}},
	"cross": {[]float64{9, 21, 1}, func(a []float64) plot.Indicator {
		return Crossover(int(a[0]), int(a[1]), a[2], palette[0], palette[1])
	}},
	"bb": {[]float64{20, 2}, func(a []float64) plot.Indicator {
		return Bollinger(int(a[0]), a[1], palette[3])
	}},
	"stoch": {[]float64{14, 3, 3}, func(a []float64) plot.Indicator {
		return Stoch(int(a[0]), int(a[1]), int(a[2]), palette[0], palette[1])
	}},
	"cci": {[]float64{20}, func(a []float64) plot.Indicator {
		return CCI(int(a[0]), palette[2])
	}},
	"supertrend": {[]float64{10, 3}, func(a []float64) plot.Indicator {
		return SuperTrend(int(a[0]), a[1])
	}},
}

func averages(maType MaType) func([]float64) plot.Indicator {
	return func(a []float64) plot.Indicator {
		periods := lo.Map(a, func(v float64, _ int) int { return int(v) })
		return MovingAverages(maType, periods, palette...)
	}
}

// Names returns the indicator names accepted by Parse
func Names() []string {
	names := lo.Keys(builders)
	slices.Sort(names)
	return names
}

// Parse builds an indicator from a "name" or "name:arg,arg" definition,
// e.g. "sma:9,21", "rsi:14" or "bb:20,2". Moving averages take any number
// of periods; other indicators fill missing arguments with their defaults.
func Parse(definition string) (plot.Indicator, error) {
	name, rawArgs, _ := strings.Cut(strings.TrimSpace(definition), ":")
	name = strings.ToLower(name)

	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}

	var args []float64
	if rawArgs != "" {
		for _, raw := range strings.Split(rawArgs, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("invalid argument %q for %s", raw, name)
			}
			args = append(args, v)
		}
	}

	if len(args) > len(b.defaults) && !strings.HasSuffix(name, "ma") {
		return nil, fmt.Errorf("%s takes at most %d arguments", name, len(b.defaults))
	}
	if len(args) < len(b.defaults) {
		args = append(args, b.defaults[len(args):]...)
	}

	return b.build(args), nil
}

// ParseAll builds every definition in order
func ParseAll(definitions []string) ([]plot.Indicator, error) {
	indicators := make([]plot.Indicator, 0, len(definitions))
	for _, definition := range definitions {
		ind, err := Parse(definition)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, ind)
	}
	return indicators, nil
}
