// Package feed loads OHLCV candles from CSV files into dataframes.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/samber/lo"
	"github.com/xhit/go-str2duration/v2"
)

var (
	ErrEmptyFeed = errors.New("empty feed")

	defaultHeaderMap = map[string]int{
		"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
	}
)

// Source describes a CSV file of one symbol
type Source struct {
	Symbol    string
	File      string
	Timeframe string
	// HeikinAshi converts the candles once resampled
	HeikinAshi bool
}

// parseHeaders returns the column of every field. A first row starting with
// a number is data, laid out in the default order.
func parseHeaders(headers []string) (headerMap map[string]int, hasCustomHeaders bool) {
	if _, err := strconv.ParseInt(headers[0], 10, 64); err == nil {
		return defaultHeaderMap, false
	}

	headerMap = make(map[string]int, len(headers))
	for index, header := range headers {
		headerMap[header] = index
	}
	for field := range defaultHeaderMap {
		if _, ok := headerMap[field]; !ok {
			return defaultHeaderMap, false
		}
	}
	return headerMap, true
}

// ReadCSV reads candles from r
func ReadCSV(r io.Reader) ([]core.Candle, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyFeed
	}

	headerMap, hasCustomHeaders := parseHeaders(lines[0])
	if hasCustomHeaders {
		lines = lines[1:] // Skip the header row
	}

	candles := make([]core.Candle, 0, len(lines))
	for n, line := range lines {
		candle, err := parseCandle(line, headerMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// LoadCSV reads the candles of src
func LoadCSV(src Source) ([]core.Candle, error) {
	file, err := os.Open(src.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func parseTime(value string) (time.Time, error) {
	if timestamp, err := strconv.ParseInt(value, 10, 64); err == nil {
		// millisecond timestamps
		if timestamp > 1e12 {
			return time.UnixMilli(timestamp).UTC(), nil
		}
		return time.Unix(timestamp, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseCandle(line []string, headerMap map[string]int) (core.Candle, error) {
	field := func(name string) (string, error) {
		i := headerMap[name]
		if i >= len(line) {
			return "", fmt.Errorf("missing %s column", name)
		}
		return line[i], nil
	}

	value, err := field("time")
	if err != nil {
		return core.Candle{}, err
	}
	candle := core.Candle{}
	if candle.Time, err = parseTime(value); err != nil {
		return core.Candle{}, err
	}

	for name, target := range map[string]*float64{
		"open": &candle.Open, "close": &candle.Close, "low": &candle.Low, "high": &candle.High, "volume": &candle.Volume,
	} {
		value, err := field(name)
		if err != nil {
			return core.Candle{}, err
		}
		if *target, err = strconv.ParseFloat(value, 64); err != nil {
			return core.Candle{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return candle, nil
}

// period returns the start of the target period holding t
func period(t time.Time, target time.Duration) time.Time {
	// weeks start on sunday
	if target == 7*24*time.Hour {
		day := t.Truncate(24 * time.Hour)
		return day.AddDate(0, 0, -int(day.Weekday()))
	}
	return t.Truncate(target)
}

// Resample groups candles of the source timeframe into the target one.
// The last period is dropped when incomplete.
func Resample(candles []core.Candle, sourceTimeframe, targetTimeframe string) ([]core.Candle, error) {
	if sourceTimeframe == targetTimeframe || len(candles) == 0 {
		return candles, nil
	}

	source, err := str2duration.ParseDuration(sourceTimeframe)
	if err != nil {
		return nil, fmt.Errorf("invalid timeframe %q: %w", sourceTimeframe, err)
	}
	target, err := str2duration.ParseDuration(targetTimeframe)
	if err != nil {
		return nil, fmt.Errorf("invalid timeframe %q: %w", targetTimeframe, err)
	}
	if target < source {
		return nil, fmt.Errorf("cannot resample %s to %s", sourceTimeframe, targetTimeframe)
	}

	targetCandles := make([]core.Candle, 0, len(candles)/int(target/source)+1)

	var current core.Candle
	var start time.Time
	inPeriod := false

	for _, candle := range candles {
		p := period(candle.Time, target)
		if inPeriod && !p.Equal(start) {
			targetCandles = append(targetCandles, current)
			inPeriod = false
		}

		// Start a new period
		if !inPeriod {
			current, start, inPeriod = candle, p, true
			current.Time = p
			continue
		}

		current.High = math.Max(current.High, candle.High)
		current.Low = math.Min(current.Low, candle.Low)
		current.Close = candle.Close
		current.Volume += candle.Volume
	}

	last := candles[len(candles)-1].Time.Add(source)
	if inPeriod && !last.Before(start.Add(target)) {
		targetCandles = append(targetCandles, current)
	}
	return targetCandles, nil
}

// Limit keeps the candles within duration of the last one
func Limit(candles []core.Candle, duration time.Duration) []core.Candle {
	if len(candles) == 0 || duration <= 0 {
		return candles
	}

	start := candles[len(candles)-1].Time.Add(-duration)
	return lo.Filter(candles, func(candle core.Candle, _ int) bool {
		return candle.Time.After(start)
	})
}

// Precision returns the largest number of decimals of prices and volumes
func Precision(candles []core.Candle) (price, volume int) {
	if len(candles) == 0 {
		return 2, 0
	}

	price = int(lo.Max(lo.FlatMap(candles, func(c core.Candle, _ int) []int64 {
		return []int64{core.NumDecPlaces(c.Open), core.NumDecPlaces(c.High), core.NumDecPlaces(c.Low), core.NumDecPlaces(c.Close)}
	})))
	volume = int(lo.Max(lo.Map(candles, func(c core.Candle, _ int) int64 {
		return core.NumDecPlaces(c.Volume)
	})))
	return max(price, 2), volume
}

// Load reads src, resamples it to timeframe and keeps the last window of
// it. An empty timeframe keeps the source one, a zero window every candle.
func Load(src Source, timeframe string, window time.Duration) (*core.Dataframe, error) {
	candles, err := LoadCSV(src)
	if err != nil {
		return nil, err
	}

	if timeframe != "" && src.Timeframe == "" && len(candles) > 1 {
		src.Timeframe = candles[1].Time.Sub(candles[0].Time).String()
	}
	if timeframe != "" {
		if candles, err = Resample(candles, src.Timeframe, timeframe); err != nil {
			return nil, err
		}
	}
	if src.HeikinAshi {
		candles = HeikinAshi(candles)
	}
	candles = Limit(candles, window)
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFeed, src.File)
	}

	df := core.NewDataframe(src.Symbol, candles...)
	df.PricePrecision, df.VolumePrecision = Precision(candles)
	return df, nil
}
