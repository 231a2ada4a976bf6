// Package config loads the chartscript settings from an optional YAML file
// and CHARTSCRIPT_* environment variables using Viper
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/raykavin/chartscript/pkg/logger/logrus"
	"github.com/raykavin/chartscript/pkg/logger/zerolog"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	EnvPrefix = "CHARTSCRIPT"

	BackendZerolog = "zerolog"
	BackendLogrus  = "logrus"
)

// Config holds the application configuration
type Config struct {
	Log        LogConfig
	Render     RenderConfig
	Events     EventsConfig
	Feed       FeedConfig
	Indicators []string
}

// LogConfig selects the logging backend and its output
type LogConfig struct {
	Level   string
	Format  string // console or json
	Backend string // zerolog or logrus
	File    string
}

// RenderConfig holds the canvas size and the frame loop settings
type RenderConfig struct {
	Width     int
	Height    int
	MainShare float64
	Frames    int
	Interval  time.Duration
	Output    string
}

// EventsConfig holds the dedup settings and the journal location
type EventsConfig struct {
	Window   time.Duration
	Capacity int
	Journal  string
}

// FeedConfig describes the candle source
type FeedConfig struct {
	Symbol          string
	File            string
	SourceTimeframe string
	Timeframe       string
	Window          time.Duration
	HeikinAshi      bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.backend", BackendZerolog)
	v.SetDefault("log.file", "")

	v.SetDefault("render.width", 1024)
	v.SetDefault("render.height", 640)
	v.SetDefault("render.main_share", 0.6)
	v.SetDefault("render.frames", 1)
	v.SetDefault("render.interval", "16ms")
	v.SetDefault("render.output", "./frames")

	v.SetDefault("events.window", "1s")
	v.SetDefault("events.capacity", 100)
	v.SetDefault("events.journal", ":memory:")

	v.SetDefault("feed.symbol", "BTCUSDT")
	v.SetDefault("feed.file", "")
	v.SetDefault("feed.source_timeframe", "")
	v.SetDefault("feed.timeframe", "")
	v.SetDefault("feed.window", "")
	v.SetDefault("feed.heikin_ashi", false)

	v.SetDefault("indicators", []string{})
}

// New returns a Viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the configuration file at path (skipped when empty) and
// overlays the environment
func Load(path string) (*Config, error) {
	return Read(New(), path)
}

// Read is Load on a caller provided Viper instance, typically one with
// command line flags bound to it
func Read(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config out of an already populated Viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	interval, err := duration(v, "render.interval")
	if err != nil {
		return nil, err
	}

	window, err := duration(v, "events.window")
	if err != nil {
		return nil, err
	}

	feedWindow, err := duration(v, "feed.window")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Log: LogConfig{
			Level:   v.GetString("log.level"),
			Format:  v.GetString("log.format"),
			Backend: v.GetString("log.backend"),
			File:    v.GetString("log.file"),
		},
		Render: RenderConfig{
			Width:     v.GetInt("render.width"),
			Height:    v.GetInt("render.height"),
			MainShare: v.GetFloat64("render.main_share"),
			Frames:    v.GetInt("render.frames"),
			Interval:  interval,
			Output:    v.GetString("render.output"),
		},
		Events: EventsConfig{
			Window:   window,
			Capacity: v.GetInt("events.capacity"),
			Journal:  v.GetString("events.journal"),
		},
		Feed: FeedConfig{
			Symbol:          v.GetString("feed.symbol"),
			File:            v.GetString("feed.file"),
			SourceTimeframe: v.GetString("feed.source_timeframe"),
			Timeframe:       v.GetString("feed.timeframe"),
			Window:          feedWindow,
			HeikinAshi:      v.GetBool("feed.heikin_ashi"),
		},
		Indicators: v.GetStringSlice("indicators"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside the chart
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.MainShare <= 0 || c.Render.MainShare > 1 {
		return fmt.Errorf("invalid main pane share %v", c.Render.MainShare)
	}
	if c.Render.Frames < 1 {
		return fmt.Errorf("invalid frame count %d", c.Render.Frames)
	}
	if c.Events.Capacity < 1 {
		return fmt.Errorf("invalid dedup capacity %d", c.Events.Capacity)
	}
	switch c.Log.Backend {
	case BackendZerolog, BackendLogrus:
	default:
		return fmt.Errorf("unknown log backend %q", c.Log.Backend)
	}
	return nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// NewLogger builds the configured logger. The logrus backend writes to out,
// stdout when nil.
func NewLogger(cfg LogConfig, out io.Writer) (logger.Logger, error) {
	if cfg.Backend == BackendLogrus {
		if out == nil {
			out = os.Stdout
		}
		return logrus.New(out, cfg.Level, cfg.Format == "json"), nil
	}

	opts := zerolog.DefaultOptions()
	opts.Level = cfg.Level
	opts.JSON = cfg.Format == "json"
	opts.File = cfg.File

	log, err := zerolog.New(opts)
	if err != nil {
		return nil, err
	}
	return log, nil
}
