package zerolog

import (
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through logger.Logger
type Adapter struct {
	logger.Leveled
	zl zerolog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

type sink struct {
	zl zerolog.Logger
}

func (s sink) Emit(level logger.Level, msg string) {
	s.zl.WithLevel(zerologLevels[level]).Msg(msg)
}

// NewAdapter wraps an existing zerolog logger
func NewAdapter(zl zerolog.Logger) *Adapter {
	return &Adapter{Leveled: logger.Leveled{Sink: sink{zl}}, zl: zl}
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	return NewAdapter(a.zl.With().Interface(key, value).Logger())
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return NewAdapter(a.zl.With().Fields(fields).Logger())
}

func (a *Adapter) WithError(err error) logger.Logger {
	return NewAdapter(a.zl.With().Err(err).Logger())
}

// GetLevel returns the effective level, the stricter of the logger level
// and the zerolog global level
func (a *Adapter) GetLevel() logger.Level {
	level := max(a.zl.GetLevel(), zerolog.GlobalLevel())
	for l, zl := range zerologLevels {
		if zl == level {
			return l
		}
	}
	return logger.NoLevel
}

var zerologLevels = map[logger.Level]zerolog.Level{
	logger.Disabled:   zerolog.Disabled,
	logger.TraceLevel: zerolog.TraceLevel,
	logger.DebugLevel: zerolog.DebugLevel,
	logger.InfoLevel:  zerolog.InfoLevel,
	logger.WarnLevel:  zerolog.WarnLevel,
	logger.ErrorLevel: zerolog.ErrorLevel,
	logger.FatalLevel: zerolog.FatalLevel,
	logger.PanicLevel: zerolog.PanicLevel,
	logger.NoLevel:    zerolog.NoLevel,
}
