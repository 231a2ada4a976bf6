// Package logrus adapts github.com/sirupsen/logrus to logger.Logger.
package logrus

import (
	"io"

	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/sirupsen/logrus"
)

type entry struct {
	logger.Leveled
	e *logrus.Entry
}

var _ logger.Logger = entry{}

type sink struct {
	e *logrus.Entry
}

// Emit logs without the exit or panic of the fatal and panic levels
func (s sink) Emit(level logger.Level, msg string) {
	switch level {
	case logger.Disabled:
		return
	case logger.FatalLevel, logger.PanicLevel:
		level = logger.ErrorLevel
	}
	s.e.Log(toLogrusLevel(level), msg)
}

func wrap(e *logrus.Entry) entry {
	return entry{Leveled: logger.Leveled{Sink: sink{e}}, e: e}
}

// New returns a logrus backed logger writing text (or JSON) entries to out
func New(out io.Writer, level string, jsonFormat bool) logger.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed := logger.ParseLevel(level)
	l.SetLevel(toLogrusLevel(parsed))
	if parsed == logger.Disabled {
		l.SetOutput(io.Discard)
	}
	return wrap(logrus.NewEntry(l))
}

// Wrap adapts an already configured logrus logger
func Wrap(l *logrus.Logger) logger.Logger {
	return wrap(logrus.NewEntry(l))
}

func (e entry) WithField(key string, value any) logger.Logger {
	return wrap(e.e.WithField(key, value))
}

func (e entry) WithFields(fields map[string]any) logger.Logger {
	return wrap(e.e.WithFields(logrus.Fields(fields)))
}

func (e entry) WithError(err error) logger.Logger {
	return wrap(e.e.WithError(err))
}

func (e entry) GetLevel() logger.Level {
	switch e.e.Logger.GetLevel() {
	case logrus.TraceLevel:
		return logger.TraceLevel
	case logrus.DebugLevel:
		return logger.DebugLevel
	case logrus.InfoLevel:
		return logger.InfoLevel
	case logrus.WarnLevel:
		return logger.WarnLevel
	case logrus.ErrorLevel:
		return logger.ErrorLevel
	case logrus.FatalLevel:
		return logger.FatalLevel
	case logrus.PanicLevel:
		return logger.PanicLevel
	}
	return logger.NoLevel
}

func toLogrusLevel(level logger.Level) logrus.Level {
	switch level {
	case logger.TraceLevel:
		return logrus.TraceLevel
	case logger.DebugLevel:
		return logrus.DebugLevel
	case logger.WarnLevel:
		return logrus.WarnLevel
	case logger.ErrorLevel:
		return logrus.ErrorLevel
	case logger.FatalLevel:
		return logrus.FatalLevel
	case logger.PanicLevel, logger.Disabled:
		return logrus.PanicLevel
	}
	return logrus.InfoLevel
}
