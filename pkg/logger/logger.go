// Package logger defines the logging contract shared by the runtime, the
// host chart and the command line tool.
package logger

import "fmt"

type Level int8

const (
	Disabled   Level = -1   // Disabled is used for disabled logging.
	TraceLevel Level = iota // TraceLevel is used for detailed debugging information.
	DebugLevel              // DebugLevel is used for debugging information.
	InfoLevel               // InfoLevel is used for informational messages.
	WarnLevel               // WarnLevel is used for warning messages.
	ErrorLevel              // ErrorLevel is used for error messages.
	FatalLevel              // FatalLevel is used for fatal messages that cause the program to exit.
	PanicLevel              // PanicLevel is used for panic messages that cause the program to panic.
	NoLevel                 // NoLevel is used for no logging level.
)

// ParseLevel maps a level name to a Level, InfoLevel when unknown
func ParseLevel(name string) Level {
	switch name {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	case "panic":
		return PanicLevel
	case "disabled", "off":
		return Disabled
	}
	return InfoLevel
}

// Logger is the structured logger handed to charts, scripts and the CLI
type Logger interface {
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithError(err error) Logger

	Log(level Level, args ...any)
	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	GetLevel() Level
}

// Sink writes one formatted message at a level. Backends implement it and
// embed Leveled to get the level methods of Logger.
type Sink interface {
	Emit(level Level, msg string)
}

// Leveled dispatches the level methods of Logger to a Sink
type Leveled struct {
	Sink
}

func (l Leveled) Log(level Level, args ...any) { l.Emit(level, fmt.Sprint(args...)) }
func (l Leveled) Trace(args ...any)            { l.Emit(TraceLevel, fmt.Sprint(args...)) }
func (l Leveled) Debug(args ...any)            { l.Emit(DebugLevel, fmt.Sprint(args...)) }
func (l Leveled) Info(args ...any)             { l.Emit(InfoLevel, fmt.Sprint(args...)) }
func (l Leveled) Warn(args ...any)             { l.Emit(WarnLevel, fmt.Sprint(args...)) }
func (l Leveled) Error(args ...any)            { l.Emit(ErrorLevel, fmt.Sprint(args...)) }
