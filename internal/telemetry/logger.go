// Package telemetry wires up the ambient logging and metrics stack:
// structured, leveled logging via zerolog and a handful of
// prometheus/client_golang collectors for the orchestrator's queue and
// worker-pool state.
//
// Follows the same Level/Format split and component-tagged
// child-logger shape used elsewhere for structured logging, trimmed
// to what a daemon with one log sink actually uses (no Fatal-exits-
// the-process helper, since the orchestrator always wants to keep
// running and report an error instead).
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is the minimum severity a Logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the log sink's encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures the root Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a configured zerolog.Logger.
type Logger struct {
	z zerolog.Logger
}

// New builds the root logger for the process.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	var w io.Writer = out
	if cfg.Format == FormatText {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(cfg.Level))
	return &Logger{z: z}
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with a "component" field, the
// pattern every package in this module uses to identify its log lines
// (orchestrator, api, search, ...).
func (l *Logger) Component(name string) *Logger {
	return &Logger{z: l.z.With().Str("component", name).Logger()}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) { l.emit(l.z.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields map[string]interface{})  { l.emit(l.z.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]interface{})  { l.emit(l.z.Warn(), msg, fields) }
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	ev := l.z.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	l.emit(ev, msg, fields)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Zerolog exposes the underlying logger for callers (like gin's request
// logging middleware) that want direct access.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.z
}
