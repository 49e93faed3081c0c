// Package log provides the structured, leveled logger threaded through
// the registry and service packages.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the vocabulary used at call sites throughout the registry
// and service packages.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a minimal structured logger. It exists so call sites never
// depend on zerolog directly, only on this interface.
type Logger interface {
	Log(level Level, msg string, keyvals ...any)
}

type zlogger struct {
	z zerolog.Logger
}

// New builds a Logger writing JSON lines to w.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	z := zerolog.New(w).With().Timestamp().Logger()
	return &zlogger{z: z}
}

// NewConsole builds a Logger writing human-readable lines, for local runs.
func NewConsole(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return &zlogger{z: zerolog.New(cw).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything, for tests.
func Nop() Logger {
	return &zlogger{z: zerolog.Nop()}
}

func (l *zlogger) Log(level Level, msg string, keyvals ...any) {
	var ev *zerolog.Event
	switch level {
	case LevelDebug:
		ev = l.z.Debug()
	case LevelInfo:
		ev = l.z.Info()
	case LevelWarn:
		ev = l.z.Warn()
	case LevelError:
		ev = l.z.Error()
	default:
		ev = l.z.Info()
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}
