// Package logging defines the small logging interface used across the planner and a
// zerolog-backed implementation for the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the minimal leveled logger the core packages accept.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// ZeroLogger adapts a zerolog.Logger to Logger.
type ZeroLogger struct {
	log zerolog.Logger
}

// NewZeroLogger wraps an existing zerolog logger, tagging entries with the component name.
func NewZeroLogger(base zerolog.Logger, component string) *ZeroLogger {
	return &ZeroLogger{log: base.With().Str("component", component).Logger()}
}

// NewConsole builds a human-readable zerolog logger writing to w at the given level.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a settings string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (z *ZeroLogger) Debugf(format string, args ...any) {
	z.log.Debug().Msg(fmt.Sprintf(format, args...))
}

func (z *ZeroLogger) Infof(format string, args ...any) {
	z.log.Info().Msg(fmt.Sprintf(format, args...))
}

func (z *ZeroLogger) Warnf(format string, args ...any) {
	z.log.Warn().Msg(fmt.Sprintf(format, args...))
}

func (z *ZeroLogger) Errorf(format string, args ...any) {
	z.log.Error().Msg(fmt.Sprintf(format, args...))
}
