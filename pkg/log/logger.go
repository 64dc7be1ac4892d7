// Package log provides structured logging for experiment operations.
//
// Sessions carry an explicit *slog.Logger handle; there is no ambient
// package-level logger for experiment code. SetupLogger only configures the
// process default used by code without a session (init paths, warnings).
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
)

// SetupLogger configures the default slog logger with a JSON handler that
// knows how to extract cockroachdb/errors stack traces.
func SetupLogger(loglevel string) {
	slog.SetDefault(NewLogger(loglevel))
}

// NewLogger builds a structured JSON logger at the given level. Experiment
// sessions hold the returned handle explicitly.
func NewLogger(loglevel string) *slog.Logger {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	return slog.New(WrapByErrFmtHandler(handler))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// NewZerologWarnFunc returns a warning sink backed by a zerolog logger, for
// installation via errors.SetZerologWarnFunc. Warning types implementing
// zerolog.LogObjectMarshaler are logged structurally.
func NewZerologWarnFunc(zl zerolog.Logger) func(error) {
	return func(warning error) {
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().Object("warning", m).Msg(warning.Error())
			return
		}
		zl.Warn().Err(warning).Msg("warning")
	}
}
