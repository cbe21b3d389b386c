package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "chatlist-server"

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the process-wide logger. Before New runs it is a
// console logger at info level, which is what tests and early startup
// paths (env loading, config parsing) get.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		globalLogger = build(os.Stdout, zerolog.InfoLevel, true)
	})
	return globalLogger
}

// New configures the global logger from LOG_LEVEL / LOG_FORMAT and
// returns it. Format is "console" for development and "json" for
// anything that ships logs.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var console bool
	switch strings.ToLower(format) {
	case "json":
		console = false
	case "console":
		console = true
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q (want console or json)", format)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = build(os.Stdout, lvl, console)
	return globalLogger, nil
}

// build assembles a logger on the given writer. Durations are emitted
// in milliseconds: the dominant duration fields here are per-model
// call latencies, and fractions of a second are noise at that scale.
func build(out io.Writer, lvl zerolog.Level, console bool) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	if console {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
