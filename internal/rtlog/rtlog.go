// Package rtlog holds the single process-wide structured logger used by the
// interpreter, trace recorder and CLI, following the logging idiom shown by
// the pack's rex-style VM loop (one zerolog.Logger, level-gated debug lines
// per fetched instruction).
package rtlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

// Logger returns the process-wide logger.
func Logger() *zerolog.Logger { return &logger }

// SetLevel parses and applies a zerolog level name ("debug", "info",
// "warn", "error", "disabled"), falling back to InfoLevel on an
// unrecognized name.
func SetLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger = logger.Level(lvl)
}

// SetOutput redirects the logger's writer, used by tests that want to
// capture log output instead of writing to stderr.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}
