package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a logger configured from the given level and format.
// Format "console" produces human-readable output; anything else is JSON.
func New(level, format string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(lvl)

	if strings.ToLower(format) == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
