// Package logging configures the zerolog logger shared by the console components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewLogger() *zerolog.Logger {
	return NewLoggerWithLevel(zerolog.InfoLevel)
}

// NewLoggerWithLevel builds a console logger writing to stderr and installs it as the
// global logger.
func NewLoggerWithLevel(level zerolog.Level) *zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}, level)
}

func newLogger(out io.Writer, level zerolog.Level) *zerolog.Logger {
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return &logger
}

// ParseLevel maps a configured level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}
