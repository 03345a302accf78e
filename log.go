package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger = newLogger(os.Stderr, false)

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(level)
}

// SetupLogger replaces the package logger.
func SetupLogger(w io.Writer, verbose bool) {
	logger = newLogger(w, verbose)
}

// Verbose output if wanted
func Verbose(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// Info emits a progress message.
func Info(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

// Warn emits a warning.
func Warn(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}
