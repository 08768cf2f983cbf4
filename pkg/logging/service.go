// Package logging provides JSON structured logging using zerolog
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

func init() {
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init reconfigures the global logger. An empty level keeps the default (info).
func Init(level string) error {
	parsed := zerolog.InfoLevel

	if level != "" {
		var err error

		parsed, err = zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
	}

	globalLogger = zerolog.New(os.Stdout).
		Level(parsed).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

func Fatal() *zerolog.Event {
	return globalLogger.Fatal()
}
