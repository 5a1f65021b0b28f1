package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Dev gets human-readable console output,
// everything else gets JSON lines on stdout.
func New(env string) zerolog.Logger {
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
