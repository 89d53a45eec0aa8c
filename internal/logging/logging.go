package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Debug mode gets a human console
// writer; anything else logs JSON lines.
func New(ginMode string) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if ginMode == "debug" {
		level = zerolog.DebugLevel
		console := zerolog.NewConsoleWriter()
		console.Out = os.Stdout
		console.TimeFormat = time.DateTime
		w = console
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
