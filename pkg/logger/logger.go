package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New construye el logger raíz. LOG_FORMAT=console activa salida legible
// para desarrollo; por defecto se emite JSON.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if os.Getenv("LOG_FORMAT") == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
