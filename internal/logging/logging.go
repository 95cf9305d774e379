package logging

import (
	"io"
	"log/slog"
	"os"

	"jobboard/internal/config"
)

// New returns a JSON logger for production and a text logger otherwise.
// A nil writer means stdout.
func New(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if env == config.EnvProduction {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
