package main

import (
	"log/slog"

	"github.com/aretw0/damascout/internal/logging"
)

func main() {
	// Library fallbacks to slog.Default stay on stderr with standard keys.
	slog.SetDefault(logging.New(slog.LevelWarn))
	Execute()
}
