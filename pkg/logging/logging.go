// Package logging builds the zerolog logger used for diagnostics.
// User-facing status lines are printed by the repl package, not logged.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/soypete/employee-tracker/pkg/config"
)

// New returns a logger for cfg and a close func for any file it opened.
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		w       io.Writer
		closeFn = func() error { return nil }
	)

	if cfg.File == "" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(level)

	return logger, closeFn, nil
}
