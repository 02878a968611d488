// Package logging sets up the debug log. The console draws the whole
// terminal, so logs go to a file in the state dir, never stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Open returns a logger writing to path, plus a close func. When debug is
// false the logger is a no-op and nothing is opened.
func Open(path string, debug bool) (zerolog.Logger, func(), error) {
	if !debug {
		return zerolog.Nop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil //nolint:errcheck // best-effort close
}
