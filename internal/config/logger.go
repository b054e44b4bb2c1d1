package config

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger returns the diagnostic logger for CLI processes. It writes to w,
// human readable when w is a terminal and JSON lines otherwise.
func NewLogger(s Settings, w io.Writer) zerolog.Logger {
	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(s.LogLevel).With().Timestamp().Logger()
}
