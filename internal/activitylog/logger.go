// Package activitylog writes the daemon's structured JSON-lines log.
package activitylog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"zsh-infinite/internal/segment"
	"zsh-infinite/internal/version"
)

// Logger writes structured entries to the daemon log. All methods are safe
// for concurrent use. A disabled logger (see Nop) drops everything.
type Logger struct {
	zl    zerolog.Logger
	f     *os.File
	actor string
}

// New creates a Logger that appends to logPath. If enabled is false or the
// file cannot be opened, returns a no-op logger (safe to call methods on).
func New(enabled bool, logPath, actor string) *Logger {
	if !enabled {
		return Nop()
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Nop()
	}
	l := NewWriter(f, actor)
	l.f = f
	return l
}

// NewWriter creates a Logger writing to w.
func NewWriter(w io.Writer, actor string) *Logger {
	zl := zerolog.New(zerolog.SyncWriter(w)).With().
		Timestamp().
		Str("actor", actor).
		Logger()
	return &Logger{zl: zl, actor: actor}
}

// SetLevel drops entries below lvl. Request entries are debug level, so a
// daemon at the default level only records lifecycle events and failures.
func (l *Logger) SetLevel(lvl zerolog.Level) {
	l.zl = l.zl.Level(lvl)
}

// Nop returns a disabled logger. All methods are no-ops.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// DaemonStarted logs that the daemon is accepting connections.
func (l *Logger) DaemonStarted(pid int, socket string) {
	l.zl.Info().
		Str("event", "daemon_started").
		Int("pid", pid).
		Str("socket", socket).
		Str("version", version.Version).
		Send()
}

// DaemonStopped logs daemon shutdown.
func (l *Logger) DaemonStopped(reason string) {
	l.zl.Info().
		Str("event", "daemon_stopped").
		Str("reason", reason).
		Send()
}

// Request logs one served command.
func (l *Logger) Request(id string, cmd segment.Command, segments int, elapsed time.Duration) {
	l.zl.Debug().
		Str("event", "request").
		Str("request_id", id).
		Str("kind", string(cmd.Kind)).
		Str("dir", cmd.Dir).
		Int("segments", segments).
		Dur("elapsed", elapsed).
		Send()
}

// ConnError logs a connection that was aborted.
func (l *Logger) ConnError(id string, err error) {
	l.zl.Warn().
		Str("event", "conn_error").
		Str("request_id", id).
		Err(err).
		Send()
}

// AcceptError logs a failed accept on the listener.
func (l *Logger) AcceptError(err error) {
	l.zl.Error().
		Str("event", "accept_error").
		Err(err).
		Send()
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
