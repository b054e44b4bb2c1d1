// Package daemon runs the segment daemon: the socket server, the client used
// by the prompt, and the start/stop/restart lifecycle around a PID file.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"zsh-infinite/internal/activitylog"
	"zsh-infinite/internal/segment"
	"zsh-infinite/internal/socketdir"
)

// StartTimeout is how long Start waits for the forked daemon to answer.
const StartTimeout = 5 * time.Second

// signalProcess delivers sig to pid. Exposed as a variable so tests can
// override it.
var signalProcess = func(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Manager owns the daemon lifecycle for one set of paths.
type Manager struct {
	Paths socketdir.Paths
	// Executable is the binary re-executed with the hidden _daemon command.
	// Empty means os.Executable().
	Executable string
	Exec       segment.Executor
	Log        zerolog.Logger
}

// NewManager returns a manager for the resolved per-user paths.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Paths: socketdir.Resolve(), Exec: segment.Builtin, Log: log}
}

// StartResult describes a successful Start.
type StartResult struct {
	PID int
	// PIDFileExisted is set when a PID file was present before starting,
	// which usually means a daemon is already running.
	PIDFileExisted bool
}

// Start forks a detached daemon process and waits until its socket answers.
// A second daemon started against a live one fails at bind time and is
// reported here as an early exit.
func (m *Manager) Start(ctx context.Context) (StartResult, error) {
	var res StartResult
	if _, err := os.Stat(m.Paths.PID); err == nil {
		res.PIDFileExisted = true
		m.Log.Warn().Str("pid_file", m.Paths.PID).Msg("PID file exists, a daemon may already be running")
	}
	client := NewClient(m.Paths.Socket)
	if client.Ping(ctx) {
		return res, fmt.Errorf("%w (socket %s)", ErrAlreadyRunning, m.Paths.Socket)
	}

	exe := m.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return res, fmt.Errorf("find executable: %w", err)
		}
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return res, fmt.Errorf("open /dev/null: %w", err)
	}
	defer devNull.Close()

	logFile, err := os.OpenFile(m.Paths.Log, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return res, fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, "_daemon")
	cmd.SysProcAttr = NewSysProcAttr()
	cmd.Dir = "/"
	cmd.Stdin = devNull
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("start daemon: %w", err)
	}
	res.PID = cmd.Process.Pid

	// Don't wait for the daemon - it runs independently. Wait only reaps it
	// and tells the startup poll about an early exit.
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	deadline := time.NewTimer(StartTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case err := <-exited:
			if err == nil {
				err = errors.New("exit status 0")
			}
			return res, fmt.Errorf("daemon exited during startup: %v (see %s)", err, m.Paths.Log)
		case <-deadline.C:
			return res, fmt.Errorf("daemon did not start (socket %s not answering)", m.Paths.Socket)
		case <-ctx.Done():
			return res, ctx.Err()
		case <-tick.C:
			if client.Ping(ctx) {
				m.Log.Info().Int("pid", res.PID).Msg("daemon started")
				return res, nil
			}
		}
	}
}

// RunDaemon is the daemon side of Start (and of "daemon start --foreground").
// It binds the socket, records its PID and serves until ctx is cancelled or
// the process receives SIGTERM or SIGINT. A bind failure is returned before
// the PID file is touched, so a live daemon's PID file survives a second
// start.
func (m *Manager) RunDaemon(ctx context.Context) error {
	syscall.Umask(0o077)

	ln, err := Listen(m.Paths.Socket)
	if err != nil {
		return err
	}

	pid := os.Getpid()
	if err := writePIDFile(m.Paths.PID, pid); err != nil {
		ln.Close()
		return err
	}
	defer removePIDFileIfOwned(m.Paths.PID, pid)

	alog := activitylog.New(true, m.Paths.Log, "daemon")
	defer alog.Close()
	alog.SetLevel(daemonLogLevel(m.Log.GetLevel()))
	alog.DaemonStarted(pid, m.Paths.Socket)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := &Server{Exec: m.Exec, Log: alog}
	err = srv.Serve(ctx, ln)
	if err != nil {
		alog.DaemonStopped(err.Error())
		return err
	}
	alog.DaemonStopped("signal")
	return nil
}

// daemonLogLevel is the configured level, lowered to info so start and stop
// are always recorded.
func daemonLogLevel(lvl zerolog.Level) zerolog.Level {
	if lvl > zerolog.InfoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// StopResult describes what Stop did.
type StopResult struct {
	// Running is false when there was no usable PID file.
	Running bool
	PID     int
	// SignalErr is the SIGTERM delivery error, if any. Files are removed
	// regardless.
	SignalErr error
}

// Stop sends SIGTERM to the recorded daemon and removes the PID and socket
// files unconditionally. A missing or unparseable PID file is not an error.
func (m *Manager) Stop() (StopResult, error) {
	pid, err := readPIDFile(m.Paths.PID)
	if err != nil {
		return StopResult{}, nil
	}

	res := StopResult{Running: true, PID: pid}
	if err := signalProcess(pid, syscall.SIGTERM); err != nil {
		res.SignalErr = err
		m.Log.Warn().Err(err).Int("pid", pid).Msg("failed to signal daemon")
	}

	for _, p := range []string{m.Paths.PID, m.Paths.Socket} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return res, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return res, nil
}

// Restart stops then starts the daemon. There is no barrier between the two:
// the old process may still hold the socket briefly.
func (m *Manager) Restart(ctx context.Context) (StopResult, StartResult, error) {
	stopped, err := m.Stop()
	if err != nil {
		return stopped, StartResult{}, err
	}
	started, err := m.Start(ctx)
	return stopped, started, err
}

// Status is a snapshot of the daemon's observable state.
type Status struct {
	PID       int  // 0 when there is no readable PID file
	Alive     bool // the recorded process exists
	Answering bool // the socket accepts connections
}

// Status inspects the PID file, the process and the socket.
func (m *Manager) Status(ctx context.Context) Status {
	var st Status
	if pid, err := readPIDFile(m.Paths.PID); err == nil {
		st.PID = pid
		st.Alive = signalProcess(pid, 0) == nil
	}
	st.Answering = NewClient(m.Paths.Socket).Ping(ctx)
	return st
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse PID file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("parse PID file: invalid pid %d", pid)
	}
	return pid, nil
}

func writePIDFile(path string, pid int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// removePIDFileIfOwned removes path only while it still names pid, so a
// daemon shutting down late does not delete its successor's PID file.
func removePIDFileIfOwned(path string, pid int) {
	if cur, err := readPIDFile(path); err == nil && cur == pid {
		os.Remove(path)
	}
}
