package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"zsh-infinite/internal/activitylog"
	"zsh-infinite/internal/message"
	"zsh-infinite/internal/segment"
)

// ErrAlreadyRunning is returned by Listen when another daemon answers on the
// socket path.
var ErrAlreadyRunning = errors.New("daemon is already running")

// ConnTimeout bounds the whole exchange on one server-side connection.
const ConnTimeout = 5 * time.Second

// Server answers segment commands on a Unix socket.
type Server struct {
	Exec segment.Executor
	Log  *activitylog.Logger

	wg sync.WaitGroup
}

// Listen binds the socket at path. A live daemon on the same path makes it
// fail with ErrAlreadyRunning; a stale socket file is removed first.
func Listen(path string) (net.Listener, error) {
	if _, err := os.Stat(path); err == nil {
		conn, err := net.DialTimeout("unix", path, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil, fmt.Errorf("%w (socket %s)", ErrAlreadyRunning, path)
		}
		os.Remove(path)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	return ln, nil
}

// Serve accepts connections until ctx is cancelled, then closes ln, removes
// the socket file and waits for in-flight connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.Exec == nil {
		s.Exec = segment.Builtin
	}
	if s.Log == nil {
		s.Log = activitylog.Nop()
	}

	removeSocket := ownSocket(ln)

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	err := s.acceptLoop(ctx, ln)

	ln.Close()
	removeSocket()
	s.wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ownSocket takes over socket file cleanup from the listener and returns a
// func that removes the file only while it is still the one ln bound. After
// a restart the path may already belong to the next daemon.
func ownSocket(ln net.Listener) func() {
	ul, ok := ln.(*net.UnixListener)
	if !ok {
		return func() {}
	}
	ul.SetUnlinkOnClose(false)
	path := ul.Addr().String()
	bound, err := os.Stat(path)
	if err != nil {
		return func() {}
	}
	return func() {
		if cur, err := os.Stat(path); err == nil && os.SameFile(cur, bound) {
			os.Remove(path)
		}
	}
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Log.AcceptError(err)
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	id := uuid.NewString()
	conn.SetDeadline(time.Now().Add(ConnTimeout))

	cmd, err := message.ReadRequest(conn)
	if err != nil {
		s.Log.ConnError(id, err)
		return
	}

	start := time.Now()
	segs := s.Exec.Exec(ctx, cmd)
	if err := message.SendResponse(conn, segs); err != nil {
		s.Log.ConnError(id, fmt.Errorf("write response: %w", err))
		return
	}
	s.Log.Request(id, cmd, len(segs), time.Since(start))
}
