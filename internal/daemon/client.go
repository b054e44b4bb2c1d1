package daemon

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"zsh-infinite/internal/message"
	"zsh-infinite/internal/segment"
)

// DefaultTimeout bounds a whole client exchange: dial, request and response.
const DefaultTimeout = 500 * time.Millisecond

// Client fetches segments from a running daemon.
type Client struct {
	SocketPath string
	Timeout    time.Duration
	Log        zerolog.Logger
}

// NewClient returns a client for the socket at path with the default timeout
// and a disabled logger.
func NewClient(path string) *Client {
	return &Client{SocketPath: path, Timeout: DefaultTimeout, Log: zerolog.Nop()}
}

// Get sends cmd and returns the daemon's segments. Every failure (no daemon,
// timeout, short read, bad payload) yields an empty list; the cause is only
// logged at debug level. Get never retries.
func (c *Client) Get(ctx context.Context, cmd segment.Command) []segment.Segment {
	segs, err := c.get(ctx, cmd)
	if err != nil {
		c.Log.Debug().Err(err).Str("command", cmd.String()).Msg("daemon request failed")
		return nil
	}
	return segs
}

func (c *Client) get(ctx context.Context, cmd segment.Command) ([]segment.Segment, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.SocketPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)

	if err := message.SendRequest(conn, cmd); err != nil {
		return nil, err
	}
	return message.ReadResponse(conn)
}

// Ping reports whether something accepts connections on the socket.
func (c *Client) Ping(ctx context.Context) bool {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.SocketPath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
