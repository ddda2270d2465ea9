package logflux

import (
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/logflux-io/logflux-go/config"
	"github.com/logflux-io/logflux-go/internal"
)

// Dialer defines an interface for connecting to the agent. It can be used
// for mocking in tests.
type Dialer interface {
	DialTimeout(network, addr string, timeout time.Duration) (net.Conn, error)
}

type netDialer struct{}

func (nd *netDialer) DialTimeout(network, addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, addr, timeout)
}

// maxSocketPath matches sockaddr_un's sun_path capacity on linux. Longer
// paths can't be represented in a socket address.
const maxSocketPath = 108

// Connect establishes the socket to the agent. Calling Connect on an
// already-connected client is a no-op that returns nil. On dial failure the
// attempt is repeated up to RetryCount more times, sleeping RetryDelay
// between attempts.
func (c *Client) Connect() error {
	if c == nil {
		return errors.Wrap(ErrInvalidParam, "nil client")
	}
	if c.Connected() {
		return nil
	}

	network, addr, err := c.resolveAddr()
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.conf.RetryCount; attempt++ {
		if attempt > 0 {
			internal.Debugf(c.conf, "retrying %s %s after %s (attempt %d)",
				network, addr, c.conf.RetryDelay, attempt)
			time.Sleep(c.conf.RetryDelay)
		}

		internal.Debugf(c.conf, "connecting to %s %s", network, addr)
		conn, derr := c.dialer.DialTimeout(network, addr, c.conf.Timeout)
		if derr == nil {
			c.SetConn(conn)
			return nil
		}
		if conn != nil {
			internal.LogError(conn.Close())
		}
		lastErr = derr
	}

	return errors.Wrapf(ErrConnection, "dial %s %s: %v", network, addr, lastErr)
}

func (c *Client) resolveAddr() (network, addr string, err error) {
	switch c.conf.ConnType {
	case config.Unix:
		if len(c.conf.SocketPath) >= maxSocketPath {
			return "", "", errors.Wrapf(ErrInvalidParam,
				"socket path longer than %d bytes", maxSocketPath-1)
		}
		return "unix", c.conf.SocketPath, nil
	case config.TCP:
		// no DNS: the host must be a literal dotted quad
		ip := net.ParseIP(c.conf.Host)
		if ip == nil || ip.To4() == nil {
			return "", "", errors.Wrapf(ErrConnection,
				"host %q is not an IPv4 address", c.conf.Host)
		}
		return "tcp", net.JoinHostPort(c.conf.Host, strconv.Itoa(c.conf.Port)), nil
	default:
		return "", "", errors.Wrapf(ErrInvalidParam,
			"invalid connection type %d", c.conf.ConnType)
	}
}

// SetConn sets the client's connection and marks it connected, closing any
// previous connection. It is used by Connect and by tests that inject a
// pipe.
func (c *Client) SetConn(conn net.Conn) *Client {
	if c.conn != nil {
		internal.LogError(c.conn.Close())
	}
	c.conn = conn
	return c
}

// send transmits an already-encoded payload followed by the single newline
// delimiter, in one write. The connection state is left alone on failure;
// callers decide whether to Close and reconnect.
func (c *Client) send(payload []byte) error {
	if !c.Connected() {
		return errors.Wrap(ErrNotConnected, "send requires a connected client")
	}

	data := make([]byte, 0, len(payload)+1)
	data = append(data, payload...)
	data = append(data, '\n')

	if c.conf.Timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.conf.Timeout)); err != nil {
			return errors.Wrapf(ErrTimeout, "applying send timeout: %v", err)
		}
	}

	n, err := c.conn.Write(data)
	if c.conf.Timeout > 0 && err == nil {
		internal.IgnoreError(c.conn.SetWriteDeadline(time.Time{}))
	}
	internal.Debugf(c.conf, "%q -> agent (%d bytes, err: %v)",
		internal.Prettybuf(data), n, err)
	if err != nil {
		return errors.Wrapf(ErrConnection, "send failed: %v", err)
	}
	if n != len(data) {
		return errors.Wrapf(ErrConnection, "short write: %d of %d bytes", n, len(data))
	}
	return nil
}

// Close releases the socket if one is held and returns the client to the
// unconnected state. It is idempotent, always succeeds, and is safe on a
// nil client.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	internal.Debugf(c.conf, "closing connection to agent")
	internal.LogError(c.conn.Close())
	c.conn = nil
	return nil
}
