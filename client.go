package logflux

import (
	"net"

	"github.com/pkg/errors"

	"github.com/logflux-io/logflux-go/agent"
	"github.com/logflux-io/logflux-go/config"
	"github.com/logflux-io/logflux-go/internal"
)

// Client ships entries to a logflux agent. It owns one configuration and at
// most one socket, and cycles between unconnected and connected: Connect
// establishes the socket, Close releases it, and a closed client may
// connect again.
//
// A Client is not safe for concurrent use.
type Client struct {
	conf   *config.Config
	dialer Dialer
	conn   net.Conn
}

// New returns a client for conf. The configuration is copied; later changes
// to conf don't affect the client.
func New(conf *config.Config) (*Client, error) {
	if conf == nil {
		return nil, errors.Wrap(ErrInvalidParam, "nil config")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidParam, err.Error())
	}

	cconf := &config.Config{}
	*cconf = *conf
	return &Client{
		conf:   cconf,
		dialer: &netDialer{},
	}, nil
}

// NewUnix returns a client that connects over the unix socket at
// socketPath, with default timeout and retry policy.
func NewUnix(socketPath string) (*Client, error) {
	if socketPath == "" {
		return nil, errors.Wrap(ErrInvalidParam, "socket path is required")
	}

	conf := config.New()
	conf.ConnType = config.Unix
	conf.SocketPath = socketPath
	return New(conf)
}

// NewTCP returns a client that connects over tcp to host:port, with default
// timeout and retry policy. The agent's shared secret is loaded from its
// runtime directory; a missing or unreadable secret is not fatal and leaves
// the secret empty.
func NewTCP(host string, port int) (*Client, error) {
	if host == "" || port == 0 {
		return nil, errors.Wrap(ErrInvalidParam, "host and port are required")
	}

	conf := config.New()
	conf.ConnType = config.TCP
	conf.Host = host
	conf.Port = port
	if secret, err := agent.LoadSecret(agent.OSEnv{}); err == nil {
		conf.SharedSecret = secret
	} else {
		internal.Debugf(conf, "no agent secret: %v", err)
	}
	return New(conf)
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() config.Config {
	return *c.conf
}

// Connected reports whether the client holds a live socket.
func (c *Client) Connected() bool {
	return c != nil && c.conn != nil
}

// SendLog builds an entry with default fields around message and sends it.
func (c *Client) SendLog(message string) error {
	if c == nil {
		return errors.Wrap(ErrInvalidParam, "nil client")
	}

	e, err := NewEntry(message)
	if err != nil {
		return err
	}
	return c.SendEntry(e)
}

// SendEntry encodes and transmits a single entry. The secret is embedded
// only for tcp connections; unix sockets never carry one. The entry is not
// retained after the call.
func (c *Client) SendEntry(e *Entry) error {
	if c == nil || e == nil {
		return errors.Wrap(ErrInvalidParam, "nil client or entry")
	}
	if !c.Connected() {
		return errors.Wrap(ErrNotConnected, "send requires a connected client")
	}

	var secret string
	if c.conf.ConnType == config.TCP {
		secret = c.conf.SharedSecret
	}

	payload, err := e.Encode(secret)
	if err != nil {
		return err
	}
	return c.send(payload)
}

// SendBatch sends entries in order, one payload per entry. It stops at the
// first failure and returns it; entries after the failing one are never
// attempted.
func (c *Client) SendBatch(entries []*Entry) error {
	if c == nil || len(entries) == 0 {
		return errors.Wrap(ErrInvalidParam, "at least one entry is required")
	}

	for i, e := range entries {
		if e == nil {
			return errors.Wrapf(ErrInvalidParam, "nil entry at index %d", i)
		}
		if err := c.SendEntry(e); err != nil {
			return err
		}
	}
	return nil
}
