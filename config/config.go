// Package config holds client configuration for the logflux SDK.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ConnType selects the transport used to reach the agent.
type ConnType int

const (
	// Unix connects over a unix domain stream socket.
	Unix ConnType = iota

	// TCP connects over a tcp socket to a literal IPv4 address. TCP
	// payloads carry the shared secret.
	TCP
)

func (t ConnType) String() string {
	switch t {
	case Unix:
		return "unix"
	case TCP:
		return "tcp"
	default:
		return "invalid"
	}
}

// Config holds configuration variables for a client. A Config is copied at
// client construction and never mutated afterward.
type Config struct {
	// Verbose prints debugging information.
	Verbose bool `json:"verbose"`

	// ConnType selects the transport.
	ConnType ConnType `json:"connection-type"`

	// SocketPath is the agent's unix socket path. Unix only.
	SocketPath string `json:"socket-path"`

	// Host is the agent's IPv4 address. TCP only. Hostnames are not
	// resolved; the value must be a literal dotted quad.
	Host string `json:"host"`

	// Port is the agent's tcp port. TCP only.
	Port int `json:"port"`

	// SharedSecret authenticates tcp payloads. It is loaded from the agent
	// runtime directory by NewTCP, or set explicitly here. Never sent on
	// unix sockets.
	SharedSecret string `json:"-"`

	// Timeout bounds the connect attempt and each send.
	Timeout time.Duration `json:"timeout"`

	// RetryCount is the number of additional connect attempts made after
	// the first one fails. Zero means a single attempt.
	RetryCount int `json:"retry-count"`

	// RetryDelay is the pause between connect attempts.
	RetryDelay time.Duration `json:"retry-delay"`
}

// Default is the default client configuration.
var Default = &Config{
	ConnType:   Unix,
	Host:       "127.0.0.1",
	Timeout:    10 * time.Second,
	RetryCount: 3,
	RetryDelay: 1 * time.Second,
}

// New returns a copy of the default configuration.
func New() *Config {
	conf := &Config{}
	*conf = *Default
	return conf
}

// Validate returns an error pointing to incorrect values for the
// configuration, if any.
func (c *Config) Validate() error {
	switch c.ConnType {
	case Unix:
		if c.SocketPath == "" {
			return errors.New("socket-path is required for unix connections")
		}
	case TCP:
		if c.Host == "" {
			return errors.New("host is required for tcp connections")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port %d", c.Port)
		}
	default:
		return fmt.Errorf("invalid connection type %d", c.ConnType)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.RetryCount < 0 {
		return errors.New("retry-count must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry-delay must not be negative")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("%+v", *c)
}
