package testhelper

import (
	"time"

	"github.com/logflux-io/logflux-go/config"
)

// DefaultTestConfig returns a unix client configuration with short timeouts
// and no connect retries.
func DefaultTestConfig(verbose bool) *config.Config {
	conf := config.New()
	conf.Verbose = verbose
	conf.SocketPath = TmpSocket()
	conf.Timeout = 200 * time.Millisecond
	conf.RetryCount = 0
	conf.RetryDelay = time.Millisecond
	return conf
}

// TCPTestConfig returns a tcp client configuration pointed at addr
// ("host:port"), with short timeouts and no connect retries.
func TCPTestConfig(verbose bool, addr string) *config.Config {
	conf := DefaultTestConfig(verbose)
	conf.ConnType = config.TCP
	conf.SocketPath = ""
	host, port := SplitAddr(addr)
	conf.Host = host
	conf.Port = port
	return conf
}
