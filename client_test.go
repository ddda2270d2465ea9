package logflux

import (
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/logflux-io/logflux-go/config"
	"github.com/logflux-io/logflux-go/testhelper"
)

// countingDialer fails every attempt and counts them.
type countingDialer struct {
	calls int
}

func (d *countingDialer) DialTimeout(network, addr string, timeout time.Duration) (net.Conn, error) {
	d.calls++
	return nil, &net.OpError{Op: "dial", Net: network, Err: errRefused}
}

type refusedError struct{}

func (refusedError) Error() string   { return "connection refused" }
func (refusedError) Timeout() bool   { return false }
func (refusedError) Temporary() bool { return true }

var errRefused = refusedError{}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(nil); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for nil config, got %v", err)
	}

	conf := config.New()
	conf.SocketPath = ""
	if _, err := New(conf); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for empty socket path, got %v", err)
	}
}

func TestNewCopiesConfig(t *testing.T) {
	conf := testhelper.DefaultTestConfig(testing.Verbose())
	c, err := New(conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	conf.SocketPath = "/changed/after/construction.sock"
	if got := c.Config().SocketPath; got == conf.SocketPath {
		t.Error("client config should be immune to later mutation")
	}
}

func TestNewUnix(t *testing.T) {
	if _, err := NewUnix(""); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam, got %v", err)
	}

	c, err := NewUnix("/run/logflux/agent.sock")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	conf := c.Config()
	if conf.ConnType != config.Unix {
		t.Errorf("expected unix transport, got %s", conf.ConnType)
	}
	if conf.Timeout != config.Default.Timeout {
		t.Errorf("expected default timeout, got %s", conf.Timeout)
	}
}

func TestNewTCP(t *testing.T) {
	if _, err := NewTCP("", 8080); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for empty host, got %v", err)
	}
	if _, err := NewTCP("127.0.0.1", 0); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for port 0, got %v", err)
	}

	c, err := NewTCP("127.0.0.1", 9090)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	conf := c.Config()
	if conf.ConnType != config.TCP {
		t.Errorf("expected tcp transport, got %s", conf.ConnType)
	}
	if conf.Port != 9090 {
		t.Errorf("expected port 9090, got %d", conf.Port)
	}
}

func TestSendEntryNotConnected(t *testing.T) {
	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	d := &countingDialer{}
	c.dialer = d

	e, err := NewEntry("never sent")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.SendEntry(e); KindOf(err) != NotConnected {
		t.Errorf("expected NotConnected, got %v", err)
	}
	if d.calls != 0 {
		t.Errorf("send must not dial, saw %d attempts", d.calls)
	}
}

func TestSendEntryNilArgs(t *testing.T) {
	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.SendEntry(nil); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam, got %v", err)
	}

	var nilc *Client
	if err := nilc.SendEntry(nil); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam on nil client, got %v", err)
	}
	if err := nilc.SendLog("x"); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam on nil client, got %v", err)
	}
	if err := nilc.Connect(); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam on nil client, got %v", err)
	}
}

func TestSendEntryOverPipe(t *testing.T) {
	co, conn := testhelper.Pipe()
	defer co.Close()

	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	c.SetConn(conn)
	defer c.Close()

	e, err := NewEntry("over the pipe")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.SendEntry(e); err != nil {
		t.Fatalf("%+v", err)
	}

	if !co.Wait(1) {
		t.Fatal("collector never saw the payload")
	}
	lines := co.Lines()
	var decoded struct {
		Message string `json:"message"`
		Secret  string `json:"shared_secret"`
	}
	if err := json.Unmarshal(lines[0], &decoded); err != nil {
		t.Fatalf("%+v", err)
	}
	if decoded.Message != "over the pipe" {
		t.Errorf("got message %q", decoded.Message)
	}
	if decoded.Secret != "" {
		t.Error("unix transport must not carry a secret")
	}
}

func TestSendEntrySecretByTransport(t *testing.T) {
	// the same configured secret is embedded for tcp and withheld for unix
	for _, ct := range []config.ConnType{config.Unix, config.TCP} {
		co, conn := testhelper.Pipe()

		conf := testhelper.DefaultTestConfig(testing.Verbose())
		conf.ConnType = ct
		if ct == config.TCP {
			conf.SocketPath = ""
			conf.Host = "127.0.0.1"
			conf.Port = 9999
		}
		conf.SharedSecret = "hunter2"

		c, err := New(conf)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		c.SetConn(conn)

		if err := c.SendLog("transport check"); err != nil {
			t.Fatalf("%s: %+v", ct, err)
		}
		if !co.Wait(1) {
			t.Fatalf("%s: collector never saw the payload", ct)
		}

		hasSecret := strings.Contains(string(co.Lines()[0]), `"shared_secret":"hunter2"`)
		if ct == config.TCP && !hasSecret {
			t.Errorf("tcp payload is missing the secret: %s", co.Lines()[0])
		}
		if ct == config.Unix && hasSecret {
			t.Errorf("unix payload leaked the secret: %s", co.Lines()[0])
		}

		c.Close()
		co.Close()
	}
}

func TestSendBatchStopsAtFirstFailure(t *testing.T) {
	co, conn := testhelper.PipeN(2)
	defer co.Close()

	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	c.SetConn(conn)
	defer c.Close()

	var entries []*Entry
	for _, msg := range []string{"one", "two", "three", "four"} {
		e, err := NewEntry(msg)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		entries = append(entries, e)
	}

	err = c.SendBatch(entries)
	if KindOf(err) != Connection {
		t.Fatalf("expected Connection after the collector hung up, got %v", err)
	}
	if got := len(co.Lines()); got != 2 {
		t.Errorf("expected exactly 2 delivered entries, got %d", got)
	}
}

func TestSendBatchValidation(t *testing.T) {
	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if err := c.SendBatch(nil); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for nil slice, got %v", err)
	}
	if err := c.SendBatch([]*Entry{}); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for empty slice, got %v", err)
	}

	e, err := NewEntry("ok")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.SendBatch([]*Entry{e, nil}); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for nil element, got %v", err)
	}
}

func TestSendLog(t *testing.T) {
	co, conn := testhelper.Pipe()
	defer co.Close()

	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	c.SetConn(conn)
	defer c.Close()

	if err := c.SendLog("quick one"); err != nil {
		t.Fatalf("%+v", err)
	}
	if !co.Wait(1) {
		t.Fatal("collector never saw the payload")
	}

	var decoded struct {
		Message string `json:"message"`
		Source  string `json:"source"`
		Level   int    `json:"level"`
		Type    int    `json:"entry_type"`
	}
	if err := json.Unmarshal(co.Lines()[0], &decoded); err != nil {
		t.Fatalf("%+v", err)
	}
	if decoded.Message != "quick one" || decoded.Source != DefaultSource ||
		decoded.Level != int(LevelInfo) || decoded.Type != int(TypeLog) {
		t.Errorf("unexpected defaulted payload: %s", co.Lines()[0])
	}

	if err := c.SendLog(""); KindOf(err) != InvalidParam {
		t.Errorf("expected InvalidParam for empty message, got %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, err := New(testhelper.DefaultTestConfig(testing.Verbose()))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// never connected
	if err := c.Close(); err != nil {
		t.Fatalf("%+v", err)
	}

	_, conn := testhelper.Pipe()
	c.SetConn(conn)
	if !c.Connected() {
		t.Fatal("expected connected after SetConn")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("%+v", err)
	}
	if c.Connected() {
		t.Error("expected unconnected after close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close again: %+v", err)
	}

	var nilc *Client
	if err := nilc.Close(); err != nil {
		t.Fatalf("nil close: %+v", err)
	}
}
