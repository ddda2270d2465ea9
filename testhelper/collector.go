// Package testhelper provides agent stand-ins for tests: an in-memory line
// collector over a net.Pipe, and real unix/tcp listeners that record every
// newline-delimited payload they receive.
package testhelper

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Collector reads newline-delimited payloads from one connection and
// records them.
type Collector struct {
	c          net.Conn
	closeAfter int

	mu    sync.Mutex
	lines [][]byte
}

// Pipe returns a collector and the client side of a net.Pipe feeding it.
func Pipe() (*Collector, net.Conn) {
	return PipeN(0)
}

// PipeN is like Pipe, but the collector closes its end of the pipe after
// reading closeAfter lines, so the next client write fails. closeAfter 0
// means never.
func PipeN(closeAfter int) (*Collector, net.Conn) {
	server, client := net.Pipe()
	co := &Collector{c: server, closeAfter: closeAfter}
	go co.loop(server)
	return co, client
}

func (co *Collector) loop(c net.Conn) {
	br := bufio.NewReader(c)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			n := co.record(line)
			if co.closeAfter > 0 && n >= co.closeAfter {
				c.Close()
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (co *Collector) record(line []byte) int {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.lines = append(co.lines, bytes.TrimRight(line, "\n"))
	return len(co.lines)
}

// Lines returns a copy of the payloads received so far, without their
// newline delimiters.
func (co *Collector) Lines() [][]byte {
	co.mu.Lock()
	defer co.mu.Unlock()
	out := make([][]byte, len(co.lines))
	copy(out, co.lines)
	return out
}

// Wait blocks until n lines have been recorded, or two seconds pass. It
// reports whether the count was reached.
func (co *Collector) Wait(n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		co.mu.Lock()
		got := len(co.lines)
		co.mu.Unlock()
		if got >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

// Close implements io.Closer
func (co *Collector) Close() error {
	return co.c.Close()
}

// Server is a real listening agent stand-in. It accepts connections and
// records every line received on any of them.
type Server struct {
	ln net.Listener

	mu    sync.Mutex
	lines [][]byte
}

// ListenUnix starts a Server on a fresh temporary unix socket and returns
// it with the socket path. It panics if the listener can't be created.
func ListenUnix() (*Server, string) {
	path := TmpSocket()
	ln, err := net.Listen("unix", path)
	if err != nil {
		panic(err)
	}
	s := &Server{ln: ln}
	go s.acceptLoop()
	return s, path
}

// ListenTCP starts a Server on 127.0.0.1 with an ephemeral port and returns
// it with the listen address. It panics if the listener can't be created.
func ListenTCP() (*Server, string) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	s := &Server{ln: ln}
	go s.acceptLoop()
	return s, ln.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(c)
	}
}

func (s *Server) handle(c net.Conn) {
	defer c.Close()
	br := bufio.NewReader(c)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			s.mu.Lock()
			s.lines = append(s.lines, bytes.TrimRight(line, "\n"))
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Lines returns a copy of the payloads received so far.
func (s *Server) Lines() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.lines))
	copy(out, s.lines)
	return out
}

// Wait blocks until n lines have been recorded, or two seconds pass.
func (s *Server) Wait(n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		got := len(s.lines)
		s.mu.Unlock()
		if got >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

// Close implements io.Closer
func (s *Server) Close() error {
	return s.ln.Close()
}

// TmpSocket returns a socket path under the system temp dir that no
// listener holds. The path stays short enough for a socket address.
func TmpSocket() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("logflux-test-%d.sock", rand.Int31()))
}

// SplitAddr splits a host:port address, panicking on malformed input.
func SplitAddr(addr string) (string, int) {
	host, portstr, err := net.SplitHostPort(addr)
	if err != nil {
		panic(err)
	}
	port, err := strconv.Atoi(portstr)
	if err != nil {
		panic(err)
	}
	return host, port
}
