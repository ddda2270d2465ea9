// Package logflux is a client SDK for shipping structured log entries to a
// local logflux agent over a unix or tcp stream socket. The wire protocol is
// one JSON object per line, UTF-8, newline terminated, with no other framing.
//
// A Client is not safe for concurrent use. Use one Client per goroutine, or
// guard a shared Client with a mutex. Connect and the send calls block until
// the socket operation completes or the configured timeout elapses.
package logflux
