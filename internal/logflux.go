// Package internal has debug logging helpers shared by the SDK and its CLI.
package internal

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/logflux-io/logflux-go/config"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

func getFileLine(distance int) (string, int) {
	_, file, line, ok := runtime.Caller(1 + distance)
	if !ok {
		file = "???"
		line = 0
	}

	parts := strings.Split(file, "/")
	file = parts[len(parts)-1]

	return file, line
}

func stdlog(distance int, s string, args ...interface{}) {
	file, line := getFileLine(distance)

	s = "%s %s " + s + "\n"
	linearg := fmt.Sprintf("%s:%d:", file, line)
	args = append([]interface{}{time.Now().Format("2006/01/02 15:04:05.000"), linearg}, args...)
	_, err := fmt.Fprintf(os.Stdout, s, args...)
	IgnoreError(err)
}

// Debugf prints a debug log message to stdout when verbose is configured
func Debugf(conf *config.Config, s string, args ...interface{}) {
	if conf == nil || !conf.Verbose {
		return
	}

	stdlog(2, s, args...)
}

// LogError logs an error if one is passed.
func LogError(err error) {
	if err != nil {
		log.Printf("unhandled error: %+v", err)
	}
}

// IgnoreError drops an error on the floor.
func IgnoreError(_ error) {
}

// Prettybuf returns a human readable representation of a buffer that fits
// more or less on a log line
func Prettybuf(bufs ...[]byte) []byte {
	var flat []byte
	limit := 100
	for _, b := range bufs {
		flat = append(flat, b...)
	}
	if len(flat) > limit {
		var final []byte
		final = append(final, flat[:limit-5]...)
		final = append(final, []byte("...")...)
		final = append(final, flat[len(flat)-2:]...)
		return final
	}
	return flat
}
