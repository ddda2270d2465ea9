// Package agent locates the local logflux agent's runtime files: the shared
// secret used for tcp authentication and the pid file used for liveness
// checks. Lookups go through an Env so tests can substitute fixed paths and
// values; nothing is cached between calls.
package agent

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// Env resolves environment variables for runtime directory discovery.
type Env interface {
	Getenv(key string) string
}

// OSEnv is the process environment.
type OSEnv struct{}

func (OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

// fallbackDir is used when neither XDG_RUNTIME_DIR nor HOME is set.
const fallbackDir = "/tmp/.logflux-runtime"

// RuntimeDir returns the agent runtime directory: $XDG_RUNTIME_DIR/logflux
// if set, else $HOME/.logflux/runtime, else a fixed /tmp fallback.
func RuntimeDir(env Env) string {
	if dir := env.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "logflux")
	}
	if home := env.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".logflux", "runtime")
	}
	return fallbackDir
}

// SecretPath returns the path of the agent's shared secret file.
func SecretPath(env Env) string {
	return filepath.Join(RuntimeDir(env), "agent.secret")
}

// PIDPath returns the path of the agent's pid file.
func PIDPath(env Env) string {
	return filepath.Join(RuntimeDir(env), "agent.pid")
}

// LoadSecret reads the shared secret from the agent runtime directory. The
// secret is the first line of the file, without its trailing newline. A
// missing or unreadable file is an error; callers that treat the secret as
// optional should ignore it and use an empty secret.
func LoadSecret(env Env) (string, error) {
	path := SecretPath(env)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read agent secret at %s", path)
	}

	secret := string(b)
	if i := strings.IndexByte(secret, '\n'); i >= 0 {
		secret = secret[:i]
	}
	return strings.TrimSuffix(secret, "\r"), nil
}

// Running reports whether the agent process named by the pid file is alive.
// The probe is signal 0: no signal is delivered to the agent. Any failure
// along the way, from a missing pid file to a malformed pid to a dead
// process, reports false.
func Running(env Env) bool {
	b, err := os.ReadFile(PIDPath(env))
	if err != nil {
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
