package logflux

import (
	"testing"

	"github.com/pkg/errors"
)

func TestErrorString(t *testing.T) {
	cases := map[Kind]string{
		Success:      "success",
		InvalidParam: "invalid parameter",
		Memory:       "memory allocation error",
		Connection:   "connection error",
		Timeout:      "timeout",
		Format:       "format error",
		NotConnected: "not connected",
		Kind(42):     "unknown error",
		Kind(-3):     "unknown error",
	}
	for k, expected := range cases {
		if got := ErrorString(k); got != expected {
			t.Errorf("kind %d: expected %q, got %q", k, expected, got)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != Success {
		t.Error("nil error should be Success")
	}
	if KindOf(ErrNotConnected) != NotConnected {
		t.Error("bare sentinel should classify")
	}

	wrapped := errors.Wrap(ErrConnection, "dial tcp 10.0.0.1:1:")
	if KindOf(wrapped) != Connection {
		t.Errorf("wrapped sentinel should classify, got %v", KindOf(wrapped))
	}
	if !errors.Is(wrapped, ErrConnection) {
		t.Error("errors.Is should see through the wrap")
	}

	if KindOf(errors.New("socket exploded")) != Connection {
		t.Error("foreign errors classify as Connection")
	}
}
