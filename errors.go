package logflux

import "errors"

// Kind enumerates the outcome categories reported by the SDK. The values
// match the agent's error numbering, so they are stable.
type Kind int

const (
	// Success is the zero kind. A nil error means Success; no error value
	// carries it.
	Success Kind = iota

	// InvalidParam means a caller-supplied argument violated a
	// precondition: a nil handle, an out-of-range enum, an empty message.
	InvalidParam

	// Memory means an allocation failed. It exists for parity with the
	// agent's error numbering; no operation in this SDK returns it.
	Memory

	// Connection means socket creation, connect, or transmit failed.
	Connection

	// Timeout means the socket timeout could not be applied.
	Timeout

	// Format means data read from a collaborator was malformed, such as an
	// unreadable agent secret file.
	Format

	// NotConnected means the operation requires a connected client.
	NotConnected
)

// ErrorString returns a human-readable description for a kind. Values
// outside the defined kinds return "unknown error".
func ErrorString(k Kind) string {
	switch k {
	case Success:
		return "success"
	case InvalidParam:
		return "invalid parameter"
	case Memory:
		return "memory allocation error"
	case Connection:
		return "connection error"
	case Timeout:
		return "timeout"
	case Format:
		return "format error"
	case NotConnected:
		return "not connected"
	default:
		return "unknown error"
	}
}

// Err is the sentinel error type for the SDK. Errors returned by public
// operations either are one of the Err sentinels below or wrap one, so
// errors.Is and KindOf both work on them.
type Err struct {
	kind Kind
}

func (e *Err) Error() string {
	return ErrorString(e.kind)
}

// Kind returns the error's category.
func (e *Err) Kind() Kind {
	return e.kind
}

var (
	ErrInvalidParam = &Err{InvalidParam}
	ErrMemory       = &Err{Memory}
	ErrConnection   = &Err{Connection}
	ErrTimeout      = &Err{Timeout}
	ErrFormat       = &Err{Format}
	ErrNotConnected = &Err{NotConnected}
)

// KindOf classifies err, unwrapping as needed. A nil error is Success. An
// error that doesn't wrap one of the sentinels is reported as Connection,
// since the only errors the SDK passes through unwrapped come from the
// socket layer.
func KindOf(err error) Kind {
	if err == nil {
		return Success
	}
	var e *Err
	if errors.As(err, &e) {
		return e.kind
	}
	return Connection
}
