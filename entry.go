package logflux

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Level is a syslog-compatible severity.
type Level int

const (
	LevelEmergency Level = iota
	LevelAlert
	LevelCritical
	LevelError
	LevelWarning
	LevelNotice
	LevelInfo
	LevelDebug
)

var levelNames = map[Level]string{
	LevelEmergency: "emergency",
	LevelAlert:     "alert",
	LevelCritical:  "critical",
	LevelError:     "error",
	LevelWarning:   "warning",
	LevelNotice:    "notice",
	LevelInfo:      "info",
	LevelDebug:     "debug",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLevel returns the level named by s, case-insensitively.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidParam, "unknown level %q", s)
}

// EntryType categorizes an entry. The zero value is not a valid type; the
// numbering is part of the wire contract.
type EntryType int

const (
	TypeLog EntryType = iota + 1
	TypeMetric
	TypeTrace
	TypeEvent
	TypeAudit
)

var typeNames = map[EntryType]string{
	TypeLog:    "log",
	TypeMetric: "metric",
	TypeTrace:  "trace",
	TypeEvent:  "event",
	TypeAudit:  "audit",
}

func (t EntryType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType returns the entry type named by s, case-insensitively.
func ParseType(s string) (EntryType, error) {
	s = strings.ToLower(s)
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidParam, "unknown entry type %q", s)
}

// DefaultSource identifies entries that never had a source set.
const DefaultSource = "go-sdk"

// Label is one key-value pair attached to an entry.
type Label struct {
	Key   string
	Value string
}

// Entry is a single structured record. Build one with NewEntry, adjust it
// with the setters, then hand it to Client.SendEntry. An Entry has no
// relationship to any Client and may be reused across sends.
type Entry struct {
	id        string
	message   string
	source    string
	level     Level
	typ       EntryType
	timestamp time.Time
	labels    []Label
}

// NewEntry returns an entry carrying message, with a fresh random id,
// level info, type log, the default source, and the current time.
func NewEntry(message string) (*Entry, error) {
	if message == "" {
		return nil, errors.Wrap(ErrInvalidParam, "entry message is required")
	}
	return &Entry{
		id:        uuid.NewString(),
		message:   message,
		source:    DefaultSource,
		level:     LevelInfo,
		typ:       TypeLog,
		timestamp: time.Now(),
	}, nil
}

// SetLevel sets the severity. Values outside the eight defined levels are
// rejected.
func (e *Entry) SetLevel(l Level) error {
	if e == nil {
		return errors.Wrap(ErrInvalidParam, "nil entry")
	}
	if l < LevelEmergency || l > LevelDebug {
		return errors.Wrapf(ErrInvalidParam, "level %d out of range", l)
	}
	e.level = l
	return nil
}

// SetType sets the entry type. Values outside the five defined types are
// rejected.
func (e *Entry) SetType(t EntryType) error {
	if e == nil {
		return errors.Wrap(ErrInvalidParam, "nil entry")
	}
	if t < TypeLog || t > TypeAudit {
		return errors.Wrapf(ErrInvalidParam, "entry type %d out of range", t)
	}
	e.typ = t
	return nil
}

// SetSource sets the emitter identifier.
func (e *Entry) SetSource(source string) error {
	if e == nil {
		return errors.Wrap(ErrInvalidParam, "nil entry")
	}
	if source == "" {
		return errors.Wrap(ErrInvalidParam, "entry source is required")
	}
	e.source = source
	return nil
}

// SetTimestamp overrides the creation timestamp. The wire format carries
// whole seconds; sub-second precision is dropped at encode time.
func (e *Entry) SetTimestamp(ts time.Time) error {
	if e == nil {
		return errors.Wrap(ErrInvalidParam, "nil entry")
	}
	e.timestamp = ts
	return nil
}

// AddLabel appends a label. Labels keep insertion order and duplicate keys
// are kept, not overwritten.
func (e *Entry) AddLabel(key, value string) error {
	if e == nil {
		return errors.Wrap(ErrInvalidParam, "nil entry")
	}
	if key == "" || value == "" {
		return errors.Wrap(ErrInvalidParam, "label key and value are required")
	}
	e.labels = append(e.labels, Label{Key: key, Value: value})
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() string { return e.id }

// Message returns the entry body.
func (e *Entry) Message() string { return e.message }

// Source returns the emitter identifier.
func (e *Entry) Source() string { return e.source }

// Level returns the severity.
func (e *Entry) Level() Level { return e.level }

// Type returns the entry type.
func (e *Entry) Type() EntryType { return e.typ }

// Timestamp returns the entry timestamp.
func (e *Entry) Timestamp() time.Time { return e.timestamp }

// Labels returns the labels in insertion order. The returned slice is the
// entry's own storage; callers must not modify it.
func (e *Entry) Labels() []Label { return e.labels }
