package logflux

// The wire format is newline-delimited JSON, one object per line:
//
// {"id":"<uuid>","message":"<text>","source":"<text>","entry_type":<1-5>,
//  "level":<0-7>,"timestamp":<unix seconds>[,"shared_secret":"<text>"]
//  [,"labels":{"<k>":"<v>",...}]}
//
// Key order is fixed and labels keep insertion order, including duplicate
// keys, so the object is assembled by hand rather than through a map
// marshaler. Unlike the reference C encoder, string values are escaped per
// RFC 8259; for input that needs no escaping the output is byte-identical.
// The newline delimiter is appended by the transport, not here.

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// Encode renders the entry as a single JSON object. A non-empty secret is
// embedded as the shared_secret field; the client passes one only on tcp
// connections. The buffer grows as needed, so there is no payload size
// ceiling.
func (e *Entry) Encode(secret string) ([]byte, error) {
	if e == nil {
		return nil, errors.Wrap(ErrInvalidParam, "nil entry")
	}

	var b bytes.Buffer
	b.Grow(128 + len(e.message) + len(e.source))

	b.WriteString(`{"id":`)
	writeJSONString(&b, e.id)
	b.WriteString(`,"message":`)
	writeJSONString(&b, e.message)
	b.WriteString(`,"source":`)
	writeJSONString(&b, e.source)
	b.WriteString(`,"entry_type":`)
	b.WriteString(strconv.Itoa(int(e.typ)))
	b.WriteString(`,"level":`)
	b.WriteString(strconv.Itoa(int(e.level)))
	b.WriteString(`,"timestamp":`)
	b.WriteString(strconv.FormatInt(e.timestamp.Unix(), 10))

	if secret != "" {
		b.WriteString(`,"shared_secret":`)
		writeJSONString(&b, secret)
	}

	if len(e.labels) > 0 {
		b.WriteString(`,"labels":{`)
		for i, l := range e.labels {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(&b, l.Key)
			b.WriteByte(':')
			writeJSONString(&b, l.Value)
		}
		b.WriteByte('}')
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}

const hexdigits = "0123456789abcdef"

// writeJSONString writes s as a quoted JSON string. Quotes, backslashes,
// and control characters are escaped; everything else passes through
// verbatim, which keeps valid UTF-8 intact.
func writeJSONString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '"' && c != '\\' && c >= 0x20 {
			continue
		}
		b.WriteString(s[start:i])
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteString(`\u00`)
			b.WriteByte(hexdigits[c>>4])
			b.WriteByte(hexdigits[c&0xf])
		}
		start = i + 1
	}
	b.WriteString(s[start:])
	b.WriteByte('"')
}
