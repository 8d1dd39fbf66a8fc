// Package request parses the request line of an HTTP/1.x request.
package request

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyRequest         = errors.New("empty request")
	ErrMalformedRequestLine = errors.New("malformed request line")
)

// Request holds the method and path of a parsed request line. The protocol
// version is required to be present but is not retained.
type Request struct {
	Method string
	Path   string
}

// Parse extracts the method and path from the first line of raw request
// bytes. Invalid UTF-8 sequences are replaced with the substitution rune
// rather than rejected. Method and path are returned verbatim, with no
// normalization or validation beyond the three-token shape of the line.
func Parse(raw []byte) (Request, error) {
	text := decodeLossy(raw)
	if text == "" {
		return Request{}, ErrEmptyRequest
	}

	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	return Request{Method: fields[0], Path: fields[1]}, nil
}

// decodeLossy decodes raw as UTF-8, substituting one replacement rune per
// invalid sequence. strings.ToValidUTF8 is not equivalent: it collapses a
// run of invalid bytes into a single replacement.
func decodeLossy(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(raw[:size])
		}
		raw = raw[size:]
	}
	return b.String()
}
