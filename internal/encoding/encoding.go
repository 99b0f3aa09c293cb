// Package encoding detects a source file's text encoding via its byte-order
// mark, transcodes the payload to canonical UTF-8, and re-encodes output
// back to the exact original byte layout.
package encoding

import (
	"bytes"
	"errors"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Scheme identifies a supported text encoding.
type Scheme string

const (
	UTF8    Scheme = "utf-8"
	UTF16LE Scheme = "utf-16le"
	UTF16BE Scheme = "utf-16be"
	UTF32LE Scheme = "utf-32le"
	UTF32BE Scheme = "utf-32be"
)

// ErrUnsupported is returned when a file's encoding cannot be confidently
// detected. Callers treat this as a skip-with-warning condition.
var ErrUnsupported = errors.New("unsupported encoding")

// Descriptor records the detected encoding of a file. It is created at
// detection time and consumed unchanged at the final re-encode.
type Descriptor struct {
	Scheme Scheme `json:"scheme"`
	HasBOM bool   `json:"has_bom"`
}

// BOM returns the byte-order mark for the descriptor, or nil when the file
// carried none.
func (d Descriptor) BOM() []byte {
	if !d.HasBOM {
		return nil
	}
	return bomBytes[d.Scheme]
}

var bomBytes = map[Scheme][]byte{
	UTF8:    {0xef, 0xbb, 0xbf},
	UTF16LE: {0xff, 0xfe},
	UTF16BE: {0xfe, 0xff},
	UTF32LE: {0xff, 0xfe, 0x00, 0x00},
	UTF32BE: {0x00, 0x00, 0xfe, 0xff},
}

// bomTable is ordered so UTF-32LE is checked before UTF-16LE (shared
// FF FE prefix).
var bomTable = []struct {
	bom    []byte
	scheme Scheme
}{
	{[]byte{0xff, 0xfe, 0x00, 0x00}, UTF32LE},
	{[]byte{0x00, 0x00, 0xfe, 0xff}, UTF32BE},
	{[]byte{0xff, 0xfe}, UTF16LE},
	{[]byte{0xfe, 0xff}, UTF16BE},
	{[]byte{0xef, 0xbb, 0xbf}, UTF8},
}

// Detect inspects the leading bytes for a BOM. Absence of any recognized
// multi-byte BOM falls back to UTF-8 iff the payload is valid UTF-8;
// otherwise ErrUnsupported is returned.
func Detect(raw []byte) (Descriptor, error) {
	for _, entry := range bomTable {
		if bytes.HasPrefix(raw, entry.bom) {
			return Descriptor{Scheme: entry.scheme, HasBOM: true}, nil
		}
	}
	if !utf8.Valid(raw) {
		return Descriptor{}, ErrUnsupported
	}
	return Descriptor{Scheme: UTF8, HasBOM: false}, nil
}

// Decode detects the encoding of raw and returns the canonical UTF-8 text
// with the BOM stripped, plus the descriptor needed to reproduce the
// original byte layout.
//
// The round trip Encode(Decode(raw)) == raw holds for every input Decode
// accepts; input that would not survive it is rejected as unsupported.
func Decode(raw []byte) ([]byte, Descriptor, error) {
	desc, err := Detect(raw)
	if err != nil {
		return nil, Descriptor{}, err
	}
	payload := raw[len(desc.BOM()):]

	if desc.Scheme == UTF8 {
		if !utf8.Valid(payload) {
			return nil, Descriptor{}, ErrUnsupported
		}
		return payload, desc, nil
	}

	dec := codec(desc.Scheme).NewDecoder()
	text, _, err := transform.Bytes(dec, payload)
	if err != nil {
		return nil, Descriptor{}, ErrUnsupported
	}
	// Lossy decodes (odd lengths, broken surrogates) substitute U+FFFD
	// without erroring. Re-encode and compare to enforce the round-trip
	// invariant.
	recoded, err := encodePayload(text, desc.Scheme)
	if err != nil || !bytes.Equal(recoded, payload) {
		return nil, Descriptor{}, ErrUnsupported
	}
	return text, desc, nil
}

// Encode renders canonical UTF-8 text back into the byte layout described
// by desc, re-inserting the original BOM iff one was present.
func Encode(text []byte, desc Descriptor) ([]byte, error) {
	payload, err := encodePayload(text, desc.Scheme)
	if err != nil {
		return nil, err
	}
	if bom := desc.BOM(); len(bom) > 0 {
		out := make([]byte, 0, len(bom)+len(payload))
		out = append(out, bom...)
		return append(out, payload...), nil
	}
	return payload, nil
}

func encodePayload(text []byte, scheme Scheme) ([]byte, error) {
	if scheme == UTF8 {
		return text, nil
	}
	enc := codec(scheme).NewEncoder()
	out, _, err := transform.Bytes(enc, text)
	return out, err
}

func codec(scheme Scheme) xencoding.Encoding {
	switch scheme {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	}
	return unicode.UTF8
}
