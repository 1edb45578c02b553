// Package cp932 encodes and decodes the archive format's fixed-width,
// NUL-padded entry names. The engine's name encoding is CP932 (a Shift-JIS
// superset); golang.org/x/text/encoding/japanese.ShiftJIS covers the
// common subset actually used by entry names in practice.
package cp932

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
)

// FieldSize is the fixed width, in bytes, of an on-disk entry name field.
const FieldSize = 20

// ErrNameTooLong is returned by Encode when the CP932-encoded name does
// not fit in FieldSize bytes. The archive format treats this as a hard
// error, never a silent truncation.
var ErrNameTooLong = errors.New("cp932: encoded name exceeds field size")

// Encode converts name to CP932 and returns it NUL-padded to FieldSize
// bytes. It fails with ErrNameTooLong if the encoded form doesn't fit.
func Encode(name string) ([FieldSize]byte, error) {
	var field [FieldSize]byte

	enc, err := japanese.ShiftJIS.NewEncoder().String(name)
	if err != nil {
		return field, errors.Wrapf(err, "cp932: encode %q", name)
	}
	if len(enc) > FieldSize {
		return field, errors.Wrapf(ErrNameTooLong, "%q encodes to %d bytes", name, len(enc))
	}

	copy(field[:], enc)
	return field, nil
}

// Decode converts a NUL-padded, CP932-encoded name field back to a
// Unicode string. It never fails: bytes that cannot be decoded as CP932
// are replaced with the Unicode replacement character, and decoding stops
// at the first NUL byte (the field's padding).
func Decode(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if len(field) == 0 {
		return ""
	}

	s, err := japanese.ShiftJIS.NewDecoder().String(string(field))
	if err != nil {
		// The x/text Shift-JIS decoder maps unassigned byte sequences to
		// utf8.RuneError rather than failing outright; this fallback only
		// guards against an unexpected hard error from the transformer.
		return string(utf8.RuneError)
	}
	return s
}
