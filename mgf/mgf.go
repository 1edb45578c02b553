// Package mgf converts between the engine's "mgf" image container and
// standard PNG. The two formats are byte-identical except for the
// leading 8-byte signature (spec.md section 4.9); every chunk after it
// is ordinary PNG and is never touched here.
package mgf

import "github.com/pkg/errors"

const SignatureSize = 8

// pngSignature is the standard PNG file signature.
var pngSignature = [SignatureSize]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// mgfPrefix is the first 7 bytes of the mgf signature; the 8th byte is
// not prescribed by the format and is preserved round-trip rather than
// reinterpreted.
var mgfPrefix = [7]byte{'M', 'a', 'l', 'i', 'e', 'G', 'F'}

// ErrTooShort means the input is shorter than the 8-byte signature
// both formats share.
var ErrTooShort = errors.New("mgf: input shorter than signature")

// IsMGF reports whether b begins with the mgf signature.
func IsMGF(b []byte) bool {
	return len(b) >= SignatureSize && [7]byte(b[0:7]) == mgfPrefix
}

// IsPNG reports whether b begins with the standard PNG signature.
func IsPNG(b []byte) bool {
	return len(b) >= SignatureSize && [8]byte(b[0:8]) == pngSignature
}

// ToPNG returns a copy of b with its leading signature replaced by the
// standard PNG signature. b must be at least SignatureSize bytes.
func ToPNG(b []byte) ([]byte, error) {
	return resign(b, pngSignature[:])
}

// ToMGF returns a copy of b with its leading signature replaced by the
// mgf signature. eighthByte is written as the format's undefined 8th
// signature byte; round-tripping a file that originated as mgf means
// passing the byte ToMGF's caller recorded from that original file
// (spec.md section 4.9); fresh encodes should pass 0x00.
func ToMGF(b []byte, eighthByte byte) ([]byte, error) {
	sig := append(append([]byte{}, mgfPrefix[:]...), eighthByte)
	return resign(b, sig)
}

func resign(b []byte, sig []byte) ([]byte, error) {
	if len(b) < SignatureSize {
		return nil, ErrTooShort
	}
	out := make([]byte, len(b))
	copy(out, b)
	copy(out[0:SignatureSize], sig)
	return out, nil
}

// EighthByte returns the 8th byte of an mgf file's signature, the value
// a later ToMGF call needs to reproduce this exact file.
func EighthByte(b []byte) (byte, error) {
	if len(b) < SignatureSize {
		return 0, ErrTooShort
	}
	return b[7], nil
}
