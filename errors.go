package maliepak

import "github.com/pkg/errors"

// Error taxonomy (spec.md section 7). A sentinel reaches the caller either
// bare or wrapped with call-site context via github.com/pkg/errors; in
// both cases errors.Cause (or errors.Is against these sentinels) recovers
// the classification.
var (
	// ErrInputNotFound means the archive file itself could not be opened.
	ErrInputNotFound = errors.New("maliepak: input not found")

	// ErrNoMatchingKey means every catalog key failed the magic check.
	ErrNoMatchingKey = errors.New("maliepak: no matching key")

	// ErrMalformedArchive means the magic matched but counts or offsets
	// are impossible.
	ErrMalformedArchive = errors.New("maliepak: malformed archive")

	// ErrTruncatedRead means a short read occurred where a full read was
	// required.
	ErrTruncatedRead = errors.New("maliepak: truncated read")

	// ErrNameEncoding means an entry name cannot be CP932-encoded
	// (repack only).
	ErrNameEncoding = errors.New("maliepak: name encoding error")

	// ErrSidecarMismatch means a file on disk is absent from the sidecar
	// or vice versa, or an entry_index conflicts.
	ErrSidecarMismatch = errors.New("maliepak: sidecar mismatch")

	// ErrCorruptBitstream means the Huffman decoder's bit source was
	// exhausted before its output was filled.
	ErrCorruptBitstream = errors.New("maliepak: corrupt bitstream")

	// ErrUnsupportedFeature means the caller asked for an encrypted
	// repack, which is deliberately not implemented (spec.md section 9).
	ErrUnsupportedFeature = errors.New("maliepak: unsupported feature")
)
